package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/cinerag/core"
)

var (
	yearRangeRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\s*-\s*(19\d{2}|20\d{2})\b`)
	afterYearRe = regexp.MustCompile(`\b(?:after|since|from)\s+(19\d{2}|20\d{2})\b`)
	beforeYearRe = regexp.MustCompile(`\bbefore\s+(19\d{2}|20\d{2})\b`)
	decadeRe    = regexp.MustCompile(`\b(19\d{2}|20\d{2})s\b`)
	singleYearRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// extractYears pulls a year constraint out of the query text.
// Returns the text with the year phrases removed and the extracted range,
// or nil when no year constraint is present.
//
// Contradictory constraints (e.g. "after 2050 before 2000") are kept
// as written and flagged, never silently corrected. Fusion treats a
// flagged range as unsatisfiable-as-written and skips filtering on it.
func extractYears(text string) (string, *core.YearRange) {
	// Explicit range: "1990-2000"
	if m := yearRangeRe.FindStringSubmatch(text); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		text = collapseSpaces(yearRangeRe.ReplaceAllString(text, ""))
		return text, &core.YearRange{
			From:          from,
			To:            to,
			Contradictory: to < from,
		}
	}

	// Directional bounds: "after 2000", "before 1995", possibly both
	afterMatch := afterYearRe.FindStringSubmatch(text)
	beforeMatch := beforeYearRe.FindStringSubmatch(text)
	if afterMatch != nil || beforeMatch != nil {
		rng := &core.YearRange{}
		if afterMatch != nil {
			rng.From, _ = strconv.Atoi(afterMatch[1])
			text = afterYearRe.ReplaceAllString(text, "")
		}
		if beforeMatch != nil {
			rng.To, _ = strconv.Atoi(beforeMatch[1])
			text = beforeYearRe.ReplaceAllString(text, "")
		}
		if rng.From != 0 && rng.To != 0 && rng.To < rng.From {
			rng.Contradictory = true
		}
		return collapseSpaces(text), rng
	}

	// Decade: "1990s"
	if m := decadeRe.FindStringSubmatch(text); m != nil {
		start, _ := strconv.Atoi(m[1])
		text = collapseSpaces(decadeRe.ReplaceAllString(text, ""))
		return text, &core.YearRange{From: start, To: start + 9}
	}

	// Bare year: "1995"
	if m := singleYearRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		text = collapseSpaces(singleYearRe.ReplaceAllString(text, ""))
		return text, &core.YearRange{From: year, To: year}
	}

	return text, nil
}

var spacesRe = regexp.MustCompile(`\s+`)

// collapseSpaces squashes runs of whitespace and trims the ends.
func collapseSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}
