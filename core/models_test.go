package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	id1 := IDFromContent("toy story (1995)")
	id2 := IDFromContent("toy story (1995)")
	if id1 != id2 {
		t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
	}

	if IDFromContent("heat") == IDFromContent("heat (1995)") {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestYearRange_Contains(t *testing.T) {
	tests := []struct {
		name  string
		rng   *YearRange
		year  int
		want  bool
	}{
		{"nil range matches all", nil, 1942, true},
		{"within closed range", &YearRange{From: 1990, To: 1999}, 1995, true},
		{"below closed range", &YearRange{From: 1990, To: 1999}, 1989, false},
		{"above closed range", &YearRange{From: 1990, To: 1999}, 2000, false},
		{"open upper bound", &YearRange{From: 2000}, 2024, true},
		{"open lower bound", &YearRange{To: 1995}, 1950, true},
		{"contradictory range matches all", &YearRange{From: 2050, To: 2000, Contradictory: true}, 1980, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rng.Contains(tt.year); got != tt.want {
				t.Errorf("Contains(%d) = %v, want %v", tt.year, got, tt.want)
			}
		})
	}
}

func TestIntent_String(t *testing.T) {
	tests := []struct {
		intent Intent
		want   string
	}{
		{IntentUnknown, "unknown"},
		{IntentRecommendation, "recommendation"},
		{IntentSimilarity, "similarity"},
		{IntentGenreSearch, "genre_search"},
		{IntentMoodSearch, "mood_search"},
		{IntentQualitySearch, "quality_search"},
		{Intent(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.intent.String(); got != tt.want {
			t.Errorf("Intent(%d).String() = %q, want %q", tt.intent, got, tt.want)
		}
	}
}

func TestMovie_PrimaryGenre(t *testing.T) {
	m := Movie{Title: "Alien", Genres: []string{"Horror", "Sci-Fi"}}
	if got := m.PrimaryGenre(); got != "horror" {
		t.Errorf("PrimaryGenre() = %q, want %q", got, "horror")
	}

	empty := Movie{Title: "Untagged"}
	if got := empty.PrimaryGenre(); got != "" {
		t.Errorf("PrimaryGenre() on empty genres = %q, want empty", got)
	}
}

func TestChannel_Has(t *testing.T) {
	both := ChannelSemantic | ChannelLexical
	if !both.Has(ChannelSemantic) || !both.Has(ChannelLexical) {
		t.Error("combined channel should include both sources")
	}
	if ChannelSemantic.Has(ChannelLexical) {
		t.Error("semantic-only channel should not include lexical")
	}
}
