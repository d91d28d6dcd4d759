package optimize

import (
	"strings"

	"github.com/poiesic/cinerag/core"
)

// diversify caps runs of same-primary-genre items at maxConsecutive by
// pulling the next differently-genred item forward. The pass is stable
// for items it does not move and never drops an item; when every
// remaining item shares the genre the run is allowed to exceed the cap.
func diversify(items []core.CandidateItem, maxConsecutive int) []core.CandidateItem {
	if maxConsecutive < 1 || len(items) <= maxConsecutive {
		return items
	}

	pending := make([]core.CandidateItem, len(items))
	copy(pending, items)

	out := make([]core.CandidateItem, 0, len(items))
	run := 0
	runGenre := ""

	for len(pending) > 0 {
		pick := 0
		if run >= maxConsecutive && strings.EqualFold(pending[0].Movie.PrimaryGenre(), runGenre) {
			for j := 1; j < len(pending); j++ {
				if !strings.EqualFold(pending[j].Movie.PrimaryGenre(), runGenre) {
					pick = j
					break
				}
			}
		}

		item := pending[pick]
		pending = append(pending[:pick], pending[pick+1:]...)

		genre := item.Movie.PrimaryGenre()
		if strings.EqualFold(genre, runGenre) {
			run++
		} else {
			runGenre = genre
			run = 1
		}
		out = append(out, item)
	}

	return out
}
