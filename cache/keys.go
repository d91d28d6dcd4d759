package cache

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/cinerag/core"
)

// resultKeyPrefix namespaces search result entries in the shared tier.
const resultKeyPrefix = "sr:"

// Key derives a stable cache key for a normalized query, its active
// filters, and the personalization bucket that affects ranking.
//
// Volatile fields (timestamps, session ids) never enter the key:
// identical queries from different moments must collide.
func Key(query *core.Query, bucket string) string {
	var b strings.Builder

	b.WriteString(query.Normalized)
	b.WriteByte('|')

	genres := slices.Clone(query.Genres)
	slices.Sort(genres)
	b.WriteString(strings.Join(genres, ","))
	b.WriteByte('|')

	if query.Years != nil {
		fmt.Fprintf(&b, "%d-%d", query.Years.From, query.Years.To)
		if query.Years.Contradictory {
			b.WriteByte('!')
		}
	}
	b.WriteByte('|')
	b.WriteString(bucket)

	h, _ := blake2b.New(16, nil)
	h.Write([]byte(b.String()))
	return resultKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// PersonalizationBucket reduces a user context to the stable string
// that distinguishes cached rankings. Users with the same preferences
// share entries.
func PersonalizationBucket(user *core.UserContext) string {
	if user == nil {
		return ""
	}

	var b strings.Builder
	genres := slices.Clone(user.PreferredGenres)
	slices.Sort(genres)
	b.WriteString(strings.Join(genres, ","))
	if user.PreferredYears != nil {
		fmt.Fprintf(&b, "|%d-%d", user.PreferredYears.From, user.PreferredYears.To)
	}
	return b.String()
}
