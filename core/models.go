package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or assigned by the catalog.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Intent is the coarse classification of what a query is trying to accomplish.
type Intent int

const (
	// IntentUnknown means no intent cue matched; confidence is zero.
	IntentUnknown Intent = iota
	// IntentRecommendation covers "recommend", "what should i watch" phrasings.
	IntentRecommendation
	// IntentSimilarity covers "like X" and "similar to X" phrasings.
	IntentSimilarity
	// IntentGenreSearch covers explicit genre terms ("horror movies").
	IntentGenreSearch
	// IntentMoodSearch covers mood phrasings ("feeling sad", "something light").
	IntentMoodSearch
	// IntentQualitySearch covers quality phrasings ("best", "highly rated").
	IntentQualitySearch
)

// String returns the intent name used in logs and provenance.
func (i Intent) String() string {
	switch i {
	case IntentRecommendation:
		return "recommendation"
	case IntentSimilarity:
		return "similarity"
	case IntentGenreSearch:
		return "genre_search"
	case IntentMoodSearch:
		return "mood_search"
	case IntentQualitySearch:
		return "quality_search"
	default:
		return "unknown"
	}
}

// YearRange is a year constraint extracted from query text.
// A zero From or To means that side is unbounded. Contradictory ranges
// (From > To, both set) are kept as extracted and flagged rather than
// silently corrected; fusion skips flagged ranges when filtering.
type YearRange struct {
	From          int
	To            int
	Contradictory bool
}

// Contains reports whether year satisfies the range.
// Contradictory ranges match everything, since they are not applied as filters.
func (r *YearRange) Contains(year int) bool {
	if r == nil || r.Contradictory {
		return true
	}
	if r.From != 0 && year < r.From {
		return false
	}
	if r.To != 0 && year > r.To {
		return false
	}
	return true
}

// Query is the normalized form of a raw search request.
// It is immutable once produced by the normalizer.
type Query struct {
	Raw        string
	Normalized string
	Tokens     []string
	Intent     Intent
	Confidence float32
	Years      *YearRange // nil when no year constraint was extracted
	Genres     []string   // explicit genre filters extracted from the text
	Rewritten  bool       // set when the optimization controller rewrote the query
}

// Movie is the catalog metadata snapshot carried by candidates
// and used for filtering, tie-breaks, and diversity.
type Movie struct {
	Id         ID
	Title      string
	Genres     []string
	Year       int
	Popularity float32
	Overview   string
	Vector     []float32 // embedding for semantic search (populated at seed time)
}

// PrimaryGenre returns the first listed genre, lowercased, or "" when unset.
func (m *Movie) PrimaryGenre() string {
	if len(m.Genres) == 0 {
		return ""
	}
	return strings.ToLower(m.Genres[0])
}

// ScoredMovie pairs a movie with a raw similarity score from the catalog.
type ScoredMovie struct {
	Movie *Movie
	Score float32
}

// Channel identifies which retrieval channel(s) produced a candidate.
type Channel uint8

const (
	// ChannelSemantic marks candidates found by vector similarity search.
	ChannelSemantic Channel = 1 << iota
	// ChannelLexical marks candidates found by keyword overlap search.
	ChannelLexical
)

// Has reports whether c includes the given channel.
func (c Channel) Has(ch Channel) bool { return c&ch != 0 }

// CandidateItem is a single retrieval candidate. The retriever populates
// the raw channel scores and metadata snapshot; only Combined may be
// updated by the fusion and optimization stages.
type CandidateItem struct {
	Id            ID
	SemanticScore float32 // cosine similarity rescaled to [0,1]
	LexicalScore  float32 // normalized keyword overlap in [0,1]
	Combined      float32
	Channels      Channel
	Movie         Movie
}

// CacheStatus records where a served result came from.
type CacheStatus int

const (
	// CacheMiss means the result was produced by a fresh retrieval.
	CacheMiss CacheStatus = iota
	// CacheHitL1 means the result came from the in-process cache tier.
	CacheHitL1
	// CacheHitL2 means the result came from the shared cache tier.
	CacheHitL2
)

// String returns the cache status name used in provenance.
func (s CacheStatus) String() string {
	switch s {
	case CacheHitL1:
		return "l1_hit"
	case CacheHitL2:
		return "l2_hit"
	default:
		return "miss"
	}
}

// RankedResult is the externally visible output of a search.
// It is owned by the caller; the pipeline retains no reference.
type RankedResult struct {
	Items          []CandidateItem
	Stage          string // pipeline stage that produced the final order
	QueryRewritten bool
	CacheStatus    CacheStatus
	Elapsed        time.Duration
}

// ActionType classifies a user interaction with a result.
type ActionType int

const (
	// ActionClick is a result click.
	ActionClick ActionType = iota + 1
	// ActionView is a detail view.
	ActionView
	// ActionLike is an explicit like.
	ActionLike
)

// Weight returns the relevance-signal weight for the action,
// matching the interaction weighting used by the ranking profiles.
func (a ActionType) Weight() float32 {
	switch a {
	case ActionView:
		return 0.2
	case ActionLike:
		return 0.5
	default:
		return 0.1
	}
}

// InteractionSignal is a single user interaction event, consumed in
// aggregate to bias future rankings. Recording never blocks a search.
type InteractionSignal struct {
	ItemId    ID
	SessionId string
	Action    ActionType
	Timestamp time.Time
}

// QueryPerformanceProfile holds rolling statistics for a query pattern,
// updated with an exponential moving average after every served query.
type QueryPerformanceProfile struct {
	Pattern        string
	AvgLatency     time.Duration
	AvgResultCount float32
	ClickThrough   float32
	Samples        uint64
}

// UserContext carries per-session personalization inputs. Only the
// preference fields participate in cache key derivation.
type UserContext struct {
	SessionId       string
	PreferredGenres []string
	PreferredYears  *YearRange
}
