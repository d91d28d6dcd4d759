package query

// The tables in this file are data, not logic. They can be swapped per
// normalizer instance via WithSynonyms, WithSpellings and WithStopWords.

// defaultPreserveWords are movie-domain terms that survive stop-word removal.
var defaultPreserveWords = map[string]bool{
	"action": true, "comedy": true, "drama": true, "horror": true,
	"thriller": true, "romance": true, "sci-fi": true, "fantasy": true,
	"animated": true, "documentary": true, "mystery": true, "adventure": true,
	"family": true, "western": true, "kids": true, "children": true,
	"dark": true, "funny": true, "scary": true, "old": true, "new": true,
	"classic": true, "movie": true, "film": true, "cinema": true, "flick": true,
}

// defaultStopWords carry little signal for movie search.
var defaultStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true,
	"i": true, "you": true, "he": true, "she": true, "it": true, "we": true,
	"they": true, "me": true, "him": true, "her": true, "us": true,
	"them": true, "my": true, "your": true, "his": true, "its": true,
	"our": true, "their": true, "this": true, "that": true, "these": true,
	"those": true, "some": true, "any": true, "all": true, "no": true,
	"not": true,
}

// defaultSynonyms expand genre shorthand into catalog vocabulary.
var defaultSynonyms = map[string]string{
	"sci-fi":    "science fiction",
	"scifi":     "science fiction",
	"romcom":    "romantic comedy",
	"rom-com":   "romantic comedy",
	"action":    "action adventure",
	"kids":      "children family",
	"animated":  "animation children",
	"superhero": "action adventure fantasy",
	"zombie":    "horror thriller",
	"vampire":   "horror fantasy",
	"space":     "science fiction adventure",
	"war":       "drama action",
	"crime":     "thriller drama",
	"western":   "drama adventure",
}

// defaultSpellings maps known misspellings of movie and genre terms.
var defaultSpellings = map[string]string{
	"recomend": "recommend",
	"movei":    "movie",
	"moive":    "movie",
	"fim":      "film",
	"wath":     "watch",
	"similer":  "similar",
	"similiar": "similar",
	"genere":   "genre",
	"commedy":  "comedy",
	"horrer":   "horror",
	"fantacy":  "fantasy",
	"acton":    "action",
	"thriler":  "thriller",
}

// termNormalization is an ordered rewrite applied before synonym expansion.
type termNormalization struct {
	from string // whole-word match
	to   string
}

// defaultNormalizations fold term variants into a canonical vocabulary.
// Order matters: earlier rewrites feed later ones.
var defaultNormalizations = []termNormalization{
	{"movies", "movie"},
	{"films", "movie"},
	{"film", "movie"},
	{"flicks", "movie"},
	{"flick", "movie"},
	{"cinema", "movie"},
	{"show", "movie"},
	{"series", "movie"},
	{"kid", "children"},
	{"child", "children"},
	{"family", "children family"},
	{"old", "classic"},
	{"vintage", "classic"},
	{"retro", "classic"},
	{"modern", "new"},
	{"recent", "new"},
	{"latest", "new"},
	{"funny", "comedy"},
	{"hilarious", "comedy"},
	{"scary", "horror"},
	{"frightening", "horror"},
	{"terrifying", "horror"},
	{"romantic", "romance"},
	{"love", "romance"},
}

// stripPhrases are search framing artifacts removed from queries.
// Intent classification runs before stripping so similarity cues survive.
var stripPhrases = []string{
	"movies like ",
	"movie like ",
	"films like ",
	"film like ",
	"similar to ",
	"something like ",
	"find me ",
	"show me ",
	"looking for ",
	"search for ",
	"i want ",
	"i need ",
}

// Intent cue tables, checked in strict priority order.
var (
	similarityCues = []string{
		"movies like", "movie like", "films like", "film like",
		"similar to", "something like", "like the movie",
	}

	recommendationCues = []string{
		"recommend", "suggest", "what should i watch", "good movie for",
	}

	genreCues = []string{
		"action", "comedy", "drama", "horror", "romance", "thriller",
		"science fiction", "sci-fi", "fantasy", "animation", "documentary",
		"crime", "mystery", "adventure", "western",
	}

	moodCues = []string{
		"funny", "scary", "sad", "happy", "dark", "feel-good", "uplifting",
		"emotional", "nostalgic", "exciting", "relaxing",
	}

	qualityCues = []string{
		"best", "good", "great", "top rated", "top-rated", "highly rated",
		"award winning", "acclaimed", "amazing",
	}
)

// filterGenres are the catalog genres recognized as explicit constraints.
var filterGenres = []string{
	"action", "comedy", "drama", "horror", "romance", "thriller",
	"science fiction", "fantasy", "animation", "documentary", "crime",
	"mystery", "adventure", "western",
}
