package optimize

import "strings"

// expansionTerms supplies related terms for expanding terse genre
// queries. Only the first missing term is appended. expansionOrder
// keeps the lookup deterministic when a query names several genres.
var expansionTerms = map[string][]string{
	"action":          {"thriller", "adventure", "exciting", "intense"},
	"comedy":          {"funny", "humorous", "laugh", "amusing"},
	"horror":          {"scary", "frightening", "terror", "suspense"},
	"romance":         {"love", "romantic", "relationship", "couple"},
	"science fiction": {"futuristic", "space", "technology"},
	"drama":           {"emotional", "serious", "character driven", "story"},
}

var expansionOrder = []string{"action", "comedy", "horror", "romance", "science fiction", "drama"}

// simplifications collapses redundant phrases in verbose queries.
var simplifications = [][2]string{
	{"very good", "good"},
	{"really great", "great"},
	{"highly recommended", "recommended"},
	{"movies like", "similar to"},
	{"films similar to", "similar to"},
	{"something like", "similar to"},
}

// expandQuery appends one related term for the first genre mentioned
// in the text. Returns the input unchanged when nothing applies.
func expandQuery(text string) string {
	for _, genre := range expansionOrder {
		if !strings.Contains(text, genre) {
			continue
		}
		for _, term := range expansionTerms[genre] {
			if !strings.Contains(text, term) {
				return text + " " + term
			}
		}
	}
	return text
}

// simplifyQuery collapses redundant phrases and drops repeated words,
// keeping first occurrences in order.
func simplifyQuery(text string) string {
	simplified := text
	for _, pair := range simplifications {
		simplified = strings.ReplaceAll(simplified, pair[0], pair[1])
	}

	seen := make(map[string]struct{})
	var unique []string
	for _, word := range strings.Fields(simplified) {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		unique = append(unique, word)
	}
	return strings.Join(unique, " ")
}
