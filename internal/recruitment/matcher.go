package recruitment

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Matching thresholds. A candidate term counts as present when it appears
// literally in the resume or when some resume token is at least
// similarityThreshold similar to it. Desirable skills make a candidate
// suitable when more than desirableMinShare of them are found.
const (
	similarityThreshold = 0.79
	desirableMinShare   = 0.50
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases text and removes accents and punctuation so that
// "Gestión de Proyectos" and "gestion de proyectos" compare equal.
func Normalize(text string) string {
	text = strings.ToLower(text)
	if stripped, _, err := transform.String(stripAccents, text); err == nil {
		text = stripped
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MatchResult is the outcome of searching a word list in a resume.
type MatchResult struct {
	Found    []string
	NotFound []string
	Suitable bool
}

// MatchRequired reports whether every word is present in text. The first
// missing word short-circuits the search.
func MatchRequired(text string, words []string) MatchResult {
	tokens := strings.Fields(Normalize(text))
	result := MatchResult{Found: []string{}, NotFound: []string{}}
	for _, word := range words {
		if containsWord(tokens, Normalize(word)) {
			result.Found = append(result.Found, word)
			continue
		}
		result.NotFound = append(result.NotFound, word)
		return result
	}
	result.Suitable = true
	return result
}

// MatchDesirable counts how many words are present in text. The candidate
// passes when the found share exceeds desirableMinShare.
func MatchDesirable(text string, words []string) MatchResult {
	tokens := strings.Fields(Normalize(text))
	result := MatchResult{Found: []string{}, NotFound: []string{}}
	for _, word := range words {
		if containsWord(tokens, Normalize(word)) {
			result.Found = append(result.Found, word)
		} else {
			result.NotFound = append(result.NotFound, word)
		}
	}
	if len(words) == 0 {
		result.Suitable = true
		return result
	}
	result.Suitable = float64(len(result.Found))/float64(len(words)) > desirableMinShare
	return result
}

// Evaluate runs both matches against a resume. The candidate is suitable
// only when all required skills and enough desirable ones are found.
func Evaluate(text string, required, desirable []string) (AbilityMatch, bool) {
	req := MatchRequired(text, required)
	des := MatchDesirable(text, desirable)
	match := AbilityMatch{
		RequiredFound:     req.Found,
		RequiredNotFound:  req.NotFound,
		DesirableFound:    des.Found,
		DesirableNotFound: des.NotFound,
	}
	return match, req.Suitable && des.Suitable
}

func containsWord(tokens []string, word string) bool {
	if word == "" {
		return false
	}
	for _, token := range tokens {
		if token == word {
			return true
		}
		if similarity(token, word) >= similarityThreshold {
			return true
		}
	}
	return false
}

// similarity is a normalized Levenshtein ratio in [0,1]. It stands in for
// the embedding-based comparison a dedicated NLP service would provide,
// catching inflections and minor misspellings.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein([]rune(a), []rune(b)))/float64(longest)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
