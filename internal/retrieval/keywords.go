package retrieval

// #region imports
import (
	"strings"
	"unicode"
)

// #endregion

// #region stopwords
// stopwords contains common English words excluded from keyword extraction.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "be": true, "been": true,
	"being": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "shall": true, "not": true,
	"no": true, "and": true, "or": true, "but": true, "if": true,
	"then": true, "than": true, "so": true, "as": true, "at": true,
	"by": true, "for": true, "from": true, "in": true, "into": true,
	"of": true, "on": true, "to": true, "with": true, "about": true,
	"up": true, "out": true, "it": true, "its": true, "this": true,
	"that": true, "what": true, "which": true, "who": true, "how": true,
	"when": true, "where": true, "why": true, "you": true, "me": true,
	"i": true, "my": true, "your": true, "we": true, "they": true,
	"our": true, "their": true, "please": true, "need": true, "want": true,
	"policy": true, "policies": true,
}

// #endregion stopwords

// #region extract

// maxKeywords caps how many context tokens feed retrieval and scoring.
const maxKeywords = 10

// ExtractKeywords turns free-text context into retrieval keywords:
// lowercase, punctuation stripped, whitespace split, stopwords and tokens
// of length <= 3 dropped, capped at maxKeywords, original order preserved.
// The extraction is deterministic so identical input yields identical
// retrieval.
func ExtractKeywords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	var keywords []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 3 || stopwords[w] {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// #endregion extract
