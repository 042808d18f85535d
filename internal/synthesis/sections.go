package synthesis

// #region imports
import (
	"regexp"
	"strings"
)

// #endregion

// #region sentence-extraction

// anchorKeywords is how many leading context keywords anchor sentence
// extraction.
const anchorKeywords = 5

// fallbackChars is the prefix taken when no sentence matches a keyword.
const fallbackChars = 200

var sentenceSplit = regexp.MustCompile(`[.!?]+\s+`)

// extractSentences returns the document sentences containing any of the
// first anchorKeywords keywords, in document order. When nothing matches
// it falls back to the first fallbackChars characters.
func extractSentences(content string, keywords []string) string {
	if len(keywords) > anchorKeywords {
		keywords = keywords[:anchorKeywords]
	}

	var matched []string
	if len(keywords) > 0 {
		for _, sentence := range sentenceSplit.Split(content, -1) {
			lower := strings.ToLower(sentence)
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					matched = append(matched, strings.TrimSpace(sentence))
					break
				}
			}
		}
	}
	if len(matched) > 0 {
		return strings.Join(matched, ". ") + "."
	}

	trimmed := strings.TrimSpace(content)
	if len(trimmed) > fallbackChars {
		trimmed = trimmed[:fallbackChars]
	}
	return trimmed
}

// #endregion sentence-extraction

// #region list-extraction

// maxListItems caps itemized clause extraction per document.
const maxListItems = 5

// listItem matches numbered, bulleted and dashed list entries.
var listItem = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]|[-*•])\s+(.+)$`)

// extractListItems pulls up to maxListItems itemized clauses out of a
// document body.
func extractListItems(content string) []string {
	var items []string
	for _, m := range listItem.FindAllStringSubmatch(content, -1) {
		items = append(items, strings.TrimSpace(m[1]))
		if len(items) == maxListItems {
			break
		}
	}
	return items
}

// #endregion list-extraction
