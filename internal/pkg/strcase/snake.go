package strcase

import "unicode"

// ToLowerSnake converts a Go identifier such as "ExpiresAt" or "TTLSeconds"
// to snake_case. Runs of capitals are kept together as one word.
func ToLowerSnake(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes)+4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && startsWord(runes, i) {
			out = append(out, '_')
		}
		out = append(out, unicode.ToLower(r))
	}

	return string(out)
}

// startsWord reports whether the capital at i opens a new word: after a lower
// case letter or digit, or as the last capital of an acronym followed by lower case.
func startsWord(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
