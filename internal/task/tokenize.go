package task

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const minTokenLen = 3

// Tokenize lowercases text and splits it on every rune that is not a letter
// or digit. Tokens shorter than three runes are dropped; order is kept.
func Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}
	lower := cases.Lower(language.Und).String(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
