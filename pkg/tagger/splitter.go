package tagger

import (
	"iter"
	"unicode"
)

// Token is a word found in the input text.
type Token struct {
	Text  string
	Start int // rune offset of the first rune
	End   int // rune offset just past the last rune
}

// Tokens yields the words of text from left to right. A word is a maximal
// run of Cyrillic or ASCII Latin letters; a combining mark directly after a
// letter stays in the word. Everything else separates words and is dropped.
func Tokens(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		runes := []rune(text)
		start := -1

		for i := 0; i <= len(runes); i++ {
			inWord := false
			if i < len(runes) {
				r := runes[i]
				inWord = isWordRune(r) || (start >= 0 && unicode.Is(unicode.Mn, r))
			}

			switch {
			case inWord && start < 0:
				start = i
			case !inWord && start >= 0:
				if !yield(Token{Text: string(runes[start:i]), Start: start, End: i}) {
					return
				}
				start = -1
			}
		}
	}
}

// SplitWords collects Tokens into a slice.
func SplitWords(text string) []Token {
	var tokens []Token
	for tok := range Tokens(text) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// isWordRune determines if a rune belongs to a word.
func isWordRune(r rune) bool {
	if r <= unicode.MaxASCII {
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
	}
	return unicode.Is(unicode.Cyrillic, r) && unicode.IsLetter(r)
}
