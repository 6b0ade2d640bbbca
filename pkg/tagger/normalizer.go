package tagger

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizerFunc defines a single normalization step.
type NormalizerFunc func(string) string

// defaultSteps is the pipeline behind Normalize. Lexicon construction, rule
// tables and lookups must all go through it or keys silently miss.
var defaultSteps = []NormalizerFunc{
	Lowercase,
	StripStressMarks,
	FoldYo,
}

// Normalize returns the lookup key of a word form: lowercased, stress marks
// removed, with ё folded to е. It is idempotent.
func Normalize(s string) string {
	for _, step := range defaultSteps {
		s = step(s)
	}
	return s
}

// isStressMark matches the combining acute and grave accents used to mark
// stress in dictionaries and textbooks.
func isStressMark(r rune) bool {
	return r == '\u0301' || r == '\u0300'
}

// StripStressMarks removes combining stress accents and recomposes the
// result, so a decomposed е + U+0308 comes out as ё.
func StripStressMarks(s string) string {
	if isNFCWithoutStress(s) {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isStressMark)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// isNFCWithoutStress is the fast path for the common already-clean case.
// NFC composes е and и with a grave accent into single code points, so those
// count as stressed too.
func isNFCWithoutStress(s string) bool {
	return norm.NFC.IsNormalString(s) && strings.IndexFunc(s, hasStress) < 0
}

func hasStress(r rune) bool {
	switch r {
	case '\u0400', '\u040D', '\u0450', '\u045D':
		return true
	}
	return isStressMark(r)
}

// Lowercase converts to lowercase.
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// FoldYo replaces ё with е. A decomposed е + U+0308 is folded too, as is
// any further diaeresis stacked on the same letter.
func FoldYo(s string) string {
	if !strings.ContainsAny(s, "ёЁ\u0308") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	afterE := false
	for _, r := range norm.NFD.String(s) {
		switch {
		case r == '\u0308' && afterE:
			continue
		case unicode.Is(unicode.Mn, r):
		default:
			afterE = r == 'е' || r == 'Е'
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// StemRussian applies the Russian Snowball stemmer.
func StemRussian(s string) string {
	stemmed, err := snowball.Stem(s, "russian", true)
	if err != nil {
		return s
	}
	return stemmed
}
