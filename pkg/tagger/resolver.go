package tagger

import (
	"unicode"
	"unicode/utf8"
)

// Resolver assigns a lemma and tag to single tokens. Precedence is strict:
// closed-class rules, then the lexicon, then the suffix guesser. A Resolver
// holds no mutable state and is safe for concurrent use.
type Resolver struct {
	lex   *Lexicon
	rules *Rules
}

// NewResolver creates a resolver. Either argument may be nil.
func NewResolver(lex *Lexicon, rules *Rules) *Resolver {
	return &Resolver{lex: lex, rules: rules}
}

// Resolve returns the reading of a token as it appears in the text.
func (r *Resolver) Resolve(token string) Resolution {
	return r.ResolveNormalized(token, Normalize(token))
}

// ResolveNormalized resolves a token whose normalized form is already known.
// Every token gets a resolution; the tag is never TagUnknown.
func (r *Resolver) ResolveNormalized(token, form string) Resolution {
	if a, ok := r.rules.Lookup(form); ok {
		return Resolution{Lemma: a.Lemma, Tag: a.Tag, Source: SourceRule}
	}

	if analyses := r.lex.lookup(form); len(analyses) > 0 {
		return resolveAnalyses(form, analyses)
	}

	if startsUpper(token) {
		return Resolution{Lemma: token, Tag: TagNoun, Source: SourceProperNoun}
	}
	return Resolution{Lemma: form, Tag: Guess(form), Source: SourceGuess}
}

// resolveAnalyses collapses lexicon analyses. The lemma always comes from
// the first analysis; conflicting tags produce an ambiguous resolution.
func resolveAnalyses(form string, analyses []Analysis) Resolution {
	res := Resolution{Lemma: analyses[0].Lemma, Source: SourceLexicon}
	if res.Lemma == "" {
		res.Lemma = form
	}

	var tags TagSet
	for _, a := range analyses {
		tags = tags.Add(a.Tag)
	}

	switch tags.Len() {
	case 0:
		res.Tag = Guess(form)
	case 1:
		res.Tag = tags.Tags()[0]
	default:
		res.Tag = TagAmbiguous
		res.Candidates = tags
	}
	return res
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
