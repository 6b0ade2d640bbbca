package tagger

import "strings"

// sourceTags maps part-of-speech codes found in lexicon resources to coarse
// tags. It covers the OpenCorpora tag set and the Mystem/Russian National
// Corpus codes.
var sourceTags = map[string]Tag{
	// nouns
	"NOUN": TagNoun,
	"S":    TagNoun,
	"N":    TagNoun,

	// adjectives, full and short
	"ADJF": TagAdjective,
	"ADJS": TagAdjective,
	"A":    TagAdjective,

	// verbs: finite, infinitive, participles, gerund
	"VERB": TagVerb,
	"INFN": TagVerb,
	"PRTF": TagVerb,
	"PRTS": TagVerb,
	"GRND": TagVerb,
	"V":    TagVerb,

	// adverbs and comparatives
	"ADVB": TagAdverb,
	"ADV":  TagAdverb,
	"COMP": TagAdverb,

	"PREP": TagPreposition,
	"PR":   TagPreposition,

	"CONJ": TagConjunction,

	"PRCL": TagParticle,
	"PART": TagParticle,

	"INTJ": TagInterjection,

	// pronoun classes
	"NPRO":   TagNominal,
	"SPRO":   TagNominal,
	"APRO":   TagNominal,
	"ADVPRO": TagNominal,

	"NUMR": TagNumeral,
	"NUM":  TagNumeral,
	"ANUM": TagNumeral,

	"PRED":    TagPredicative,
	"PRAEDIC": TagPredicative,
}

// sourceCode extracts the part-of-speech code of a descriptor field: the
// text before the first comma or "=", uppercased. "NOUN,anim,masc" and
// "S,жен,неод=им" yield "NOUN" and "S".
func sourceCode(field string) string {
	if i := strings.IndexAny(field, ",="); i >= 0 {
		field = field[:i]
	}
	return strings.ToUpper(strings.TrimSpace(field))
}

// CoarseTag maps a source part-of-speech descriptor to a coarse tag.
// Unrecognized codes map to TagUnknown.
func CoarseTag(field string) Tag {
	if tag, ok := sourceTags[sourceCode(field)]; ok {
		return tag
	}
	return TagUnknown
}

// isSourceCode reports whether field starts with a known part-of-speech code.
func isSourceCode(field string) bool {
	_, ok := sourceTags[sourceCode(field)]
	return ok
}
