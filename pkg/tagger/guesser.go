package tagger

import (
	"sort"
	"strings"
	"unicode/utf8"
)

type suffixRule struct {
	suffix string
	tag    Tag
}

// suffixRules is ordered longest suffix first so the first match is the
// most specific one.
var suffixRules = buildSuffixRules(map[Tag][]string{
	TagVerb: {"ться", "ть"},
	TagAdjective: {
		"ый", "ий", "ой", "ая", "яя", "ое", "ее", "ые", "ие",
		"ого", "его", "ому", "ему", "ым", "им", "ыми", "ими", "ых", "их", "ую", "юю",
	},
	TagAdverb: {"но", "ли", "же", "ль"},
})

func buildSuffixRules(byTag map[Tag][]string) []suffixRule {
	var rules []suffixRule
	for tag, suffixes := range byTag {
		for _, s := range suffixes {
			rules = append(rules, suffixRule{suffix: s, tag: tag})
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(rules[i].suffix), utf8.RuneCountInString(rules[j].suffix)
		if li != lj {
			return li > lj
		}
		return rules[i].suffix < rules[j].suffix
	})
	return rules
}

// Guess estimates the tag of an out-of-vocabulary normalized form from its
// ending. Forms with no known ending fall into TagNominal. Guess never
// returns TagUnknown.
func Guess(form string) Tag {
	for _, r := range suffixRules {
		if strings.HasSuffix(form, r.suffix) {
			return r.tag
		}
	}
	return TagNominal
}
