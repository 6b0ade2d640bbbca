package tagger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTag is returned when a string is not a coarse tag code.
var ErrUnknownTag = errors.New("unknown tag")

// Tag is a coarse part-of-speech tag.
type Tag uint8

const (
	TagUnknown Tag = iota
	TagNoun
	TagAdjective
	TagVerb
	TagAdverb
	TagPreposition
	TagConjunction
	TagParticle
	TagNominal
	TagNumeral
	TagInterjection
	TagPredicative
	TagAmbiguous
)

var tagCodes = [...]string{
	TagUnknown:      "UNK",
	TagNoun:         "S",
	TagAdjective:    "A",
	TagVerb:         "V",
	TagAdverb:       "ADV",
	TagPreposition:  "PR",
	TagConjunction:  "CONJ",
	TagParticle:     "PART",
	TagNominal:      "NI",
	TagNumeral:      "NUM",
	TagInterjection: "INTJ",
	TagPredicative:  "PRED",
	TagAmbiguous:    "AMB",
}

// String returns the output code of the tag, e.g. "S" or "CONJ".
func (t Tag) String() string {
	if int(t) < len(tagCodes) {
		return tagCodes[t]
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// Concrete reports whether t is one of the tags that may appear on its own
// in output (everything except UNK and AMB).
func (t Tag) Concrete() bool {
	return t > TagUnknown && t < TagAmbiguous
}

// ParseTag parses an output code. The comparison is case-insensitive.
func ParseTag(s string) (Tag, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	for i, c := range tagCodes {
		if c == code {
			return Tag(i), nil
		}
	}
	return TagUnknown, fmt.Errorf("%w: %q", ErrUnknownTag, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Rule files and JSON
// output use it.
func (t *Tag) UnmarshalText(b []byte) error {
	parsed, err := ParseTag(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TagSet is a set of concrete tags.
type TagSet uint16

// Add returns the set with t added. UNK and AMB are never members.
func (s TagSet) Add(t Tag) TagSet {
	if !t.Concrete() {
		return s
	}
	return s | 1<<t
}

// Has reports whether t is in the set.
func (s TagSet) Has(t Tag) bool {
	return t.Concrete() && s&(1<<t) != 0
}

// Len returns the number of tags in the set.
func (s TagSet) Len() int {
	n := 0
	for t := TagNoun; t < TagAmbiguous; t++ {
		if s.Has(t) {
			n++
		}
	}
	return n
}

// Tags returns the members ordered by their output code.
func (s TagSet) Tags() []Tag {
	var tags []Tag
	for t := TagNoun; t < TagAmbiguous; t++ {
		if s.Has(t) {
			tags = append(tags, t)
		}
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].String() < tags[j].String()
	})
	return tags
}

// String joins the codes of the members with "/", e.g. "S/V".
func (s TagSet) String() string {
	tags := s.Tags()
	codes := make([]string, len(tags))
	for i, t := range tags {
		codes[i] = t.String()
	}
	return strings.Join(codes, "/")
}

// Analysis is one (lemma, tag) reading of a word form.
type Analysis struct {
	Lemma string
	Tag   Tag
}

// Source identifies the resolution stage that produced a Resolution.
type Source uint8

const (
	SourceRule Source = iota
	SourceLexicon
	SourceGuess
	SourceProperNoun
)

func (s Source) String() string {
	switch s {
	case SourceRule:
		return "rule"
	case SourceLexicon:
		return "lexicon"
	case SourceGuess:
		return "guess"
	case SourceProperNoun:
		return "proper"
	default:
		return fmt.Sprintf("Source(%d)", uint8(s))
	}
}

// Resolution is the final reading assigned to a token. When Tag is
// TagAmbiguous, Candidates holds at least two concrete tags.
type Resolution struct {
	Lemma      string
	Tag        Tag
	Candidates TagSet
	Source     Source
}

// Ambiguous reports whether the resolution carries several candidate tags.
func (r Resolution) Ambiguous() bool {
	return r.Tag == TagAmbiguous
}

// TagString renders the tag position of an annotation: a single code, or
// the sorted candidates joined with "/".
func (r Resolution) TagString() string {
	if r.Ambiguous() {
		return r.Candidates.String()
	}
	return r.Tag.String()
}
