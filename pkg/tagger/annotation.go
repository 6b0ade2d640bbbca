package tagger

import (
	"encoding/json"
	"strings"
)

// Annotation is a token together with its resolution.
type Annotation struct {
	Token
	Resolution
	// Stem is set only when stemming is enabled.
	Stem string
}

// String renders the annotation as "token{lemma=TAG}".
func (a Annotation) String() string {
	var b strings.Builder
	a.writeTo(&b)
	return b.String()
}

func (a Annotation) writeTo(b *strings.Builder) {
	b.WriteString(a.Text)
	b.WriteByte('{')
	b.WriteString(a.Lemma)
	b.WriteByte('=')
	b.WriteString(a.TagString())
	b.WriteByte('}')
}

type annotationJSON struct {
	Token      string   `json:"token"`
	Lemma      string   `json:"lemma"`
	Tag        string   `json:"tag"`
	Candidates []string `json:"candidates,omitempty"`
	Source     string   `json:"source"`
	Stem       string   `json:"stem,omitempty"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
}

// MarshalJSON implements json.Marshaler.
func (a Annotation) MarshalJSON() ([]byte, error) {
	out := annotationJSON{
		Token:  a.Text,
		Lemma:  a.Lemma,
		Tag:    a.TagString(),
		Source: a.Source.String(),
		Stem:   a.Stem,
		Start:  a.Start,
		End:    a.End,
	}
	if a.Ambiguous() {
		for _, t := range a.Candidates.Tags() {
			out.Candidates = append(out.Candidates, t.String())
		}
	}
	return json.Marshal(out)
}

// FormatAnnotations joins rendered annotations with single spaces.
func FormatAnnotations(anns []Annotation) string {
	var b strings.Builder
	for i, a := range anns {
		if i > 0 {
			b.WriteByte(' ')
		}
		a.writeTo(&b)
	}
	return b.String()
}
