package tagger

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// RuleTable is a closed-class word list with a fixed tag. Words resolve to
// themselves as lemma; Lemmas maps inflected forms to a canonical lemma.
type RuleTable struct {
	Name   string            `yaml:"name"`
	Tag    Tag               `yaml:"tag"`
	Words  []string          `yaml:"words,omitempty"`
	Lemmas map[string]string `yaml:"lemmas,omitempty"`
}

// Rules is the merged, read-only view of a list of rule tables.
type Rules struct {
	entries map[string]Analysis
	origin  map[string]string
}

// NewRules merges tables in order. A form listed in several tables keeps
// the analysis of the first one.
func NewRules(tables ...RuleTable) *Rules {
	r := &Rules{
		entries: make(map[string]Analysis),
		origin:  make(map[string]string),
	}
	for _, t := range tables {
		for _, w := range t.Words {
			key := Normalize(w)
			r.insert(key, Analysis{Lemma: key, Tag: t.Tag}, t.Name)
		}
		for _, form := range slices.Sorted(maps.Keys(t.Lemmas)) {
			r.insert(Normalize(form), Analysis{Lemma: Normalize(t.Lemmas[form]), Tag: t.Tag}, t.Name)
		}
	}
	return r
}

func (r *Rules) insert(key string, a Analysis, table string) {
	if key == "" || !a.Tag.Concrete() {
		return
	}
	if _, exists := r.entries[key]; exists {
		return
	}
	if a.Lemma == "" {
		a.Lemma = key
	}
	r.entries[key] = a
	r.origin[key] = table
}

// DefaultRules returns the built-in closed-class rules.
func DefaultRules() *Rules {
	return NewRules(DefaultRuleTables()...)
}

// Lookup returns the fixed analysis of a normalized form.
func (r *Rules) Lookup(form string) (Analysis, bool) {
	if r == nil {
		return Analysis{}, false
	}
	a, ok := r.entries[form]
	return a, ok
}

// Table returns the name of the table that supplied form's analysis.
func (r *Rules) Table(form string) string {
	if r == nil {
		return ""
	}
	return r.origin[form]
}

// Len returns the number of distinct forms covered.
func (r *Rules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// LoadRuleTables decodes a YAML list of rule tables.
func LoadRuleTables(rd io.Reader) ([]RuleTable, error) {
	var tables []RuleTable
	if err := yaml.NewDecoder(rd).Decode(&tables); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode rule tables: %w", err)
	}
	for i, t := range tables {
		if !t.Tag.Concrete() {
			return nil, fmt.Errorf("rule table %d (%s): tag %s cannot be used in rules", i, t.Name, t.Tag)
		}
	}
	return tables, nil
}

// LoadRules reads extra rule tables from a YAML file and merges them ahead
// of the defaults, so they override built-in entries.
func LoadRules(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}
	defer f.Close()

	tables, err := LoadRuleTables(f)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", path, err)
	}
	return NewRules(append(tables, DefaultRuleTables()...)...), nil
}

// DefaultRuleTables returns the built-in closed-class tables in precedence
// order: conjunctions, prepositions, adverbs, particles, pronouns,
// interjections. "ли" therefore resolves as a conjunction.
func DefaultRuleTables() []RuleTable {
	return []RuleTable{
		{
			Name:  "conjunctions",
			Tag:   TagConjunction,
			Words: []string{"и", "а", "но", "да", "или", "ли", "либо", "чтобы", "если", "хотя", "зато", "однако"},
		},
		{
			Name: "prepositions",
			Tag:  TagPreposition,
			Words: []string{"в", "во", "с", "со", "за", "от", "ото", "из", "изо", "по", "о", "об", "обо", "у", "к", "ко",
				"для", "над", "надо", "под", "подо", "при", "через", "про", "без", "безо", "до", "перед", "передо", "между", "около", "среди", "после", "вокруг"},
		},
		{
			Name:  "adverbs",
			Tag:   TagAdverb,
			Words: []string{"уже", "чуть", "далеко", "никуда", "здесь", "там", "тут", "везде", "всегда", "никогда", "очень", "еще", "теперь", "сейчас", "потом", "туда", "сюда", "отсюда", "оттуда"},
		},
		{
			Name:  "particles",
			Tag:   TagParticle,
			Words: []string{"не", "ни", "ли", "же", "ль", "бы", "б", "вот", "вон", "даже", "лишь", "только", "ведь", "разве", "неужели", "пусть"},
		},
		{
			Name: "pronouns",
			Tag:  TagNominal,
			Lemmas: map[string]string{
				"я": "я", "меня": "я", "мне": "я", "мной": "я", "мною": "я",
				"ты": "ты", "тебя": "ты", "тебе": "ты", "тобой": "ты", "тобою": "ты",
				"он": "он", "его": "он", "него": "он", "ему": "он", "нему": "он", "им": "он", "ним": "он", "нем": "он",
				"она": "она", "ее": "она", "нее": "она", "ей": "она", "ней": "она", "ею": "она", "нею": "она",
				"оно": "оно",
				"мы": "мы", "нас": "мы", "нам": "мы", "нами": "мы",
				"вы": "вы", "вас": "вы", "вам": "вы", "вами": "вы",
				"они": "они", "их": "они", "них": "они", "ими": "они", "ними": "они",
				"себя": "себя", "себе": "себя", "собой": "себя", "собою": "себя",
			},
		},
		{
			Name:  "interjections",
			Tag:   TagInterjection,
			Words: []string{"ах", "ох", "ой", "эх", "увы", "ура", "ага", "ого", "эй", "ау", "фу", "тсс"},
		},
	}
}
