package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleSentence = "Я люблю русскую печь и печь пироги"

const exampleTagged = "Я{я=NI} люблю{любить=V} русскую{русский=A} печь{печь=S/V} и{и=CONJ} печь{печь=S/V} пироги{пирог=S}"

func newTestTagger(t testing.TB, cfg Config) *Tagger {
	t.Helper()
	lex := openTestLexicon(t, "testdata/lexicon_block.txt", LexiconOptions{})
	return New(lex, nil, cfg)
}

func TestTagSentence(t *testing.T) {
	tagger := newTestTagger(t, DefaultConfig())

	tests := []struct {
		input    string
		expected string
	}{
		{exampleSentence, exampleTagged},
		{"", ""},
		{"  ... 123 !!!", ""},
		{"Ёж, ёж!", "Ёж{еж=S} ёж{еж=S}"},
		{"Москва стали", "Москва{Москва=S} стали{стать=S/V}"},
		{"ПЕЧЁТ", "ПЕЧЁТ{печь=V}"},
		{"хз бегать", "хз{хз=NI} бегать{бегать=V}"},
		{"Столовой", "Столовой{столовая=S}"},
	}

	for _, tt := range tests {
		if got := tagger.TagSentence(tt.input); got != tt.expected {
			t.Errorf("TagSentence(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTagSentence_CompressedLexicon(t *testing.T) {
	lex := openTestLexicon(t, "testdata/lexicon_block.txt.bz2", LexiconOptions{})
	tagger := New(lex, nil, DefaultConfig())

	assert.Equal(t, exampleTagged, tagger.TagSentence(exampleSentence))
}

func TestTagSentence_Deterministic(t *testing.T) {
	cached := newTestTagger(t, DefaultConfig())

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	uncached := newTestTagger(t, cfg)
	require.False(t, uncached.CacheEnabled())

	for range 3 {
		assert.Equal(t, exampleTagged, cached.TagSentence(exampleSentence))
		assert.Equal(t, exampleTagged, uncached.TagSentence(exampleSentence))
	}
}

func TestAnalyze(t *testing.T) {
	tagger := newTestTagger(t, DefaultConfig())

	anns := tagger.Analyze(exampleSentence)
	require.Len(t, anns, 7)

	assert.Equal(t, Token{Text: "русскую", Start: 8, End: 15}, anns[2].Token)
	assert.Equal(t, SourceRule, anns[0].Source)
	assert.Equal(t, SourceLexicon, anns[3].Source)
	assert.True(t, anns[3].Ambiguous())
	assert.Equal(t, "печь{печь=S/V}", anns[5].String())
	for _, a := range anns {
		assert.Empty(t, a.Stem, "stems are off by default")
	}

	assert.Nil(t, tagger.Analyze("!!!"))
}

func TestAnalyze_Stem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stem = true
	tagger := newTestTagger(t, cfg)

	for _, a := range tagger.Analyze(exampleSentence) {
		assert.NotEmpty(t, a.Stem, "token %q", a.Text)
		assert.Equal(t, StemRussian(Normalize(a.Text)), a.Stem)
	}
	assert.Equal(t, exampleTagged, tagger.TagSentence(exampleSentence), "stems do not change the text rendering")
}

func TestTagger_Cache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Size = 4
	tagger := newTestTagger(t, cfg)
	require.True(t, tagger.CacheEnabled())

	tagger.TagSentence("печь печь Печь")
	assert.Equal(t, 2, tagger.CacheSize(), "cache keys are case sensitive")

	tagger.TagSentence(exampleSentence)
	assert.Equal(t, 4, tagger.CacheSize(), "cache is bounded")

	tagger.ClearCache()
	assert.Equal(t, 0, tagger.CacheSize())

	cfg.Cache.Enabled = false
	uncached := newTestTagger(t, cfg)
	uncached.TagSentence(exampleSentence)
	assert.Equal(t, 0, uncached.CacheSize())
	uncached.ClearCache()
}

func TestTagger_CachedProperNoun(t *testing.T) {
	tagger := newTestTagger(t, DefaultConfig())

	// the capitalized token must not poison the lowercase one
	assert.Equal(t, "Бегать{Бегать=S}", tagger.TagSentence("Бегать"))
	assert.Equal(t, "бегать{бегать=V}", tagger.TagSentence("бегать"))
}

func TestTagLines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 3
	tagger := newTestTagger(t, cfg)

	var sentences, expected []string
	for i := range 50 {
		if i%2 == 0 {
			sentences = append(sentences, exampleSentence)
			expected = append(expected, exampleTagged)
		} else {
			sentences = append(sentences, fmt.Sprintf("печи %d", i))
			expected = append(expected, "печи{печь=S}")
		}
	}

	got, err := tagger.TagLines(context.Background(), sentences)
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	got, err = tagger.TagLines(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTagLines_Canceled(t *testing.T) {
	tagger := newTestTagger(t, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tagger.TagLines(ctx, []string{exampleSentence, exampleSentence})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTagText(t *testing.T) {
	tagger := newTestTagger(t, DefaultConfig())

	in := strings.NewReader(exampleSentence + "\n\nЁж, ёж!\n")
	var out bytes.Buffer
	require.NoError(t, tagger.TagText(context.Background(), in, &out))

	assert.Equal(t, exampleTagged+"\n\nЁж{еж=S} ёж{еж=S}\n", out.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tagger.TagText(ctx, strings.NewReader("печь\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnnotation_MarshalJSON(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stem = true
	tagger := newTestTagger(t, cfg)

	anns := tagger.Analyze("печь Москва")
	require.Len(t, anns, 2)

	data, err := json.Marshal(anns)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "печь", decoded[0]["token"])
	assert.Equal(t, "S/V", decoded[0]["tag"])
	assert.Equal(t, []any{"S", "V"}, decoded[0]["candidates"])
	assert.Equal(t, "lexicon", decoded[0]["source"])
	assert.Equal(t, float64(0), decoded[0]["start"])
	assert.Equal(t, float64(4), decoded[0]["end"])

	assert.Equal(t, "S", decoded[1]["tag"])
	assert.Equal(t, "proper", decoded[1]["source"])
	assert.NotContains(t, decoded[1], "candidates")
}

func TestOpen(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)

	tagger, err := Open(cfg)
	require.NoError(t, err)
	defer tagger.Close()

	assert.False(t, tagger.CacheEnabled())
	assert.Greater(t, tagger.LexiconWordCount(), 0)
	assert.Equal(t, tagger.Lexicon().Len(), tagger.LexiconWordCount())

	// rules.yaml moves "ли" to the particles
	assert.Equal(t, "ли{ли=PART} печь{печь=S/V} ой{ой=INTJ}", tagger.TagSentence("ли печь ой"))

	anns := tagger.Analyze("пироги")
	require.Len(t, anns, 1)
	assert.NotEmpty(t, anns[0].Stem)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(DefaultConfig())
	assert.Error(t, err, "no lexicon path")

	cfg := DefaultConfig()
	cfg.Lexicon.Path = "testdata/missing.txt"
	_, err = Open(cfg)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	cfg.Lexicon.Path = "testdata/lexicon_tab.txt"
	cfg.Rules = "testdata/missing.yaml"
	_, err = Open(cfg)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	cfg.Rules = ""
	cfg.Lexicon.Format = "xml"
	_, err = Open(cfg)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTagger_CloseLeavesSharedLexicon(t *testing.T) {
	lex, err := NewLexicon(map[string][]Analysis{
		"люблю": {{Lemma: "любить", Tag: TagVerb}},
	})
	require.NoError(t, err)
	defer lex.Close()

	a := New(lex, nil, DefaultConfig())
	b := New(lex, nil, DefaultConfig())
	require.Equal(t, "люблю{любить=V}", b.TagSentence("люблю"))

	require.NoError(t, a.Close())
	assert.Equal(t, 0, a.CacheSize())
	assert.True(t, lex.Contains("люблю"), "a borrowed lexicon stays open")
	assert.Equal(t, "люблю{любить=V}", b.TagSentence("люблю"))

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	c := New(lex, nil, cfg)
	assert.Equal(t, "люблю{любить=V}", c.TagSentence("люблю"))
}

func TestTagger_CloseOwnedLexicon(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lexicon.Path = "testdata/lexicon_tab.txt"

	tagger, err := Open(cfg)
	require.NoError(t, err)
	lex := tagger.Lexicon()
	require.True(t, lex.Contains("печь"))

	require.NoError(t, tagger.Close())
	assert.False(t, lex.Contains("печь"), "Open-ed lexicon is released by Close")
}
