// Package tagger annotates Russian text with lemmas and coarse
// part-of-speech tags. Tokens are resolved against closed-class rule tables
// first, then a precompiled lexicon, and finally a suffix heuristic, so every
// token receives a tag.
package tagger

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Tagger is the sentence analyzer. The lexicon and rules it holds are
// read-only, so a Tagger is safe for concurrent use.
type Tagger struct {
	lex      *Lexicon
	rules    *Rules
	resolver *Resolver
	cache    *lru.Cache[string, Resolution]
	stem     bool
	workers  int

	// ownsLex is set when the tagger opened the lexicon itself.
	ownsLex bool
}

// New creates a tagger over an already constructed lexicon and rule set.
// A nil rules argument selects DefaultRules. The lexicon stays owned by the
// caller and may be shared with other taggers.
func New(lex *Lexicon, rules *Rules, cfg Config) *Tagger {
	if rules == nil {
		rules = DefaultRules()
	}
	t := &Tagger{
		lex:      lex,
		rules:    rules,
		resolver: NewResolver(lex, rules),
		stem:     cfg.Stem,
		workers:  cfg.workers(),
	}
	if cfg.Cache.Enabled {
		size := cfg.Cache.Size
		if size <= 0 {
			size = DefaultCacheSize
		}
		t.cache, _ = lru.New[string, Resolution](size)
	}
	return t
}

// Open loads the lexicon and rules named in cfg and creates a tagger that
// owns the lexicon; Close releases it.
func Open(cfg Config) (*Tagger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.Lexicon.Options()
	if err != nil {
		return nil, err
	}
	if cfg.Lexicon.Path == "" {
		return nil, fmt.Errorf("open lexicon: no path configured")
	}

	lex, err := OpenLexicon(cfg.Lexicon.Path, opts)
	if err != nil {
		return nil, err
	}

	rules := DefaultRules()
	if cfg.Rules != "" {
		if rules, err = LoadRules(cfg.Rules); err != nil {
			lex.Close()
			return nil, err
		}
	}
	t := New(lex, rules, cfg)
	t.ownsLex = true
	return t, nil
}

// Resolve returns the resolution of a single token.
func (t *Tagger) Resolve(token string) Resolution {
	if t.cache == nil {
		return t.resolver.Resolve(token)
	}

	// LRU is thread-safe
	if res, ok := t.cache.Get(token); ok {
		return res
	}
	res := t.resolver.Resolve(token)
	t.cache.Add(token, res)
	return res
}

// Analyze tokenizes a sentence and resolves every token, keeping token order.
func (t *Tagger) Analyze(sentence string) []Annotation {
	var anns []Annotation
	for tok := range Tokens(sentence) {
		a := Annotation{Token: tok, Resolution: t.Resolve(tok.Text)}
		if t.stem {
			a.Stem = StemRussian(Normalize(tok.Text))
		}
		anns = append(anns, a)
	}
	return anns
}

// TagSentence renders the annotated sentence as
// "word1{lemma1=TAG1} word2{lemma2=TAG2}". A sentence without words yields "".
func (t *Tagger) TagSentence(sentence string) string {
	return FormatAnnotations(t.Analyze(sentence))
}

// TagLines tags sentences on a bounded pool of workers. The result has one
// line per input sentence, in input order.
func (t *Tagger) TagLines(ctx context.Context, sentences []string) ([]string, error) {
	out := make([]string, len(sentences))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(t.workers, len(sentences)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = t.TagSentence(sentences[i])
			}
		}()
	}

feed:
	for i := range sentences {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TagText reads line-delimited sentences from r and writes one annotated
// line per input line to w.
func (t *Tagger) TagText(ctx context.Context, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	bw := bufio.NewWriter(w)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := bw.WriteString(t.TagSentence(sc.Text())); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return bw.Flush()
}

// Lexicon returns the lexicon the tagger consults.
func (t *Tagger) Lexicon() *Lexicon {
	return t.lex
}

// Rules returns the closed-class rules the tagger consults.
func (t *Tagger) Rules() *Rules {
	return t.rules
}

// Close drops cached resolutions. The lexicon is closed only when it was
// loaded by Open; a lexicon passed to New is left to its owner.
func (t *Tagger) Close() error {
	t.ClearCache()
	if !t.ownsLex {
		return nil
	}
	return t.lex.Close()
}

// LexiconWordCount returns the number of word forms in the lexicon.
func (t *Tagger) LexiconWordCount() int {
	return t.lex.Len()
}

// CacheSize reports how many token resolutions are currently memoized.
func (t *Tagger) CacheSize() int {
	if t.cache == nil {
		return 0
	}
	return t.cache.Len()
}

// ClearCache forgets all memoized token resolutions.
func (t *Tagger) ClearCache() {
	if t.cache != nil {
		t.cache.Purge()
	}
}

// CacheEnabled reports whether Resolve memoizes its results.
func (t *Tagger) CacheEnabled() bool {
	return t.cache != nil
}
