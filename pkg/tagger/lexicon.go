package tagger

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/blevesearch/vellum"
	"github.com/golang/glog"
)

// ErrEmptyLexicon is returned when a lexicon resource yields no word forms.
var ErrEmptyLexicon = errors.New("lexicon has no entries")

// ErrUnknownFormat is returned for an unrecognized lexicon format name.
var ErrUnknownFormat = errors.New("unknown lexicon format")

// maxLineSize bounds a single lexicon record.
const maxLineSize = 1 << 20

// Format selects the record layout of a lexicon resource.
type Format int

const (
	// FormatAuto picks the layout from the leading non-empty lines.
	FormatAuto Format = iota
	// FormatBlock is the paradigm layout: numbered blocks of
	// "surface POS ..." lines, the first line holding the lemma.
	FormatBlock
	// FormatTab is one "surface<TAB>lemma... POS ..." record per line.
	FormatTab
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatBlock:
		return "block"
	case FormatTab:
		return "tab"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses "auto", "block" or "tab". The empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "block":
		return FormatBlock, nil
	case "tab":
		return FormatTab, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// LexiconOptions controls how a lexicon resource is read.
type LexiconOptions struct {
	Format Format
	// Encoding is a WHATWG encoding label such as "utf-8" or "windows-1251".
	// Empty means UTF-8.
	Encoding string
}

// Lexicon maps normalized word forms to their analyses. The keys live in an
// FST whose outputs index the analyses table. A Lexicon is immutable and
// safe for concurrent use.
type Lexicon struct {
	fst      *vellum.FST
	entries  [][]Analysis
	analyses int
}

// NewLexicon builds a lexicon from in-memory entries. Keys are normalized;
// keys that collide after normalization are merged in sorted key order.
func NewLexicon(entries map[string][]Analysis) (*Lexicon, error) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := newLexiconBuilder()
	for _, k := range keys {
		for _, a := range entries[k] {
			b.add(k, Analysis{Lemma: Normalize(a.Lemma), Tag: a.Tag})
		}
	}
	return b.build()
}

// ParseLexicon reads lexicon records from r, decoding it with the configured
// encoding. Malformed and over-long lines are skipped; a read error fails
// the whole load.
func ParseLexicon(r io.Reader, opts LexiconOptions) (*Lexicon, error) {
	decoded, err := decodingReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	b := newLexiconBuilder()
	var (
		p       recordParser
		pending []numberedLine
	)
	start := func() {
		format := opts.Format
		if format == FormatAuto {
			format = detectFormat(pending)
		}
		p = newRecordParser(format, b)
		glog.V(1).Infof("lexicon: reading %s format", format)
		for _, l := range pending {
			p.parseLine(l.no, l.text)
		}
		pending = nil
	}

	err = readLines(decoded, func(lineNo int, line string, tooLong bool) {
		if tooLong {
			b.skip(lineNo, "<line too long>")
			return
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case p != nil:
			p.parseLine(lineNo, line)
		default:
			pending = append(pending, numberedLine{no: lineNo, text: line})
			if opts.Format != FormatAuto || len(pending) == detectWindow {
				start()
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	if p == nil && len(pending) > 0 {
		start()
	}
	if p != nil {
		p.finish()
	}

	lex, err := b.build()
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("lexicon: %d word forms, %d analyses, %d lines skipped",
		lex.Len(), lex.Analyses(), b.skipped)
	return lex, nil
}

// detectWindow is the number of non-empty lines inspected by FormatAuto.
const detectWindow = 64

type numberedLine struct {
	no   int
	text string
}

// detectFormat reports FormatBlock when any of the lines is a block ordinal.
// The first block of a paradigm file may come without an ordinal.
func detectFormat(lines []numberedLine) Format {
	for _, l := range lines {
		if isOrdinal(l.text) {
			return FormatBlock
		}
	}
	return FormatTab
}

// readLines calls fn for every line of r. Lines longer than maxLineSize are
// drained and passed with tooLong set and no text.
func readLines(r io.Reader, fn func(lineNo int, line string, tooLong bool)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte
	lineNo, tooLong := 0, false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize {
				tooLong, buf = true, buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if isPrefix {
			continue
		}

		lineNo++
		fn(lineNo, string(buf), tooLong)
		buf, tooLong = buf[:0], false
	}
}

// isOrdinal reports whether line consists solely of ASCII digits.
func isOrdinal(line string) bool {
	if line == "" {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] < '0' || line[i] > '9' {
			return false
		}
	}
	return true
}

// Lookup returns the analyses of a normalized form in first-seen order, or
// nil if the form is unknown. The returned slice is a copy.
func (l *Lexicon) Lookup(form string) []Analysis {
	return slices.Clone(l.lookup(form))
}

// lookup returns the shared analyses slice; callers must not modify it.
func (l *Lexicon) lookup(form string) []Analysis {
	if l == nil || l.fst == nil || form == "" {
		return nil
	}
	ord, exists, err := l.fst.Get([]byte(form))
	if err != nil || !exists || ord >= uint64(len(l.entries)) {
		return nil
	}
	return l.entries[ord]
}

// Contains reports whether a normalized form is in the lexicon.
func (l *Lexicon) Contains(form string) bool {
	return len(l.lookup(form)) > 0
}

// Len returns the number of distinct word forms.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Analyses returns the total number of analyses over all word forms.
func (l *Lexicon) Analyses() int {
	if l == nil {
		return 0
	}
	return l.analyses
}

// Keys yields the word forms starting with prefix in byte order.
func (l *Lexicon) Keys(prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if l == nil || l.fst == nil {
			return
		}
		start := []byte(prefix)
		itr, err := l.fst.Iterator(start, prefixEnd(start))
		for err == nil {
			key, _ := itr.Current()
			if !yield(string(key)) {
				return
			}
			err = itr.Next()
		}
		if err != nil && !errors.Is(err, vellum.ErrIteratorDone) {
			glog.Warningf("lexicon: iterating %q: %v", prefix, err)
		}
	}
}

// prefixEnd returns the smallest key greater than every key with the given
// prefix, or nil when there is none.
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// Close releases the FST. Lookups afterwards find nothing, so a lexicon
// shared between taggers must be closed by its owner once all of them are
// done.
func (l *Lexicon) Close() error {
	if l == nil || l.fst == nil {
		return nil
	}
	err := l.fst.Close()
	l.fst = nil
	return err
}

// lexiconBuilder accumulates analyses before the FST is compiled.
type lexiconBuilder struct {
	entries map[string][]Analysis
	skipped int
}

func newLexiconBuilder() *lexiconBuilder {
	return &lexiconBuilder{entries: make(map[string][]Analysis, 1<<16)}
}

// add appends an analysis for surface. Exact duplicates are dropped so the
// first-seen order is kept.
func (b *lexiconBuilder) add(surface string, a Analysis) {
	key := Normalize(surface)
	if key == "" {
		return
	}
	if slices.Contains(b.entries[key], a) {
		return
	}
	b.entries[key] = append(b.entries[key], a)
}

func (b *lexiconBuilder) skip(lineNo int, line string) {
	b.skipped++
	glog.V(2).Infof("lexicon: skipping malformed line %d: %q", lineNo, line)
}

// build compiles the keys into an in-memory FST. Keys must be inserted in
// lexicographic byte order.
func (b *lexiconBuilder) build() (*Lexicon, error) {
	if len(b.entries) == 0 {
		return nil, ErrEmptyLexicon
	}

	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, err
	}

	lex := &Lexicon{entries: make([][]Analysis, len(keys))}
	for i, k := range keys {
		if err := builder.Insert([]byte(k), uint64(i)); err != nil {
			builder.Close()
			return nil, fmt.Errorf("index %q: %w", k, err)
		}
		lex.entries[i] = b.entries[k]
		lex.analyses += len(b.entries[k])
	}
	if err := builder.Close(); err != nil {
		return nil, err
	}

	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return nil, err
	}
	lex.fst = fst
	return lex, nil
}

// recordParser consumes the non-empty, trimmed lines of one lexicon format.
type recordParser interface {
	parseLine(lineNo int, line string)
	finish()
}

func newRecordParser(f Format, b *lexiconBuilder) recordParser {
	if f == FormatBlock {
		return &blockParser{b: b}
	}
	return &tabParser{b: b}
}

// blockParser reads numbered paradigm blocks. Every form of a block is
// registered against the block lemma and the lemma's own part of speech,
// even when a form carries a different code of its own.
type blockParser struct {
	b     *lexiconBuilder
	lemma string
	tag   Tag
	words []string
}

func (p *blockParser) parseLine(lineNo int, line string) {
	if isOrdinal(line) {
		p.flush()
		return
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		p.b.skip(lineNo, line)
		return
	}
	if p.lemma == "" {
		p.lemma = fields[0]
		p.tag = CoarseTag(fields[1])
	}
	p.words = append(p.words, fields[0])
}

func (p *blockParser) finish() {
	p.flush()
}

func (p *blockParser) flush() {
	if p.lemma != "" {
		a := Analysis{Lemma: Normalize(p.lemma), Tag: p.tag}
		for _, w := range p.words {
			p.b.add(w, a)
		}
	}
	p.lemma = ""
	p.tag = TagUnknown
	p.words = p.words[:0]
}

// tabParser reads "surface<TAB>info" records. The fields of info before the
// first part-of-speech code form the lemma.
type tabParser struct {
	b *lexiconBuilder
}

func (p *tabParser) parseLine(lineNo int, line string) {
	surface, info, ok := strings.Cut(line, "\t")
	surface = strings.TrimSpace(surface)
	fields := strings.Fields(info)
	if !ok || surface == "" || len(fields) == 0 {
		p.b.skip(lineNo, line)
		return
	}

	lemma, tag := fields[0], TagUnknown
	for i, f := range fields {
		if !isSourceCode(f) {
			continue
		}
		tag = CoarseTag(f)
		if i > 0 {
			lemma = strings.Join(fields[:i], " ")
		} else {
			lemma = surface
		}
		break
	}
	p.b.add(surface, Analysis{Lemma: Normalize(lemma), Tag: tag})
}

func (p *tabParser) finish() {}
