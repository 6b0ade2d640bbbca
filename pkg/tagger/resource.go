package tagger

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for an encoding label htmlindex does not know.
var ErrUnknownEncoding = errors.New("unknown encoding")

// OpenLexicon loads a lexicon file. Files ending in .bz2 or .gz are
// decompressed on the fly. A missing file yields an error satisfying
// errors.Is(err, fs.ErrNotExist).
func OpenLexicon(path string, opts LexiconOptions) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bz2":
		r = bzip2.NewReader(f)
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open lexicon %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	lex, err := ParseLexicon(r, opts)
	if err != nil {
		return nil, fmt.Errorf("load lexicon %s: %w", path, err)
	}
	glog.V(1).Infof("lexicon: loaded %s", path)
	return lex, nil
}

// decodingReader converts r from the labelled encoding to UTF-8. Bytes that
// do not decode become U+FFFD; a leading byte order mark is dropped.
func decodingReader(r io.Reader, label string) (io.Reader, error) {
	if label == "" {
		label = "utf-8"
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}
