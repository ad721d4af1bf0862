// Package normalize prepares raw comment text for tokenization
// Pipeline order
// 1 sanitize control characters and repair UTF-8
// 2 strip comment delimiters (//, /*, */) wherever they occur
// 3 Unicode NFC composition
// 4 lowercase
// 5 collapse whitespace runs, keeping line breaks as sentence hints, and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer is safe for concurrent use; transformer chains come from a pool
type Normalizer struct{}

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			cases.Lower(language.Und),
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the normalized form of s. It never fails; garbage in yields
// a shorter (possibly empty) string out
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = Sanitize(s)
	s = strings.ToValidUTF8(s, "")
	s = StripDelimiters(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// lowering valid UTF-8 does not fail in practice; fall back to the simple mapping
		ns = strings.ToLower(s)
	}

	return collapseSpaces(ns)
}

// collapseSpaces turns whitespace runs into a single space, or a single newline when
// the run contained a line break. Edges are trimmed
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS, sawNL := false, false
	flush := func() {
		if !inWS {
			return
		}
		if sawNL {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		inWS, sawNL = false, false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			if r == '\n' || r == '\r' {
				sawNL = true
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return strings.Trim(b.String(), " \n")
}
