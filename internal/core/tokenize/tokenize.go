// Package tokenize splits normalized comment text into the token sequence fed to
// the embedding layer. Sentences are found first, then words within each sentence,
// both using Unicode text segmentation (UAX #29). A second pass over each run of
// adjacent segments applies the conventions of informal text: hyphenated words,
// ellipses, hashtags, handles, emoticons and URLs stay whole, while dotted names
// such as file names are split at the dot
package tokenize

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"

	"satd/internal/core/normalize"
)

// Tokenizer turns a raw comment into word and punctuation tokens
type Tokenizer struct {
	norm *normalize.Normalizer
}

// New constructs a Tokenizer with its own normalizer
func New() *Tokenizer {
	return &Tokenizer{norm: normalize.New()}
}

// Tokenize normalizes comment and segments it. The result preserves the order of
// appearance, contains no whitespace-only tokens and is empty for blank input.
// Tokenization is deterministic and never fails
func (t *Tokenizer) Tokenize(comment string) []string {
	return Segment(t.norm.Normalize(comment))
}

// Segment splits already-normalized text into tokens
func Segment(text string) []string {
	if text == "" {
		return []string{}
	}
	out := make([]string, 0, len(text)/4+1)
	run := make([]string, 0, 8)
	for _, s := range Sentences(text) {
		ws := words.FromString(s)
		for ws.Next() {
			tok := ws.Value()
			if isBlank(tok) {
				out = append(out, informal(run)...)
				run = run[:0]
				continue
			}
			run = append(run, tok)
		}
		out = append(out, informal(run)...)
		run = run[:0]
	}
	return out
}

// Sentences returns the sentence segments of normalized text, trimmed, blanks dropped
func Sentences(text string) []string {
	var out []string
	ss := sentences.FromString(text)
	for ss.Next() {
		if s := strings.TrimSpace(ss.Value()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
