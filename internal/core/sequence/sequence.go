// Package sequence fixes token sequences to the length the model was trained on
package sequence

import (
	perr "satd/internal/platform/errors"
)

// PadToken is the filler appended to short sequences unless configured otherwise
const PadToken = "<pad>"

// Builder produces fixed-length sequences. Long inputs keep their first Length
// tokens; short inputs are right-padded with Pad
type Builder struct {
	Length int
	Pad    string
}

// New returns a Builder for length l and pad token pad. An empty pad selects PadToken
func New(l int, pad string) (Builder, error) {
	if l <= 0 {
		return Builder{}, perr.ConfigMismatchf("sequence length must be positive, got %d", l)
	}
	if pad == "" {
		pad = PadToken
	}
	return Builder{Length: l, Pad: pad}, nil
}

// Fix returns a new slice of exactly b.Length tokens; the input is not modified
func (b Builder) Fix(tokens []string) []string {
	out := make([]string, b.Length)
	n := copy(out, tokens)
	for i := n; i < b.Length; i++ {
		out[i] = b.Pad
	}
	return out
}

// Padding reports how many pad tokens Fix would append for an input of n tokens
func (b Builder) Padding(n int) int {
	if n >= b.Length {
		return 0
	}
	return b.Length - n
}

// Truncated reports how many tokens Fix would drop for an input of n tokens
func (b Builder) Truncated(n int) int {
	if n <= b.Length {
		return 0
	}
	return n - b.Length
}
