// Package detector classifies a single code comment as self-admitted technical
// debt or not. It wires the tokenizer, sequence builder, embedding provider and
// classifier adapter into one pipeline
package detector

import (
	"satd/internal/core/classifier"
	"satd/internal/core/embedding"
	"satd/internal/core/sequence"
	"satd/internal/core/tokenize"
	perr "satd/internal/platform/errors"
)

// Config carries the loaded artifacts. Space and Model are required
type Config struct {
	// SequenceLength is L, the token count the model was trained on
	SequenceLength int
	// PadToken fills short sequences; empty selects sequence.PadToken
	PadToken string
	// Labels in model output order; nil selects classifier.DefaultLabels
	Labels []string

	Space embedding.Space
	// Cache policy for the provider; nil is unbounded
	Cache embedding.Cache
	Model classifier.Model
}

// Result is a classification plus the tokens that produced it
type Result struct {
	classifier.Result
	// Tokens is the tokenizer output before padding or truncation
	Tokens []string `json:"tokens"`
	// Truncated counts tokens past the sequence length that the model never saw
	Truncated int `json:"truncated"`
}

// Prepared is the model input for one comment
type Prepared struct {
	Tokens   []string
	Sequence []string
	Matrix   embedding.Matrix
	// Padding and Truncated count pad tokens appended and tokens dropped
	Padding   int
	Truncated int
}

// Info summarizes a ready detector
type Info struct {
	SequenceLength int             `json:"sequence_length"`
	EmbeddingDim   int             `json:"embedding_dim"`
	PadToken       string          `json:"pad_token"`
	Labels         []string        `json:"labels"`
	Cache          embedding.Stats `json:"cache"`
}

// Detector is safe for concurrent use once constructed
type Detector struct {
	tok     *tokenize.Tokenizer
	seq     sequence.Builder
	emb     *embedding.Provider
	adapter *classifier.Adapter
}

// New validates cfg and returns a ready detector. Every shape or cardinality
// disagreement between the pieces is a ConfigMismatch error
func New(cfg Config) (*Detector, error) {
	if cfg.Space == nil {
		return nil, perr.ConfigMismatchf("embedding space is required")
	}
	if cfg.Model == nil {
		return nil, perr.ConfigMismatchf("model is required")
	}
	seq, err := sequence.New(cfg.SequenceLength, cfg.PadToken)
	if err != nil {
		return nil, err
	}

	names := cfg.Labels
	if names == nil {
		names = classifier.DefaultLabels
	}
	labels, err := classifier.NewLabelSet(names)
	if err != nil {
		return nil, err
	}

	dim := cfg.Space.Dim()
	if dim <= 0 {
		return nil, perr.ConfigMismatchf("embedding dimension must be positive, got %d", dim)
	}
	ml, md := cfg.Model.InputShape()
	if ml != seq.Length || md != dim {
		return nil, perr.ConfigMismatchf("model expects input (%d, %d), pipeline produces (%d, %d)", ml, md, seq.Length, dim)
	}

	adapter, err := classifier.NewAdapter(cfg.Model, labels)
	if err != nil {
		return nil, err
	}

	return &Detector{
		tok:     tokenize.New(),
		seq:     seq,
		emb:     embedding.NewProvider(cfg.Space, cfg.Cache),
		adapter: adapter,
	}, nil
}

// Prepare runs everything up to the model: tokenize, fix length, embed
func (d *Detector) Prepare(comment string) Prepared {
	toks := d.tok.Tokenize(comment)
	fixed := d.seq.Fix(toks)
	return Prepared{
		Tokens:    toks,
		Sequence:  fixed,
		Matrix:    d.emb.EmbedSequence(fixed),
		Padding:   d.seq.Padding(len(toks)),
		Truncated: d.seq.Truncated(len(toks)),
	}
}

// Classify labels comment. The only error is a model runtime fault
func (d *Detector) Classify(comment string) (Result, error) {
	p := d.Prepare(comment)
	res, err := d.adapter.Classify(p.Matrix)
	if err != nil {
		return Result{}, err
	}
	return Result{Result: res, Tokens: p.Tokens, Truncated: p.Truncated}, nil
}

// Info describes the detector's shapes, labels and cache counters
func (d *Detector) Info() Info {
	return Info{
		SequenceLength: d.seq.Length,
		EmbeddingDim:   d.emb.Dim(),
		PadToken:       d.seq.Pad,
		Labels:         d.adapter.Labels().Names(),
		Cache:          d.emb.Stats(),
	}
}

// Stats returns the embedding cache counters
func (d *Detector) Stats() embedding.Stats { return d.emb.Stats() }
