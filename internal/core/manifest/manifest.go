// Package manifest reads the model manifest: the declared sequence length,
// embedding dimension, label order and artifact locations for one trained model
package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"satd/internal/core/sequence"
	perr "satd/internal/platform/errors"
)

// Runtimes
const (
	RuntimeONNX = "onnx"
)

// Manifest describes a trained classifier and the artifacts it needs
type Manifest struct {
	SequenceLength int      `yaml:"sequence_length"`
	EmbeddingDim   int      `yaml:"embedding_dim"`
	Labels         []string `yaml:"labels"`
	PadToken       string   `yaml:"pad_token"`
	Model          Model    `yaml:"model"`
	Vectors        Vectors  `yaml:"vectors"`

	// dir is where the manifest was read from; relative artifact paths resolve against it
	dir string
}

// Model locates the classifier export
type Model struct {
	Path       string `yaml:"path"`
	Runtime    string `yaml:"runtime"`
	InputName  string `yaml:"input_name"`
	OutputName string `yaml:"output_name"`
}

// Vectors locates the word vectors: a .vec file or a Postgres table. Skip names a
// token whose row is left out at load so it embeds as the zero vector; empty keeps
// every row
type Vectors struct {
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
	Skip  string `yaml:"skip"`
}

// Load reads and validates the manifest at path
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeArtifactLoad, "read manifest %s", path), "manifest")
	}
	m, err := Parse(b)
	if err != nil {
		return nil, err
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes and validates manifest YAML. Unknown keys are rejected
func Parse(b []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeArtifactLoad, "decode manifest")
	}
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.PadToken == "" {
		m.PadToken = sequence.PadToken
	}
	if m.Model.Runtime == "" {
		m.Model.Runtime = RuntimeONNX
	}
}

// Validate reports the first inconsistency as a ConfigMismatch error
func (m *Manifest) Validate() error {
	switch {
	case m.SequenceLength <= 0:
		return perr.WithField(perr.ConfigMismatchf("sequence_length must be positive, got %d", m.SequenceLength), "sequence_length")
	case m.EmbeddingDim <= 0:
		return perr.WithField(perr.ConfigMismatchf("embedding_dim must be positive, got %d", m.EmbeddingDim), "embedding_dim")
	case len(m.Labels) < 2:
		return perr.WithField(perr.ConfigMismatchf("need at least two labels, got %d", len(m.Labels)), "labels")
	case strings.TrimSpace(m.Model.Path) == "":
		return perr.WithField(perr.ConfigMismatchf("model path is required"), "model.path")
	case m.Model.Runtime != RuntimeONNX:
		return perr.WithField(perr.ConfigMismatchf("unsupported model runtime %q", m.Model.Runtime), "model.runtime")
	}
	seen := make(map[string]struct{}, len(m.Labels))
	for _, l := range m.Labels {
		if _, dup := seen[l]; dup {
			return perr.WithField(perr.ConfigMismatchf("duplicate label %q", l), "labels")
		}
		seen[l] = struct{}{}
	}
	return nil
}

// ModelPath is the model location, resolved against the manifest directory
func (m *Manifest) ModelPath() string { return m.resolve(m.Model.Path) }

// VectorsPath is the vector file location, resolved against the manifest directory.
// Empty when vectors come from a table
func (m *Manifest) VectorsPath() string { return m.resolve(m.Vectors.Path) }

func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.dir == "" {
		return p
	}
	return filepath.Join(m.dir, p)
}
