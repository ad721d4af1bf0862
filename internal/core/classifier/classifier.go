// Package classifier turns a model's score vector into a label
package classifier

import (
	"math"

	"satd/internal/core/embedding"
	perr "satd/internal/platform/errors"
)

// Default labels, in model output order
const (
	LabelSATD    = "SATD"
	LabelNonSATD = "non-SATD"
)

// DefaultLabels is the two-class set the stock model is trained on
var DefaultLabels = []string{LabelSATD, LabelNonSATD}

// Model is a trained sequence classifier. Predict returns one score per class for a
// single L by D input. Implementations must be safe for concurrent use
type Model interface {
	Predict(m embedding.Matrix) ([]float32, error)
	InputShape() (length, dim int)
	NumClasses() int
}

// LabelSet is an ordered list of unique labels, index i naming output position i
type LabelSet struct {
	names []string
}

// NewLabelSet validates names: at least two, none empty, no duplicates
func NewLabelSet(names []string) (LabelSet, error) {
	if len(names) < 2 {
		return LabelSet{}, perr.ConfigMismatchf("need at least two labels, got %d", len(names))
	}
	seen := make(map[string]struct{}, len(names))
	for i, n := range names {
		if n == "" {
			return LabelSet{}, perr.ConfigMismatchf("label %d is empty", i)
		}
		if _, dup := seen[n]; dup {
			return LabelSet{}, perr.ConfigMismatchf("duplicate label %q", n)
		}
		seen[n] = struct{}{}
	}
	return LabelSet{names: append([]string(nil), names...)}, nil
}

// Len is the number of labels
func (s LabelSet) Len() int { return len(s.names) }

// At returns the label at index i
func (s LabelSet) At(i int) string { return s.names[i] }

// Names returns a copy of the labels in order
func (s LabelSet) Names() []string { return append([]string(nil), s.names...) }

// Result is one classification. Scores is the full distribution in label order
type Result struct {
	Label  string    `json:"label"`
	Index  int       `json:"index"`
	Scores []float32 `json:"scores"`
}

// Adapter binds a Model to a LabelSet
type Adapter struct {
	model  Model
	labels LabelSet
}

// NewAdapter checks that the model emits one score per label
func NewAdapter(model Model, labels LabelSet) (*Adapter, error) {
	if model == nil {
		return nil, perr.ConfigMismatchf("model is nil")
	}
	if k := model.NumClasses(); k != labels.Len() {
		return nil, perr.ConfigMismatchf("model has %d classes, label set has %d", k, labels.Len())
	}
	return &Adapter{model: model, labels: labels}, nil
}

// Labels returns the bound label set
func (a *Adapter) Labels() LabelSet { return a.labels }

// Classify scores m and picks the highest-scoring label, lowest index on ties.
// No threshold and no retry are applied
func (a *Adapter) Classify(m embedding.Matrix) (Result, error) {
	scores, err := a.model.Predict(m)
	if err != nil {
		if _, ours := perr.As(err); ours {
			return Result{}, err
		}
		return Result{}, perr.Wrap(err, perr.ErrorCodeInference, "model predict")
	}
	if len(scores) != a.labels.Len() {
		return Result{}, perr.Newf(perr.ErrorCodeInference, "model returned %d scores, want %d", len(scores), a.labels.Len())
	}
	i := ArgMax(scores)
	return Result{Label: a.labels.At(i), Index: i, Scores: scores}, nil
}

// ArgMax returns the index of the largest score; ties go to the lowest index and
// NaN never wins. An empty slice yields -1
func ArgMax(scores []float32) int {
	if len(scores) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		s := scores[i]
		if math.IsNaN(float64(s)) {
			continue
		}
		if math.IsNaN(float64(scores[best])) || s > scores[best] {
			best = i
		}
	}
	return best
}
