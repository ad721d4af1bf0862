package detector

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"satd/internal/core/classifier"
	"satd/internal/core/embedding"
	perr "satd/internal/platform/errors"
)

// fakeModel scores SATD when any row carries the "debt" marker in column 0
type fakeModel struct {
	l, d, k int
	err     error

	mu   sync.Mutex
	seen []embedding.Matrix
}

func (f *fakeModel) Predict(m embedding.Matrix) ([]float32, error) {
	f.mu.Lock()
	f.seen = append(f.seen, m)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, row := range m {
		if row[0] > 0 {
			return []float32{0.9, 0.1}, nil
		}
	}
	return []float32{0.2, 0.8}, nil
}
func (f *fakeModel) InputShape() (int, int) { return f.l, f.d }
func (f *fakeModel) NumClasses() int        { return f.k }

func space(t *testing.T) *embedding.Table {
	t.Helper()
	tb, err := embedding.NewTable(2)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	for tok, v := range map[string]embedding.Vector{
		"hack":  {1, 0},
		"todo":  {1, 0},
		"jira":  {0, 1},
		"<pad>": {0, 0.5},
	} {
		if err := tb.Set(tok, v); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	return tb
}

func mustDetector(t *testing.T, m *fakeModel) *Detector {
	t.Helper()
	d, err := New(Config{SequenceLength: 10, Space: space(t), Model: m})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestPrepare_JiraExample(t *testing.T) {
	d := mustDetector(t, &fakeModel{l: 10, d: 2, k: 2})

	p := d.Prepare("I'm raising a new Jira for this.")
	want := []string{"i'm", "raising", "a", "new", "jira", "for", "this", ".", "<pad>", "<pad>"}
	if diff := cmp.Diff(want, p.Sequence); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
	if len(p.Tokens) != 8 || p.Padding != 2 || p.Truncated != 0 {
		t.Fatalf("tokens = %q, padding = %d, truncated = %d", p.Tokens, p.Padding, p.Truncated)
	}
	rows, cols := p.Matrix.Shape()
	if rows != 10 || cols != 2 {
		t.Fatalf("matrix shape = (%d,%d)", rows, cols)
	}
	if diff := cmp.Diff(embedding.Vector{0, 1}, p.Matrix[4]); diff != "" {
		t.Fatalf("jira row mismatch:\n%s", diff)
	}
	if diff := cmp.Diff(embedding.Vector{0, 0}, p.Matrix[1]); diff != "" {
		t.Fatalf("oov row should be zero:\n%s", diff)
	}
}

func TestClassify(t *testing.T) {
	d := mustDetector(t, &fakeModel{l: 10, d: 2, k: 2})

	tests := []struct {
		in   string
		want string
	}{
		{"// TODO: remove this hack", classifier.LabelSATD},
		{"I'm raising a new Jira for this.", classifier.LabelNonSATD},
		{"", classifier.LabelNonSATD},
		{"/* */", classifier.LabelNonSATD},
	}
	for _, tc := range tests {
		res, err := d.Classify(tc.in)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tc.in, err)
		}
		if res.Label != tc.want {
			t.Fatalf("Classify(%q) = %q; want %q", tc.in, res.Label, tc.want)
		}
		if len(res.Scores) != 2 {
			t.Fatalf("scores = %v", res.Scores)
		}
	}
}

func TestClassify_LongCommentTruncated(t *testing.T) {
	m := &fakeModel{l: 10, d: 2, k: 2}
	d := mustDetector(t, m)

	// "hack" lands at position 11, past the kept head
	res, err := d.Classify("one two three four five six seven eight nine ten eleven hack")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Label != classifier.LabelNonSATD {
		t.Fatalf("label = %q", res.Label)
	}
	if len(res.Tokens) != 12 || res.Truncated != 2 {
		t.Fatalf("tokens = %q, truncated = %d", res.Tokens, res.Truncated)
	}
	if p := d.Prepare("one two three four five six seven eight nine ten eleven hack"); p.Padding != 0 || p.Truncated != 2 {
		t.Fatalf("padding = %d, truncated = %d", p.Padding, p.Truncated)
	}
	if rows, _ := m.seen[0].Shape(); rows != 10 {
		t.Fatalf("model saw %d rows", rows)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	d := mustDetector(t, &fakeModel{l: 10, d: 2, k: 2})
	a, _ := d.Classify("TODO: hack")
	b, _ := d.Classify("TODO: hack")
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("non-deterministic:\n%s", diff)
	}
	if st := d.Stats(); st.Hits == 0 {
		t.Fatalf("second call should hit cache: %+v", st)
	}
}

func TestClassify_RuntimeFault(t *testing.T) {
	d := mustDetector(t, &fakeModel{l: 10, d: 2, k: 2, err: errors.New("oom")})
	if _, err := d.Classify("hack"); !perr.IsCode(err, perr.ErrorCodeInference) {
		t.Fatalf("err = %v", err)
	}
}

func TestNew_Mismatch(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no space", Config{SequenceLength: 10, Model: &fakeModel{l: 10, d: 2, k: 2}}},
		{"no model", Config{SequenceLength: 10, Space: space(t)}},
		{"zero length", Config{SequenceLength: 0, Space: space(t), Model: &fakeModel{l: 0, d: 2, k: 2}}},
		{"length differs", Config{SequenceLength: 12, Space: space(t), Model: &fakeModel{l: 10, d: 2, k: 2}}},
		{"dim differs", Config{SequenceLength: 10, Space: space(t), Model: &fakeModel{l: 10, d: 300, k: 2}}},
		{"classes differ", Config{SequenceLength: 10, Space: space(t), Model: &fakeModel{l: 10, d: 2, k: 3}}},
		{"one label", Config{SequenceLength: 10, Labels: []string{"SATD"}, Space: space(t), Model: &fakeModel{l: 10, d: 2, k: 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := New(tc.cfg)
			if d != nil || !perr.IsCode(err, perr.ErrorCodeConfigMismatch) {
				t.Fatalf("New = %v, %v; want config mismatch", d, err)
			}
		})
	}
}

func TestClassify_Concurrent(t *testing.T) {
	d := mustDetector(t, &fakeModel{l: 10, d: 2, k: 2})
	comments := []string{"TODO: hack", "jira ticket raised", "fine code", "hack hack"}
	want := make([]string, len(comments))
	for i, c := range comments {
		r, _ := d.Classify(c)
		want[i] = r.Label
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, c := range comments {
				r, err := d.Classify(c)
				if err != nil || r.Label != want[i] {
					errs <- c
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for c := range errs {
		t.Fatalf("concurrent classify diverged for %q", c)
	}
}

func TestInfo(t *testing.T) {
	d := mustDetector(t, &fakeModel{l: 10, d: 2, k: 2})
	info := d.Info()
	if info.SequenceLength != 10 || info.EmbeddingDim != 2 || info.PadToken != "<pad>" {
		t.Fatalf("info = %+v", info)
	}
	if diff := cmp.Diff(classifier.DefaultLabels, info.Labels); diff != "" {
		t.Fatalf("labels mismatch:\n%s", diff)
	}
}
