package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"satd/internal/core/classifier"
	"satd/internal/core/detector"
	"satd/internal/core/embedding"
	"satd/internal/modkit"
	"satd/internal/modkit/module"
	perr "satd/internal/platform/errors"
	phttp "satd/internal/platform/net/http"
	"satd/internal/platform/testkit"
	"satd/internal/services/classify/domain"
)

type markerModel struct{}

func (markerModel) Predict(m embedding.Matrix) ([]float32, error) {
	for _, row := range m {
		if row[0] > 0 {
			return []float32{0.8, 0.2}, nil
		}
	}
	return []float32{0.3, 0.7}, nil
}
func (markerModel) InputShape() (int, int) { return 6, 2 }
func (markerModel) NumClasses() int        { return 2 }

func newDetector(t *testing.T) *detector.Detector {
	t.Helper()
	tb, err := embedding.NewTable(2)
	if err != nil {
		t.Fatal(err)
	}
	for tok, v := range map[string]embedding.Vector{"hack": {1, 0}, "todo": {1, 0}, "id": {0, 1}} {
		if err := tb.Set(tok, v); err != nil {
			t.Fatal(err)
		}
	}
	det, err := detector.New(detector.Config{SequenceLength: 6, Space: tb, Model: markerModel{}})
	if err != nil {
		t.Fatalf("detector.New: %v", err)
	}
	return det
}

func mount(t *testing.T) *chi.Mux {
	t.Helper()
	mux := chi.NewRouter()
	m := New(modkit.Deps{Detector: newDetector(t)}, Options{Workers: 2})
	m.MountRoutes(phttp.AdaptChi(mux))
	return mux
}

func post(t *testing.T, mux http.Handler, path, body string) (int, phttp.Envelope) {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rr, req)
	var env phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v raw=%s", err, rr.Body.String())
	}
	return rr.Code, env
}

func TestClassifyRoute(t *testing.T) {
	mux := mount(t)
	code, env := post(t, mux, "/classify", `{"comment":"// This is a hack, remove it."}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d env=%+v", code, env)
	}
	data := env.Data.(map[string]any)
	if data["label"] != classifier.LabelSATD || data["index"] != float64(0) {
		t.Fatalf("data = %v", data)
	}
	if toks := data["tokens"].([]any); len(toks) == 0 || toks[0] != "this" {
		t.Fatalf("tokens = %v", data["tokens"])
	}
}

func TestClassifyRoute_EmptyComment(t *testing.T) {
	mux := mount(t)
	for _, body := range []string{`{"comment":""}`, `{}`} {
		code, env := post(t, mux, "/classify", body)
		if code != http.StatusOK {
			t.Fatalf("%s: status = %d env=%+v", body, code, env)
		}
		data := env.Data.(map[string]any)
		if data["label"] != classifier.LabelNonSATD {
			t.Fatalf("%s: data = %v", body, data)
		}
		if toks := data["tokens"].([]any); len(toks) != 0 {
			t.Fatalf("%s: tokens = %v", body, toks)
		}
	}
}

func TestBatchRoute(t *testing.T) {
	mux := mount(t)
	code, env := post(t, mux, "/classify/batch", `{"comments":["/* TODO: split */","// returns the id"]}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d env=%+v", code, env)
	}
	data := env.Data.(map[string]any)
	res := data["results"].([]any)
	if len(res) != 2 {
		t.Fatalf("results = %v", res)
	}
	if res[0].(map[string]any)["label"] != classifier.LabelSATD || res[1].(map[string]any)["label"] != classifier.LabelNonSATD {
		t.Fatalf("labels = %v", res)
	}
	if data["batch_id"] == "" {
		t.Fatalf("missing batch id")
	}
}

func TestRoutes_RejectBadBodies(t *testing.T) {
	mux := mount(t)
	tooMany := `{"comments":[` + strings.TrimSuffix(strings.Repeat(`"x",`, 513), ",") + `]}`

	tests := []struct {
		name, path, body string
		field            string
		code             perr.ErrorCode
	}{
		{"oversized comment", "/classify", `{"comment":"` + strings.Repeat("x", 65537) + `"}`, "comment", perr.ErrorCodeValidation},
		{"unknown field", "/classify", `{"comment":"x","lang":"go"}`, "", perr.ErrorCodeJSON},
		{"empty batch", "/classify/batch", `{"comments":[]}`, "comments", perr.ErrorCodeValidation},
		{"oversized batch", "/classify/batch", tooMany, "comments", perr.ErrorCodeValidation},
		{"not json", "/classify", `comment=x`, "", perr.ErrorCodeJSON},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, env := post(t, mux, tc.path, tc.body)
			if code != http.StatusBadRequest || env.Code != tc.code {
				t.Fatalf("status = %d env=%+v", code, env)
			}
			if tc.field != "" && env.Field != tc.field {
				t.Fatalf("field = %q", env.Field)
			}
		})
	}
}

func TestPorts(t *testing.T) {
	m := New(modkit.Deps{Detector: newDetector(t)}, Options{})
	var mm module.Module = m
	c := module.MustPortsOf[domain.ClassifierPort](mm)
	if c == nil {
		t.Fatalf("nil classifier port")
	}
	if m.Name() != "classify" {
		t.Fatalf("name = %q", m.Name())
	}
}

func TestNew_RequiresDetector(t *testing.T) {
	testkit.MustPanic(t, func() { New(modkit.Deps{}, Options{}) })
}
