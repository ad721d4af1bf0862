// Package http provides the classify endpoints
package http

import (
	"net/http"

	"satd/internal/modkit/httpkit"
	"satd/internal/modkit/swaggerkit"
	"satd/internal/services/classify/domain"
)

type handlers struct {
	svc domain.ClassifierPort
}

// Register mounts the classify routes
func Register(r httpkit.Router, svc domain.ClassifierPort) {
	h := &handlers{svc: svc}

	httpkit.PostJSON(r, "/", h.classify)
	httpkit.PostJSON(r, "/batch", h.batch)
}

// POST /classify
func (h *handlers) classify(r *http.Request, in domain.ClassifyIn) (any, error) {
	return h.svc.Classify(r.Context(), in)
}

// POST /classify/batch
func (h *handlers) batch(r *http.Request, in domain.BatchIn) (any, error) {
	return h.svc.ClassifyBatch(r.Context(), in)
}

// Docs adds the classify routes under prefix to the OpenAPI document
func Docs(prefix string) swaggerkit.SpecMutator {
	return func(d *swaggerkit.Doc) {
		errs := map[string]swaggerkit.Response{
			"400": {Description: "malformed or invalid body"},
			"502": {Description: "model runtime fault"},
		}
		with := func(ok string) map[string]swaggerkit.Response {
			out := map[string]swaggerkit.Response{"200": {Description: ok}}
			for k, v := range errs {
				out[k] = v
			}
			return out
		}
		d.Paths[prefix] = swaggerkit.Path{"post": {
			Summary:     "Classify one comment as SATD or not",
			Tags:        []string{"Classify"},
			RequestBody: swaggerkit.JSONBody(domain.ClassifyIn{Comment: "// TODO: remove this hack"}),
			Responses:   with("label, scores and tokens"),
		}}
		d.Paths[prefix+"/batch"] = swaggerkit.Path{"post": {
			Summary:     "Classify up to 512 comments",
			Tags:        []string{"Classify"},
			RequestBody: swaggerkit.JSONBody(domain.BatchIn{Comments: []string{"// FIXME: leaks", "/* returns the id */"}}),
			Responses:   with("results in input order"),
		}}
	}
}
