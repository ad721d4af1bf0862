// Package swaggerkit serves the OpenAPI document for the satd API and mounts Swagger UI
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"sync"

	"satd/internal/core/version"
)

// Doc is a minimal OpenAPI 3 document
type Doc struct {
	OpenAPI string          `json:"openapi"`
	Info    Info            `json:"info"`
	Paths   map[string]Path `json:"paths"`
}

// Info is the document info block
type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Path maps lower-case HTTP methods to operations
type Path map[string]Operation

// Operation documents one route
type Operation struct {
	Summary     string              `json:"summary"`
	Tags        []string            `json:"tags,omitempty"`
	RequestBody *Body               `json:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

// Body is a JSON request body with an example
type Body struct {
	Required bool           `json:"required"`
	Content  map[string]any `json:"content"`
}

// Response is a documented status
type Response struct {
	Description string `json:"description"`
}

// SpecMutator lets a module add its paths to the document
type SpecMutator func(*Doc)

var (
	mu       sync.Mutex
	mutators []SpecMutator
)

// Register queues m to run when the document is rendered
func Register(m SpecMutator) {
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

// Reset drops registered mutators; tests only
func Reset() {
	mu.Lock()
	mutators = nil
	mu.Unlock()
}

// JSONBody builds a required application/json body with an example payload
func JSONBody(example any) *Body {
	return &Body{
		Required: true,
		Content:  map[string]any{"application/json": map[string]any{"example": example}},
	}
}

// Build renders the document from all registered mutators
func Build() Doc {
	d := Doc{
		OpenAPI: "3.0.3",
		Info:    Info{Title: "satd API", Version: version.Info("").Version},
		Paths:   map[string]Path{},
	}
	mu.Lock()
	ms := append([]SpecMutator(nil), mutators...)
	mu.Unlock()
	for _, m := range ms {
		m(&d)
	}
	return d
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(Build())
	}
}
