package modkit

import (
	"net/http"
	"testing"
)

func TestBuild_Defaults(t *testing.T) {
	b := Build()
	if b.Name != "" || b.Prefix != "" || len(b.Mw) != 0 {
		t.Fatalf("zero build = %+v", b)
	}
}

func TestBuild_Options(t *testing.T) {
	mw := func(next http.Handler) http.Handler { return next }
	opts := []Option{
		WithName("classify"),
		WithPrefix("/classify"),
		WithMiddlewares(mw),
		WithMiddlewares(mw),
	}
	b := Build(opts...)
	if b.Name != "classify" || b.Prefix != "/classify" || len(b.Mw) != 2 {
		t.Fatalf("build = %+v", b)
	}

	// Build copies the middleware slice
	b.Mw[0] = nil
	if Build(opts...).Mw[0] == nil {
		t.Fatalf("middleware slice aliased")
	}
}
