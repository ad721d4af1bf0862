package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"satd/internal/platform/testkit"
)

func TestCollect(t *testing.T) {
	path := testkit.WriteFile(t, "comments.txt", "// TODO: one\n\n   \n/* two */\n")

	got, err := collect([]string{"arg", " "}, path)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := []string{"arg", "// TODO: one", "/* two */"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collect (-want +got):\n%s", diff)
	}
}

func TestCollect_NoFile(t *testing.T) {
	got, err := collect(nil, "")
	if err != nil || len(got) != 0 {
		t.Fatalf("collect = %v, %v", got, err)
	}
}

func TestCollect_MissingFile(t *testing.T) {
	if _, err := collect(nil, "/nonexistent/comments.txt"); err == nil {
		t.Fatalf("expected error")
	}
}
