package testkit

import (
	"os"
	"testing"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() {
		panic("boom")
	})
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()

	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()

	MustContain(t, "label=SATD tokens=8", "SATD")
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	p := WriteFile(t, "vectors.vec", "1 2\nfix 0.1 0.2\n")
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "1 2\nfix 0.1 0.2\n" {
		t.Fatalf("content mismatch: %q", b)
	}
}
