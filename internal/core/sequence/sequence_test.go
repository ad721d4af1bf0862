package sequence

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	perr "satd/internal/platform/errors"
)

func TestNew_Rejects(t *testing.T) {
	for _, l := range []int{0, -3} {
		_, err := New(l, "")
		if !perr.IsCode(err, perr.ErrorCodeConfigMismatch) {
			t.Fatalf("New(%d) err = %v; want config mismatch", l, err)
		}
	}
	b, err := New(4, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.Pad != PadToken {
		t.Fatalf("default pad = %q", b.Pad)
	}
}

func TestFix(t *testing.T) {
	b, _ := New(4, "<pad>")

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{"<pad>", "<pad>", "<pad>", "<pad>"}},
		{"short", []string{"a", "b"}, []string{"a", "b", "<pad>", "<pad>"}},
		{"exact", []string{"a", "b", "c", "d"}, []string{"a", "b", "c", "d"}},
		{"long keeps head", []string{"a", "b", "c", "d", "e", "f"}, []string{"a", "b", "c", "d"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := b.Fix(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Fix mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFix_DoesNotAlias(t *testing.T) {
	b, _ := New(2, "")
	in := []string{"x", "y", "z"}
	out := b.Fix(in)
	out[0] = "changed"
	if in[0] != "x" {
		t.Fatalf("input mutated: %q", in)
	}
}

func TestPaddingTruncated(t *testing.T) {
	b, _ := New(10, "")
	if b.Padding(8) != 2 || b.Truncated(8) != 0 {
		t.Fatalf("short counts wrong")
	}
	if b.Padding(12) != 0 || b.Truncated(12) != 2 {
		t.Fatalf("long counts wrong")
	}
}
