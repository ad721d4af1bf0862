package testkit

import (
	"sync"
	"testing"
	"time"
)

var (
	openFn    = func(path string) string { return "disk:" + path }
	cacheSize = 10
)

func TestSwap_FunctionAndRestore(t *testing.T) {
	t.Run("swap-in-subtest", func(t *testing.T) {
		if got := openFn("a.vec"); got != "disk:a.vec" {
			t.Fatalf("precondition failed, got %q", got)
		}
		Swap(t, &openFn, func(path string) string { return "mem:" + path })
		if got := openFn("a.vec"); got != "mem:a.vec" {
			t.Fatalf("swap did not take effect, got %q", got)
		}
	})

	// subtest cleanup already ran
	if got := openFn("a.vec"); got != "disk:a.vec" {
		t.Fatalf("swap did not restore original, got %q", got)
	}
}

func TestSwap_NonFunctionType(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		Swap(t, &cacheSize, 42)
		if cacheSize != 42 {
			t.Fatalf("swap failed, got %d want 42", cacheSize)
		}
	})
	if cacheSize != 10 {
		t.Fatalf("swap did not restore original, got %d want 10", cacheSize)
	}
}

func TestSerial_GuardsConcurrentSubtests(t *testing.T) {
	var seqMu sync.Mutex
	var seq []string
	record := func(s string) {
		seqMu.Lock()
		seq = append(seq, s)
		seqMu.Unlock()
	}

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"A", "B"} {
			name := name
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				record(name + "-start")
				time.Sleep(20 * time.Millisecond)
				record(name + "-end")
			})
		}
	})

	// parallel subtests of "group" have finished here
	if len(seq) != 4 {
		t.Fatalf("unexpected sequence length %d, seq=%v", len(seq), seq)
	}
	if seq[0][:1] != seq[1][:1] || seq[2][:1] != seq[3][:1] {
		t.Fatalf("expected grouped execution, got seq=%v", seq)
	}
}
