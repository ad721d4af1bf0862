package version

import "testing"

func TestInfo(t *testing.T) {
	bi := Info("satd-api")
	if bi.Service != "satd-api" || bi.Version != "dev" || bi.Commit != "none" {
		t.Fatalf("unexpected build info %+v", bi)
	}
	if Info("").Service != "satd" {
		t.Fatalf("empty service should default")
	}
}
