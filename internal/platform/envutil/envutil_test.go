package envutil

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("PZ_STR", "  value ")
	t.Setenv("PZ_INT", "42")
	t.Setenv("PZ_BAD_INT", "x")
	t.Setenv("PZ_BOOL", "yes")
	t.Setenv("PZ_DUR", "90s")
	t.Setenv("PZ_DUR_SECS", "15")
	t.Setenv("PZ_LIST", "a, b,,c")

	if got := String("PZ_STR", "def"); got != "value" {
		t.Fatalf("String: %q", got)
	}
	if got := String("PZ_MISSING", "def"); got != "def" {
		t.Fatalf("String default: %q", got)
	}
	if got := Int("PZ_INT", 1); got != 42 {
		t.Fatalf("Int: %d", got)
	}
	if got := Int("PZ_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: %d", got)
	}
	if !Bool("PZ_BOOL", false) {
		t.Fatal("Bool: expected true")
	}
	if got := Duration("PZ_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("Duration: %v", got)
	}
	if got := Duration("PZ_DUR_SECS", time.Second); got != 15*time.Second {
		t.Fatalf("Duration seconds: %v", got)
	}
	if got := List("PZ_LIST", nil); len(got) != 3 || got[2] != "c" {
		t.Fatalf("List: %v", got)
	}
}
