package envutil

import "testing"

func TestEnvHelpers(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "42")
	t.Setenv("ENVUTIL_BAD_INT", "x")
	t.Setenv("ENVUTIL_BOOL", "yes")
	t.Setenv("ENVUTIL_LIST", " a, ,b ")

	if got := Int("ENVUTIL_INT", 1); got != 42 {
		t.Fatalf("Int: got=%d", got)
	}
	if got := Int("ENVUTIL_BAD_INT", 7); got != 7 {
		t.Fatalf("Int (bad): got=%d", got)
	}
	if got := Int64("ENVUTIL_MISSING", 9); got != 9 {
		t.Fatalf("Int64 (missing): got=%d", got)
	}
	if !Bool("ENVUTIL_BOOL", false) {
		t.Fatalf("Bool: expected true")
	}
	if got := String("ENVUTIL_MISSING", "def"); got != "def" {
		t.Fatalf("String: got=%q", got)
	}
	list := List("ENVUTIL_LIST", nil)
	if len(list) != 2 || list[0] != "a" || list[1] != "b" {
		t.Fatalf("List: got=%v", list)
	}
}
