package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"variant_key", "modern",
		"admin_token", "abc",
		"header", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJhZG1pbiJ9.sig",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("len: want=7 got=%d (%v)", len(out), out)
	}
	if out[1] != "modern" {
		t.Fatalf("variant_key: got=%v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("admin_token: got=%v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("jwt value: got=%v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key: got=%v", out[6])
	}
}

func TestNewTestModeIsNop(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("ignored", "k", "v")
	l.With("repo", "x").Warn("ignored")
}
