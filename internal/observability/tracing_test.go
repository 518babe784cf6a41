package observability

import "testing"

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" api-key = abc , broken, =x, team=hero ")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "hero" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("empty input should yield nil")
	}
}

func TestParseRatio(t *testing.T) {
	cases := map[string]float64{"": 0.1, "nope": 0.1, "-1": 0, "3": 1, "0.25": 0.25}
	for in, want := range cases {
		if got := parseRatio(in); got != want {
			t.Fatalf("parseRatio(%q): want=%v got=%v", in, want, got)
		}
	}
}

func TestTracingConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	cfg := TracingConfigFromEnv()
	if !cfg.Enabled || cfg.ServiceName != "storefront-admin" || cfg.Endpoint != "collector:4318" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
