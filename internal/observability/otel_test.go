package observability

import "testing"

func TestSampleRatio(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"", 0.1},
		{"not-a-number", 0.1},
		{"0.5", 0.5},
		{"-2", 0},
		{"7", 1},
	}
	for _, tc := range cases {
		t.Setenv("OTEL_SAMPLER_RATIO", tc.raw)
		if got := sampleRatio(); got != tc.want {
			t.Fatalf("ratio %q: expected %f, got %f", tc.raw, tc.want, got)
		}
	}
}

func TestOtlpHeaders(t *testing.T) {
	headers := otlpHeaders("x-api-key=abc, team=infra ,broken,=novalue,empty=")
	if len(headers) != 2 {
		t.Fatalf("expected 2 headers, got %d: %v", len(headers), headers)
	}
	if headers["x-api-key"] != "abc" || headers["team"] != "infra" {
		t.Fatalf("unexpected headers: %v", headers)
	}
	if len(otlpHeaders("")) != 0 {
		t.Fatalf("expected no headers for empty input")
	}
}
