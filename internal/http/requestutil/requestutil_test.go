package requestutil

import (
	"net/http/httptest"
	"testing"
)

func TestSanitizeRequestIDKeepsValidIDs(t *testing.T) {
	if got := SanitizeRequestID("abc-123_XYZ"); got != "abc-123_XYZ" {
		t.Fatalf("expected valid ID preserved, got %q", got)
	}
}

func TestSanitizeRequestIDReplacesInvalidIDs(t *testing.T) {
	cases := []string{"", "has spaces", "bad/slash", string(make([]byte, 70))}
	for _, in := range cases {
		got := SanitizeRequestID(in)
		if got == in || got == "" {
			t.Fatalf("expected a fresh ID for %q, got %q", in, got)
		}
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.2")

	if got := ClientIP(r); got != "203.0.113.5" {
		t.Fatalf("expected forwarded IP, got %q", got)
	}

	r.Header.Del("X-Forwarded-For")
	if got := ClientIP(r); got != "10.0.0.1:1234" {
		t.Fatalf("expected remote addr, got %q", got)
	}
}
