package vetting

import (
	"strings"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"example.com", "https://example.com"},
		{"  example.com/path ", "https://example.com/path"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"ftp://example.com", "ftp://example.com"},
		{"httpbin.org", "httpbin.org"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveIP(t *testing.T) {
	tests := []struct {
		url, want string
	}{
		// "a.b" sums to 241.
		{"https://a.b", "104.28.241.213"},
		{"HTTPS://www.a.b/anything", "104.28.241.213"},
		// "bank" sums to 412.
		{"http://www.bank/x", "185.129.157.79"},
	}
	for _, tt := range tests {
		if got := ResolveIP(tt.url); got != tt.want {
			t.Errorf("ResolveIP(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestResolveIPDeterministicAndBlocks(t *testing.T) {
	for _, url := range []string{
		"https://secure-bank-login.xyz/account-update",
		"https://mybank.example",
		"https://example.com",
		"http://192.168.1.1/admin",
	} {
		first := ResolveIP(url)
		for i := 0; i < 5; i++ {
			if again := ResolveIP(url); again != first {
				t.Fatalf("ResolveIP(%q) not stable: %q then %q", url, first, again)
			}
		}

		domain := resolverDomain(url)
		wantPrefix := "104.28."
		if strings.Contains(domain, "bank") || strings.Contains(domain, "secure") {
			wantPrefix = "185.129."
		}
		if !strings.HasPrefix(first, wantPrefix) {
			t.Errorf("ResolveIP(%q) = %q, want prefix %q", url, first, wantPrefix)
		}
	}
}

func TestHostPart(t *testing.T) {
	tests := []struct {
		url, want string
	}{
		{"https://example.com/a/b", "example.com"},
		{"http://192.168.1.1/admin", "192.168.1.1"},
		{"example.com", "example.com"},
		{"ftp://example.com/x", "ftp:"},
	}
	for _, tt := range tests {
		if got := hostPart(tt.url); got != tt.want {
			t.Errorf("hostPart(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

// A bare host whose name begins with "http" is taken as already carrying a
// scheme and is left unprefixed.
func TestNormalizeURLHTTPPrefixedHost(t *testing.T) {
	for _, in := range []string{"httpbin.org", "http-status.example", "https-everywhere.test/x"} {
		if got := NormalizeURL(in); got != in {
			t.Errorf("NormalizeURL(%q) = %q, want unchanged", in, got)
		}
	}
	if got := NormalizeURL("bin-http.org"); got != "https://bin-http.org" {
		t.Errorf("NormalizeURL(bin-http.org) = %q", got)
	}
}
