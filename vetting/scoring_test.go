package vetting

import (
	"strings"
	"testing"

	"url-triage-poc/model"
)

func TestScoreURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantScore int
		wantLabel model.ThreatLabel
		warnings  int
	}{
		{"clean", "https://example.com", 0, model.LabelSafe, 0},
		{"ip host", "http://192.168.1.1/admin", 40, model.LabelSuspicious, 1},
		{"phishing keywords clamp", "http://secure-bank-login.xyz/account-update", 100, model.LabelMalicious, 4},
		{"punycode", "https://xn--pple-43d.com", 65, model.LabelSuspicious, 2},
		{"long", "https://example.com/" + strings.Repeat("a", 70), 20, model.LabelSafe, 1},
		{"deep nesting", "https://a.b.c.d.example.com", 15, model.LabelSafe, 1},
		{"userinfo", "http://user@evil.com", 50, model.LabelSuspicious, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreURL(tt.url)
			if got.RiskScore != tt.wantScore {
				t.Errorf("score = %d, want %d (warnings %v)", got.RiskScore, tt.wantScore, got.Warnings)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("label = %s, want %s", got.Label, tt.wantLabel)
			}
			if len(got.Warnings) != tt.warnings {
				t.Errorf("warnings = %v, want %d", got.Warnings, tt.warnings)
			}
		})
	}
}

func TestScoreURLWarningOrder(t *testing.T) {
	got := ScoreURL("http://secure-bank-login.xyz/account-update")
	want := []string{
		`High-risk keyword detected: "login"`,
		`High-risk keyword detected: "account-update"`,
		`High-risk keyword detected: "secure-bank"`,
		`Technical anomaly detected: ".xyz"`,
	}
	if len(got.Warnings) != len(want) {
		t.Fatalf("warnings = %v", got.Warnings)
	}
	for i := range want {
		if got.Warnings[i] != want[i] {
			t.Errorf("warning %d = %q, want %q", i, got.Warnings[i], want[i])
		}
	}
}

func TestScoreBreakdown(t *testing.T) {
	_, b := ScoreURLWithBreakdown("http://secure-bank-login.xyz/account-update")
	if b.RawTotal != 105 || b.FinalScore != 100 {
		t.Errorf("raw=%d final=%d, want 105/100", b.RawTotal, b.FinalScore)
	}
	if b.KeywordPenalty != 75 || len(b.KeywordHits) != 3 {
		t.Errorf("keyword penalty=%d hits=%v", b.KeywordPenalty, b.KeywordHits)
	}
	if b.AnomalyPenalty != 30 {
		t.Errorf("anomaly penalty=%d", b.AnomalyPenalty)
	}
}

func TestScoreURLMonotonic(t *testing.T) {
	base := []string{
		"https://example.com",
		"https://example.com/path",
		"http://10.0.0.1/x",
	}
	triggers := []string{"/login", "/paypal", "?x=.zip", "/verification"}
	for _, u := range base {
		before := ScoreURL(u).RiskScore
		for _, tr := range triggers {
			after := ScoreURL(u + tr).RiskScore
			if after < before {
				t.Errorf("ScoreURL(%q)=%d dropped below ScoreURL(%q)=%d", u+tr, after, u, before)
			}
		}
	}
}

func TestScoreURLLabelMatchesScore(t *testing.T) {
	for _, u := range []string{
		"https://example.com",
		"http://user@evil.com",
		"http://secure-bank-login.xyz/account-update",
		"https://login.signin.paypal.apple-id.click",
	} {
		got := ScoreURL(u)
		if got.RiskScore < 0 || got.RiskScore > 100 {
			t.Errorf("%q: score %d out of range", u, got.RiskScore)
		}
		if got.Label != model.LabelForScore(got.RiskScore) {
			t.Errorf("%q: label %s inconsistent with score %d", u, got.Label, got.RiskScore)
		}
	}
}
