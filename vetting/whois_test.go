package vetting

import (
	"context"
	"errors"
	"sync"
	"testing"

	whoisparser "github.com/likexian/whois-parser"

	"url-triage-poc/model"
)

func TestWhoisEnrich(t *testing.T) {
	var (
		mu      sync.Mutex
		queried = map[string]int{}
	)
	e := &WhoisEnricher{
		Concurrency: 2,
		Logger:      quietLogger(),
		Lookup: func(domain string) (whoisparser.WhoisInfo, error) {
			mu.Lock()
			queried[domain]++
			mu.Unlock()
			switch domain {
			case "phish.test":
				return whoisparser.WhoisInfo{
					Domain:    &whoisparser.Domain{CreatedDate: "2024-03-09T10:00:00Z"},
					Registrar: &whoisparser.Contact{Name: "Example Registrar"},
				}, nil
			case "registrar-only.test":
				return whoisparser.WhoisInfo{Registrar: &whoisparser.Contact{Name: "Other"}}, nil
			default:
				return whoisparser.WhoisInfo{}, errors.New("no match")
			}
		},
	}

	in := []model.DatasetEntry{
		{URL: "https://www.phish.test/login", Label: model.LabelSuspicious},
		{URL: "https://registrar-only.test", Label: model.LabelSuspicious},
		{URL: "https://kept.test", Description: "already described"},
		{URL: "https://unknown.test"},
		{URL: "10.0.0.1"},
	}
	out := e.Enrich(context.Background(), in)

	want := []string{
		"Registered 2024-03-09 via Example Registrar",
		"Registered via Other",
		"already described",
		"",
		"",
	}
	for i, w := range want {
		if out[i].Description != w {
			t.Errorf("record %d description = %q, want %q", i, out[i].Description, w)
		}
	}
	if in[0].Description != "" {
		t.Error("Enrich must not modify its input")
	}
	if queried["kept.test"] != 0 {
		t.Error("described records must not be looked up")
	}
	if len(queried) != 3 {
		t.Errorf("queried = %v", queried)
	}
}

func TestParseWhoisDate(t *testing.T) {
	tests := map[string]string{
		"2020-01-02T03:04:05Z": "2020-01-02",
		"2020-01-02 03:04:05":  "2020-01-02",
		"02-Jan-2020":          "2020-01-02",
		"garbage":              "",
	}
	for in, want := range tests {
		if got := parseWhoisDate(in); got != want {
			t.Errorf("parseWhoisDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegistrableHost(t *testing.T) {
	tests := map[string]string{
		"https://WWW.Example.COM/path": "example.com",
		"example.org":                  "example.org",
		"http://10.0.0.1/x":            "",
		"localhost":                    "",
	}
	for in, want := range tests {
		if got := registrableHost(in); got != want {
			t.Errorf("registrableHost(%q) = %q, want %q", in, got, want)
		}
	}
}
