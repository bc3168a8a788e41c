package vetting

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	whois "github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"golang.org/x/sync/errgroup"

	"url-triage-poc/model"
)

// WhoisLookup fetches parsed registration data for a domain.
type WhoisLookup func(domain string) (whoisparser.WhoisInfo, error)

// WhoisEnricher fills empty dataset descriptions with registration data.
// It runs at import time only; scans never touch the network.
type WhoisEnricher struct {
	Lookup      WhoisLookup
	Concurrency int
	Logger      *slog.Logger
}

// NewWhoisEnricher uses live WHOIS queries.
func NewWhoisEnricher(logger *slog.Logger) *WhoisEnricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &WhoisEnricher{
		Lookup:      LookupWhois,
		Concurrency: 4,
		Logger:      logger.With("component", "whois"),
	}
}

// LookupWhois queries WHOIS for domain, retrying on the parent domain
// when a subdomain does not parse.
func LookupWhois(domain string) (whoisparser.WhoisInfo, error) {
	raw, err := whois.Whois(domain)
	if err != nil {
		return whoisparser.WhoisInfo{}, fmt.Errorf("whois %s: %w", domain, err)
	}

	info, err := whoisparser.Parse(raw)
	if err != nil || info.Domain == nil {
		parts := strings.Split(domain, ".")
		if len(parts) > 2 {
			return LookupWhois(strings.Join(parts[1:], "."))
		}
		if err == nil {
			err = fmt.Errorf("no domain section")
		}
		return whoisparser.WhoisInfo{}, fmt.Errorf("parse whois %s: %w", domain, err)
	}
	return info, nil
}

// Enrich returns a copy of records where blank descriptions are replaced
// by "Registered <date> via <registrar>". Lookup failures leave the
// record unchanged.
func (e *WhoisEnricher) Enrich(ctx context.Context, records []model.DatasetEntry) []model.DatasetEntry {
	out := append([]model.DatasetEntry(nil), records...)

	g, ctx := errgroup.WithContext(ctx)
	if e.Concurrency > 0 {
		g.SetLimit(e.Concurrency)
	}
	for i := range out {
		if out[i].Description != "" {
			continue
		}
		domain := registrableHost(out[i].URL)
		if domain == "" {
			continue
		}
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			info, err := e.Lookup(domain)
			if err != nil {
				e.Logger.Debug("whois lookup failed", "domain", domain, "error", err)
				return nil
			}
			if desc := describeRegistration(info); desc != "" {
				out[i].Description = desc
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// registrableHost returns the lowercased host of a dataset URL, or "" when
// it is an IP literal or empty.
func registrableHost(url string) string {
	host := strings.ToLower(resolverDomain(url))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" || net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return ""
	}
	return host
}

var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

func describeRegistration(info whoisparser.WhoisInfo) string {
	var created, registrar string
	if info.Domain != nil {
		created = parseWhoisDate(info.Domain.CreatedDate)
	}
	if info.Registrar != nil {
		registrar = strings.TrimSpace(info.Registrar.Name)
	}

	switch {
	case created != "" && registrar != "":
		return fmt.Sprintf("Registered %s via %s", created, registrar)
	case created != "":
		return "Registered " + created
	case registrar != "":
		return "Registered via " + registrar
	default:
		return ""
	}
}

func parseWhoisDate(s string) string {
	s = strings.TrimSpace(s)
	for _, l := range whoisDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
