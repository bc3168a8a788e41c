package vetting

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"
)

var (
	protoWWWPrefix = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?`)
	firstProto     = regexp.MustCompile(`https?://`)
)

// NormalizeURL trims the input and prefixes https:// onto a bare host. Input
// that already begins with "http" is left alone, so a host such as
// "httpbin.org" stays unprefixed.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http") && !strings.Contains(u, "://") {
		u = "https://" + u
	}
	return u
}

// ResolveIP derives a stable synthetic IPv4 address from the URL's domain.
// No network lookup happens; the address is only a matching key and a
// display field.
func ResolveIP(url string) string {
	domain := resolverDomain(url)
	hash := 0
	for _, unit := range utf16.Encode([]rune(domain)) {
		hash += int(unit)
	}

	if strings.Contains(domain, "bank") || strings.Contains(domain, "secure") {
		return fmt.Sprintf("185.129.%d.%d", hash%255, (hash*7)%255)
	}
	return fmt.Sprintf("104.28.%d.%d", hash%255, (hash*3)%255)
}

// resolverDomain strips protocol and a leading "www." and keeps the text
// before the first "/".
func resolverDomain(url string) string {
	d := protoWWWPrefix.ReplaceAllString(url, "")
	return strings.SplitN(d, "/", 2)[0]
}

// hostPart strips the first http(s):// occurrence and keeps the text
// before the first "/". Used by the heuristic host rules.
func hostPart(url string) string {
	d := url
	if loc := firstProto.FindStringIndex(d); loc != nil {
		d = d[:loc[0]] + d[loc[1]:]
	}
	return strings.SplitN(d, "/", 2)[0]
}

// utf16Len counts UTF-16 code units, the unit URL length limits are
// expressed in.
func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
