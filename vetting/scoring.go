package vetting

import (
	"fmt"
	"regexp"
	"strings"

	"url-triage-poc/model"
)

var ipLiteralHost = regexp.MustCompile(`^[0-9.]+$`)

// ScoreURL runs the deterministic heuristic rules over url.
func ScoreURL(url string) model.RuleFinding {
	finding, _ := ScoreURLWithBreakdown(url)
	return finding
}

// ScoreURLWithBreakdown is ScoreURL plus the per-rule contributions.
// Rules only ever add to the score, so adding a trigger never lowers it.
func ScoreURLWithBreakdown(url string) (model.RuleFinding, ScoreBreakdown) {
	var (
		b        ScoreBreakdown
		score    int
		warnings []string
	)
	lower := strings.ToLower(url)

	if utf16Len(url) > maxURLLength {
		b.ExcessiveLength = weightExcessiveLength
		score += weightExcessiveLength
		warnings = append(warnings, fmt.Sprintf("Excessive URL length detected (>%d chars)", maxURLLength))
	}

	if len(strings.Split(url, ".")) > maxDotSegments {
		b.DeepNesting = weightDeepNesting
		score += weightDeepNesting
		warnings = append(warnings, fmt.Sprintf("Deep subdomain nesting (>%d levels)", maxDotSegments))
	}

	for _, kw := range HighRiskKeywords {
		if strings.Contains(lower, kw) {
			b.KeywordHits = append(b.KeywordHits, kw)
			b.KeywordPenalty += weightKeywordPerHit
			score += weightKeywordPerHit
			warnings = append(warnings, fmt.Sprintf("High-risk keyword detected: %q", kw))
		}
	}

	for _, anomaly := range TechnicalAnomalies {
		if strings.Contains(lower, anomaly) {
			b.AnomalyHits = append(b.AnomalyHits, anomaly)
			b.AnomalyPenalty += weightAnomalyPerHit
			score += weightAnomalyPerHit
			warnings = append(warnings, fmt.Sprintf("Technical anomaly detected: %q", anomaly))
		}
	}

	host := hostPart(url)

	if ipLiteralHost.MatchString(host) {
		b.IPLiteralHost = weightIPLiteralHost
		score += weightIPLiteralHost
		warnings = append(warnings, "Suspicious IP-based URL instead of domain")
	}

	if strings.Contains(strings.ToLower(host), "xn--") {
		b.PunycodeHost = weightPunycodeHost
		score += weightPunycodeHost
		warnings = append(warnings, "Punycode detected - possible homograph attack")
	}

	if strings.ContainsAny(host, obfuscationChars) {
		b.ObfuscatedHost = weightObfuscatedHost
		score += weightObfuscatedHost
		warnings = append(warnings, "Special characters in domain (possible obfuscation)")
	}

	b.RawTotal = score
	score = model.ClampScore(score)
	b.FinalScore = score

	return model.RuleFinding{
		RiskScore: score,
		Label:     model.LabelForScore(score),
		Warnings:  warnings,
	}, b
}
