package model

import (
	"fmt"
	"strings"
)

// ThreatLabel is the verdict tier of a scan.
type ThreatLabel string

const (
	LabelSafe       ThreatLabel = "Safe"
	LabelSuspicious ThreatLabel = "Suspicious"
	LabelMalicious  ThreatLabel = "Malicious"
)

// Label thresholds on a 0-100 risk score.
const (
	MaliciousMin  = 70
	SuspiciousMin = 35
)

// Severity orders labels Safe < Suspicious < Malicious.
// Unknown labels rank below Safe.
func (l ThreatLabel) Severity() int {
	switch l {
	case LabelSafe:
		return 1
	case LabelSuspicious:
		return 2
	case LabelMalicious:
		return 3
	default:
		return 0
	}
}

// Valid reports whether l is one of the three known labels.
func (l ThreatLabel) Valid() bool {
	return l.Severity() > 0
}

// ParseThreatLabel accepts only the exact label strings.
func ParseThreatLabel(s string) (ThreatLabel, error) {
	l := ThreatLabel(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown threat label %q", s)
	}
	return l, nil
}

// LabelForScore maps a risk score to its tier.
func LabelForScore(score int) ThreatLabel {
	switch {
	case score >= MaliciousMin:
		return LabelMalicious
	case score >= SuspiciousMin:
		return LabelSuspicious
	default:
		return LabelSafe
	}
}

// ClampScore keeps a score within 0-100.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// RuleFinding is the heuristic scorer's output. It is recomputed per scan
// and never persisted.
type RuleFinding struct {
	RiskScore int         `json:"riskScore"`
	Label     ThreatLabel `json:"label"`
	Warnings  []string    `json:"warnings"`
}

// WarningText renders the warnings as a bullet list.
func (f RuleFinding) WarningText() string {
	if len(f.Warnings) == 0 {
		return "No specific warnings"
	}
	lines := make([]string, len(f.Warnings))
	for i, w := range f.Warnings {
		lines[i] = "• " + w
	}
	return strings.Join(lines, "\n")
}

// ScanResult is the single output contract of the pipeline.
type ScanResult struct {
	URL          string      `json:"url"`
	ResolvedIP   string      `json:"resolvedIp"`
	RiskScore    int         `json:"riskScore"`
	Label        ThreatLabel `json:"label"`
	AttackType   string      `json:"attackType"`
	Evidence     string      `json:"evidence"`
	IPReputation string      `json:"ipReputation"`
}
