package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"url-triage-poc/model"
)

// Field length caps, in characters.
const (
	maxAttackTypeLen   = 100
	maxEvidenceLen     = 500
	maxIPReputationLen = 200
)

// ErrNoJSONObject is returned when a reply holds no balanced {...} object.
var ErrNoJSONObject = errors.New("no JSON object in response")

// verdictPayload keeps every field raw so each one can be coerced on its
// own instead of failing the whole reply on a type mismatch.
type verdictPayload struct {
	RiskScore            json.RawMessage `json:"riskScore"`
	Label                json.RawMessage `json:"label"`
	AttackType           json.RawMessage `json:"attackType"`
	Evidence             json.RawMessage `json:"evidence"`
	IPReputation         json.RawMessage `json:"ipReputation"`
	ComputationalMetrics json.RawMessage `json:"computationalMetrics"`
}

// Metrics is the optional sub-score breakdown the model may return.
type Metrics struct {
	PhishingScore         string
	TechnicalAnomalyScore string
	IPReputationScore     string
	MalwareScore          string
	AnalysisConfidence    string
}

// Verdict is a normalized reasoning-service answer.
type Verdict struct {
	RiskScore    int
	Label        model.ThreatLabel
	AttackType   string
	Evidence     string
	IPReputation string
	Metrics      *Metrics
}

// StripCodeFence removes a leading ``` or ```json marker and a trailing ```.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
	}
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimRightFunc(s[:len(s)-3], unicode.IsSpace)
	}
	return s
}

// ExtractJSONObject returns the first top-level {...} object in s. Braces
// inside JSON strings are ignored.
func ExtractJSONObject(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if start < 0 {
			if ch == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONObject
}

// ParseVerdict turns raw model output into a normalized Verdict.
// priorScore stands in for a missing or unusable riskScore.
func ParseVerdict(raw string, priorScore int) (Verdict, error) {
	if strings.TrimSpace(raw) == "" {
		return Verdict{}, errors.New("empty content in verification response")
	}
	obj, err := ExtractJSONObject(StripCodeFence(raw))
	if err != nil {
		return Verdict{}, err
	}
	var p verdictPayload
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return Verdict{}, fmt.Errorf("parse verdict JSON: %w", err)
	}
	return p.normalize(priorScore), nil
}

func (p verdictPayload) normalize(priorScore int) Verdict {
	score := normalizeScore(p.RiskScore, priorScore)

	label := model.LabelForScore(score)
	var rawLabel string
	if json.Unmarshal(p.Label, &rawLabel) == nil {
		if l, err := model.ParseThreatLabel(rawLabel); err == nil {
			label = l
		}
	}

	v := Verdict{
		RiskScore:    score,
		Label:        label,
		AttackType:   truncate(coerceString(p.AttackType, "Unclassified Threat"), maxAttackTypeLen),
		Evidence:     truncate(coerceString(p.Evidence, "Forensic analysis complete"), maxEvidenceLen),
		IPReputation: truncate(coerceString(p.IPReputation, "Inconclusive"), maxIPReputationLen),
	}

	if isTruthy(p.ComputationalMetrics) {
		var m map[string]json.RawMessage
		_ = json.Unmarshal(p.ComputationalMetrics, &m)
		v.Metrics = &Metrics{
			PhishingScore:         coerceString(m["phishingScore"], "0"),
			TechnicalAnomalyScore: coerceString(m["technicalAnomalyScore"], "0"),
			IPReputationScore:     coerceString(m["ipReputationScore"], "0"),
			MalwareScore:          coerceString(m["malwareScore"], "0"),
			AnalysisConfidence:    coerceString(m["analysisConfidence"], "Medium"),
		}
	}
	return v
}

// normalizeScore accepts a JSON number or a string with a leading integer
// ("85", "85/100"). Anything else yields fallback.
func normalizeScore(raw json.RawMessage, fallback int) int {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return fallback
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return fallback
		}
		return model.ClampScore(int(math.Max(-1, math.Min(101, math.Trunc(x)))))
	case string:
		n, ok := leadingInt(x)
		if !ok {
			return fallback
		}
		return model.ClampScore(n)
	default:
		return fallback
	}
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Too many digits for an int; any such value is out of range anyway.
		n = math.MaxInt32
	}
	return sign * n, true
}

// coerceString renders a raw JSON value as text. Missing, null, false, 0
// and "" produce def.
func coerceString(raw json.RawMessage, def string) string {
	if !isTruthy(raw) {
		return def
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return string(raw)
	}
}

func isTruthy(raw json.RawMessage) bool {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case float64:
		return x != 0
	case bool:
		return x
	default:
		return true
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
