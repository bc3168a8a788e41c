package vetting

// Heuristic rule weights.
const (
	weightExcessiveLength = 20
	weightDeepNesting     = 15
	weightKeywordPerHit   = 25
	weightAnomalyPerHit   = 30
	weightIPLiteralHost   = 40
	weightPunycodeHost    = 35
	weightObfuscatedHost  = 20

	maxURLLength   = 80
	maxDotSegments = 4
)

// HighRiskKeywords are matched against the lowercased URL; each hit scores.
var HighRiskKeywords = []string{
	"login",
	"signin",
	"verification",
	"account-update",
	"secure-bank",
	"crypto-wallet",
	"paypal",
	"amazon-account",
	"apple-id",
}

// TechnicalAnomalies are matched against the lowercased URL; each hit scores.
var TechnicalAnomalies = []string{
	"@",
	"::",
	"xn--",
	".zip",
	".top",
	".click",
	".xyz",
	".tk",
	".ml",
}

// obfuscationChars flag a host that hides its real shape.
const obfuscationChars = "%@!#$&*?"

// ScoreBreakdown shows which rules fired and what each contributed.
type ScoreBreakdown struct {
	ExcessiveLength int      `json:"excessive_length,omitempty"`
	DeepNesting     int      `json:"deep_nesting,omitempty"`
	KeywordHits     []string `json:"keyword_hits,omitempty"`
	KeywordPenalty  int      `json:"keyword_penalty,omitempty"`
	AnomalyHits     []string `json:"anomaly_hits,omitempty"`
	AnomalyPenalty  int      `json:"anomaly_penalty,omitempty"`
	IPLiteralHost   int      `json:"ip_literal_host,omitempty"`
	PunycodeHost    int      `json:"punycode_host,omitempty"`
	ObfuscatedHost  int      `json:"obfuscated_host,omitempty"`
	RawTotal        int      `json:"raw_total"`
	FinalScore      int      `json:"final_score"`
}
