package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"url-triage-poc/model"
)

// DefaultTimeout bounds both rounds of one classification together.
const DefaultTimeout = 30 * time.Second

// ErrNoCredential marks rule-based mode. It is not a failure.
var ErrNoCredential = errors.New("reasoning service credential not configured")

// Classifier runs the two-round verify protocol against the reasoning
// service and degrades to the heuristic prior on any failure.
type Classifier struct {
	client  *Client
	timeout time.Duration
	logger  *slog.Logger

	fallbacks metric.Int64Counter
	verified  metric.Int64Counter
}

// Options configures a Classifier. An empty APIKey selects rule-based mode.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewClassifier builds a classifier from opts.
func NewClassifier(opts Options) *Classifier {
	c := &Classifier{
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "classifier")
	if opts.APIKey != "" {
		c.client = NewClient(opts.APIKey, opts.BaseURL, opts.Model)
	}

	meter := otel.Meter("url-triage")
	c.fallbacks, _ = meter.Int64Counter("triage_classifier_fallback_total")
	c.verified, _ = meter.Int64Counter("triage_classifier_verified_total")
	return c
}

// Enabled reports whether the reasoning service will be called.
func (c *Classifier) Enabled() bool {
	return c.client != nil
}

// Classify returns a verdict for url. It never fails: without a credential,
// or on any transport, status, timeout or parse error, the result is built
// from prior.
func (c *Classifier) Classify(ctx context.Context, url, resolvedIP string, prior model.RuleFinding) model.ScanResult {
	if c.client == nil {
		c.logger.Debug("rule-based mode, skipping reasoning service", "url", url)
		c.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "no_credential")))
		return Fallback(url, resolvedIP, prior, ErrNoCredential)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	verdict, err := c.verify(ctx, url, resolvedIP, prior)
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		c.logger.Warn("reasoning service failed, using heuristic fallback", "url", url, "error", err)
		c.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
		return Fallback(url, resolvedIP, prior, err)
	}

	c.verified.Add(ctx, 1, metric.WithAttributes(attribute.String("label", string(verdict.Label))))
	c.logger.Info("verified classification", "url", url, "label", verdict.Label, "score", verdict.RiskScore)
	return verdict.Result(url, resolvedIP)
}

// verify runs round 1 (reasoning enabled) and round 2 (challenge). Only the
// round-2 content is parsed.
func (c *Classifier) verify(ctx context.Context, url, resolvedIP string, prior model.RuleFinding) (Verdict, error) {
	conv := NewConversation(SystemPrompt, AnalysisPrompt(url, resolvedIP, prior.RiskScore))

	c.logger.Debug("round 1: initial analysis", "url", url)
	first, err := c.client.Complete(ctx, ChatRequest{
		Messages:    conv.History(),
		Reasoning:   &ReasoningConfig{Enabled: true},
		Temperature: 0.3,
		MaxTokens:   1024,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("round 1: %w", err)
	}

	conv.AddAssistant(first)
	conv.AddUser(VerificationChallenge)

	c.logger.Debug("round 2: verification", "url", url)
	second, err := c.client.Complete(ctx, ChatRequest{
		Messages:    conv.History(),
		Temperature: 0.2,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("round 2: %w", err)
	}

	return ParseVerdict(second.Content, prior.RiskScore)
}

// Result renders the verdict as a ScanResult with the full evidence report.
func (v Verdict) Result(url, resolvedIP string) model.ScanResult {
	return model.ScanResult{
		URL:          url,
		ResolvedIP:   resolvedIP,
		RiskScore:    v.RiskScore,
		Label:        v.Label,
		AttackType:   v.AttackType,
		Evidence:     v.Report(),
		IPReputation: v.IPReputation,
	}
}

// Report builds the multi-section evidence text.
func (v Verdict) Report() string {
	var b strings.Builder
	b.WriteString("[DEEP REASONING ANALYSIS]\n")
	fmt.Fprintf(&b, "Classification: %s | Risk Score: %d/100\n\n", strings.ToUpper(string(v.Label)), v.RiskScore)
	fmt.Fprintf(&b, "[THREAT ASSESSMENT]\n%s\n\n", v.Evidence)
	b.WriteString("[VERIFICATION STATUS]\nDouble-checked reasoning path confirmed threat profile.\n\n")
	fmt.Fprintf(&b, "[IP ANALYSIS]\n%s\n\n", v.IPReputation)

	if m := v.Metrics; m != nil {
		b.WriteString("[COMPUTATIONAL ANALYSIS METRICS]\n")
		fmt.Fprintf(&b, "• Phishing Score: %s/100\n", m.PhishingScore)
		fmt.Fprintf(&b, "• Tech Anomaly: %s/100\n", m.TechnicalAnomalyScore)
		fmt.Fprintf(&b, "• IP Reputation: %s/100\n", m.IPReputationScore)
		fmt.Fprintf(&b, "• Malware Risk: %s/100\n", m.MalwareScore)
		fmt.Fprintf(&b, "• Confidence: %s\n", m.AnalysisConfidence)
	}
	return b.String()
}

// Fallback builds the heuristic-only result. Score and label are the
// prior's; reason explains why the reasoning service was not used.
func Fallback(url, resolvedIP string, prior model.RuleFinding, reason error) model.ScanResult {
	res := model.ScanResult{
		URL:        url,
		ResolvedIP: resolvedIP,
		RiskScore:  prior.RiskScore,
		Label:      prior.Label,
		AttackType: HeuristicAttackType(prior.Label),
	}

	if errors.Is(reason, ErrNoCredential) {
		res.Evidence = fmt.Sprintf("[RULE-BASED ANALYSIS]\nAI analysis unavailable: %s.\nThreat Classification: %s\nRisk Score: %d/100\n\n[DETECTION PATTERNS]\n%s",
			reason, prior.Label, prior.RiskScore, prior.WarningText())
		res.IPReputation = "Offline AI Core - Rule-Based Detection"
		return res
	}

	res.Evidence = fmt.Sprintf("[RULE-BASED FALLBACK]\nAI analysis unavailable (%s). Using local heuristic patterns.\nThreat Classification: %s\nRisk Score: %d/100\n\n[DETECTION PATTERNS]\n%s",
		reason, prior.Label, prior.RiskScore, prior.WarningText())
	res.IPReputation = "Rule-Based Detection Core"
	return res
}

// HeuristicAttackType labels a rule-based classification.
func HeuristicAttackType(label model.ThreatLabel) string {
	if !label.Valid() {
		label = model.LabelSafe
	}
	return string(label) + " (Heuristic)"
}
