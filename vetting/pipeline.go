package vetting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"url-triage-poc/model"
)

// ErrEmptyURL is returned when the submitted URL is blank.
var ErrEmptyURL = errors.New("url required")

// IntelSource supplies the override lists and dataset for one scan.
type IntelSource interface {
	State(ctx context.Context) (model.AppState, error)
}

// Classifier produces the final verdict for URLs no override decided.
// It must always return a result; failures are its own business.
type Classifier interface {
	Classify(ctx context.Context, url, resolvedIP string, prior model.RuleFinding) model.ScanResult
}

// Pipeline resolves a URL to a verdict: overrides, dataset, heuristic
// prior, then the classifier. First decisive stage wins.
type Pipeline struct {
	intel      IntelSource
	stages     []Stage
	classifier Classifier
	logger     *slog.Logger
	scans      metric.Int64Counter
}

// NewPipeline wires the default stages in front of classifier.
func NewPipeline(intel IntelSource, classifier Classifier, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	scans, _ := otel.Meter("url-triage").Int64Counter("triage_scans_total")
	return &Pipeline{
		intel:      intel,
		stages:     DefaultStages(),
		classifier: classifier,
		logger:     logger.With("component", "pipeline"),
		scans:      scans,
	}
}

// WithStages replaces the override stages. Order is evaluation order.
func (p *Pipeline) WithStages(stages ...Stage) *Pipeline {
	p.stages = stages
	return p
}

// Scan classifies rawURL. The only errors are a blank URL and a failure to
// read the intel snapshot; classification itself always yields a result.
func (p *Pipeline) Scan(ctx context.Context, rawURL string) (model.ScanResult, error) {
	url := NormalizeURL(rawURL)
	if url == "" {
		return model.ScanResult{}, ErrEmptyURL
	}

	intel, err := p.intel.State(ctx)
	if err != nil {
		return model.ScanResult{}, fmt.Errorf("load intel: %w", err)
	}

	target := Target{
		Input:      strings.TrimSpace(rawURL),
		URL:        url,
		ResolvedIP: ResolveIP(url),
		Intel:      intel,
	}

	for _, stage := range p.stages {
		if res, ok := stage.Attempt(target); ok {
			p.record(ctx, stage.Name(), *res)
			return *res, nil
		}
	}

	prior := ScoreURL(url)
	p.logger.Debug("heuristic prior", "url", url, "score", prior.RiskScore, "label", prior.Label, "warnings", len(prior.Warnings))

	res := p.classifier.Classify(ctx, url, target.ResolvedIP, prior)
	p.record(ctx, "classifier", res)
	return res, nil
}

// ScanBatch scans urls concurrently, at most limit at a time. Results keep
// input order. Scans are independent; the first error cancels the rest.
func (p *Pipeline) ScanBatch(ctx context.Context, urls []string, limit int) ([]model.ScanResult, error) {
	results := make([]model.ScanResult, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			res, err := p.Scan(ctx, u)
			if err != nil {
				return fmt.Errorf("scan %q: %w", u, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) record(ctx context.Context, stage string, res model.ScanResult) {
	p.scans.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("label", string(res.Label)),
	))
	p.logger.Info("scan complete", "url", res.URL, "stage", stage, "label", res.Label, "score", res.RiskScore)
}
