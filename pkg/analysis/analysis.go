// Package analysis runs a full scoring and graph pass over one claim
// snapshot and memoizes results by content address.
package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nithinmohantk/claimguard/pkg/anomaly"
	"github.com/nithinmohantk/claimguard/pkg/claims"
	"github.com/nithinmohantk/claimguard/pkg/explain"
	"github.com/nithinmohantk/claimguard/pkg/graph"
)

// Config is the recognized configuration surface of an analysis pass.
type Config struct {
	// Method selects the detection strategy: threshold, statistical,
	// or ml-outlier.
	Method anomaly.Method `json:"method"`

	// Threshold is the fixed cutoff for the threshold method.
	Threshold *float64 `json:"threshold,omitempty"`
	// Percentile derives the threshold cutoff from the input set.
	Percentile *float64 `json:"percentile,omitempty"`

	// ZCutoff is the statistical method's z-score cutoff.
	ZCutoff float64 `json:"z_cutoff"`

	// Contamination is the ml-outlier expected outlier fraction.
	Contamination float64 `json:"contamination"`
	// Seed fixes the ml-outlier model's randomness.
	Seed int64 `json:"seed"`

	// MinClusterSize is the minimum suspicious clique size.
	MinClusterSize int `json:"min_cluster_size"`

	// Weights, when set, additionally runs all three methods and
	// blends their normalized scores in method order (threshold,
	// statistical, ml-outlier).
	Weights []float64 `json:"weights,omitempty"`

	// TopN is how many top-scoring claims the report lists.
	TopN int `json:"top_n"`
}

// DefaultConfig returns the default analysis configuration.
func DefaultConfig() Config {
	return Config{
		Method:         anomaly.MethodStatistical,
		ZCutoff:        3.0,
		Contamination:  0.05,
		Seed:           42,
		MinClusterSize: 3,
		TopN:           10,
	}
}

// Report is the complete outcome of one analysis pass.
type Report struct {
	Results        []anomaly.Result    `json:"-"`
	Summary        map[string]float64  `json:"summary"`
	Top            []anomaly.Result    `json:"-"`
	CombinedScores []float64           `json:"combined_scores,omitempty"`
	Stats          graph.Statistics    `json:"network_statistics"`
	Clusters       graph.ClusterReport `json:"cluster_report"`
	Explanation    string              `json:"explanation,omitempty"`
}

// Pipeline wires the scoring engine, the graph engine, and the optional
// explanation collaborator.
type Pipeline struct {
	log       *zap.Logger
	explainer explain.Explainer
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(log *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.log = log }
}

// WithExplainer attaches an explanation collaborator. Its failures are
// logged and never affect scoring or graph results.
func WithExplainer(e explain.Explainer) PipelineOption {
	return func(p *Pipeline) { p.explainer = e }
}

// NewPipeline creates a Pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run scores the snapshot with the configured method, builds the
// patient-provider graph, and computes statistics and suspicious
// clusters. The pass is a pure function of (records, cfg); degenerate
// input produces empty results, not errors.
func (p *Pipeline) Run(ctx context.Context, records []claims.ClaimRecord, cfg Config) (*Report, error) {
	detector, err := p.detector(cfg)
	if err != nil {
		return nil, err
	}

	p.log.Info("scoring claims",
		zap.String("method", string(cfg.Method)),
		zap.Int("records", len(records)))
	results := detector.Detect(records)

	report := &Report{
		Results: results,
		Summary: anomaly.Summarize(results),
		Top:     anomaly.TopN(results, cfg.TopN),
	}

	if len(cfg.Weights) > 0 {
		report.CombinedScores = p.combineAll(records, cfg)
	}

	g := graph.Build(records)
	report.Stats = g.Statistics()
	report.Clusters = g.SuspiciousClusters(ctx,
		graph.WithMinClusterSize(cfg.MinClusterSize))
	if report.Clusters.Truncated {
		p.log.Warn("clique enumeration truncated",
			zap.Int("nodes", report.Stats.NumNodes),
			zap.Int("cliques_enumerated", report.Clusters.TotalCliques))
	}

	if p.explainer != nil {
		prompt := explain.SummaryPrompt(report.Summary, report.Stats)
		text, err := p.explainer.Explain(ctx, prompt)
		if err != nil {
			// Collaborator failure is isolated from core results
			p.log.Warn("explanation unavailable", zap.Error(err))
		} else {
			report.Explanation = text
		}
	}

	return report, nil
}

// claimDetector is the strategy surface the pipeline drives.
type claimDetector interface {
	Detect(records []claims.ClaimRecord) []anomaly.Result
}

func (p *Pipeline) detector(cfg Config) (claimDetector, error) {
	switch cfg.Method {
	case anomaly.MethodThreshold:
		var opts []anomaly.ThresholdOption
		if cfg.Threshold != nil {
			opts = append(opts, anomaly.WithValue(*cfg.Threshold))
		}
		if cfg.Percentile != nil {
			opts = append(opts, anomaly.WithPercentile(*cfg.Percentile))
		}
		return anomaly.NewThreshold(opts...), nil
	case anomaly.MethodStatistical:
		return anomaly.NewZScore(anomaly.WithCutoff(cfg.ZCutoff)), nil
	case anomaly.MethodMLOutlier:
		return anomaly.NewMLOutlier(
			anomaly.WithContamination(cfg.Contamination),
			anomaly.WithSeed(cfg.Seed),
		), nil
	default:
		return nil, fmt.Errorf("unknown detection method %q", cfg.Method)
	}
}

// combineAll runs every strategy and blends the normalized score
// columns with the configured weights.
func (p *Pipeline) combineAll(records []claims.ClaimRecord, cfg Config) []float64 {
	set := anomaly.NewScoreSet(len(records))

	methods := []Config{
		{Method: anomaly.MethodThreshold, Threshold: cfg.Threshold, Percentile: cfg.Percentile},
		{Method: anomaly.MethodStatistical, ZCutoff: cfg.ZCutoff},
		{Method: anomaly.MethodMLOutlier, Contamination: cfg.Contamination, Seed: cfg.Seed},
	}
	names := make([]string, 0, len(methods))
	for _, mc := range methods {
		d, err := p.detector(mc)
		if err != nil {
			continue
		}
		name := string(mc.Method)
		if err := set.AddResults(name, d.Detect(records)); err != nil {
			continue
		}
		names = append(names, name)
	}

	return set.Combine(names, cfg.Weights)
}
