// Package analyze implements the claimguard analyze command.
package analyze

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nithinmohantk/claimguard/pkg/analysis"
	"github.com/nithinmohantk/claimguard/pkg/anomaly"
	"github.com/nithinmohantk/claimguard/pkg/claims"
	claimio "github.com/nithinmohantk/claimguard/pkg/io"
	claimcsv "github.com/nithinmohantk/claimguard/pkg/io/csv"
	"github.com/nithinmohantk/claimguard/pkg/io/jsonl"
)

var (
	input          string
	output         string
	method         string
	threshold      float64
	percentile     float64
	zCutoff        float64
	contamination  float64
	minClusterSize int
	weights        []float64
	topN           int
)

// Cmd is the analyze subcommand.
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a claims CSV and report suspicious clusters",
	Long: `Read a batch of healthcare claims from a CSV file, score each claim
with the selected detection method, and analyze the patient-provider
network for suspiciously dense billing circles.`,
	RunE: runAnalyze,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "claims CSV file (required)")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "write scored results to a JSONL file")
	Cmd.Flags().StringVarP(&method, "method", "m", "statistical", "detection method: threshold, statistical, or ml-outlier")
	Cmd.Flags().Float64Var(&threshold, "threshold", 0, "fixed amount cutoff for the threshold method")
	Cmd.Flags().Float64Var(&percentile, "percentile", 0, "percentile-derived cutoff for the threshold method")
	Cmd.Flags().Float64Var(&zCutoff, "z-cutoff", 3.0, "z-score cutoff for the statistical method")
	Cmd.Flags().Float64Var(&contamination, "contamination", 0.05, "expected outlier fraction for the ml-outlier method")
	Cmd.Flags().IntVar(&minClusterSize, "min-cluster-size", 3, "minimum clique size considered suspicious")
	Cmd.Flags().Float64SliceVar(&weights, "weights", nil, "combine all methods with these weights (threshold,statistical,ml-outlier)")
	Cmd.Flags().IntVar(&topN, "top", 10, "number of top-scoring claims to list")
	Cmd.MarkFlagRequired("input")

	viper.BindPFlag("method", Cmd.Flags().Lookup("method"))
	viper.BindPFlag("z-cutoff", Cmd.Flags().Lookup("z-cutoff"))
	viper.BindPFlag("contamination", Cmd.Flags().Lookup("contamination"))
	viper.BindPFlag("min-cluster-size", Cmd.Flags().Lookup("min-cluster-size"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	reader, err := claimcsv.NewReader(input)
	if err != nil {
		return fmt.Errorf("opening claims file: %w", err)
	}
	defer reader.Close()

	raw, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading claims: %w", err)
	}

	records := claims.Sanitize(raw)
	log.Info("loaded claims",
		zap.Int("rows", len(raw)),
		zap.Int("sanitized", len(records)))

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	pipeline := analysis.NewPipeline(analysis.WithLogger(log))
	report, err := pipeline.Run(context.Background(), records, cfg)
	if err != nil {
		return err
	}

	printReport(cmd, report)

	if output != "" {
		if err := writeResults(report, cfg); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
		log.Info("results written", zap.String("file", output))
	}
	return nil
}

func newLogger() (*zap.Logger, error) {
	if viper.GetBool("verbose") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func buildConfig(cmd *cobra.Command) (analysis.Config, error) {
	cfg := analysis.DefaultConfig()
	cfg.Method = anomaly.Method(viper.GetString("method"))
	cfg.ZCutoff = viper.GetFloat64("z-cutoff")
	cfg.Contamination = viper.GetFloat64("contamination")
	cfg.MinClusterSize = viper.GetInt("min-cluster-size")
	cfg.TopN = topN
	cfg.Weights = weights

	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = &threshold
	}
	if cmd.Flags().Changed("percentile") {
		cfg.Percentile = &percentile
	}

	switch cfg.Method {
	case anomaly.MethodThreshold, anomaly.MethodStatistical, anomaly.MethodMLOutlier:
		return cfg, nil
	default:
		return cfg, fmt.Errorf("unknown method %q", cfg.Method)
	}
}

func printReport(cmd *cobra.Command, report *analysis.Report) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Anomaly Summary")
	fmt.Fprintln(out, "===============")
	keys := make([]string, 0, len(report.Summary))
	for k := range report.Summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-20s %.2f\n", k, report.Summary[k])
	}

	if len(report.Top) > 0 {
		fmt.Fprintln(out, "\nTop Claims by Score")
		for i, r := range report.Top {
			marker := ""
			if r.IsAnomaly {
				marker = " [ANOMALY]"
			}
			fmt.Fprintf(out, "  %2d. patient=%s provider=%s amount=$%.2f score=%.3f%s\n",
				i+1, r.Record.PatientID, r.Record.ProviderID, r.Record.ClaimAmount, r.Score, marker)
		}
	}

	stats := report.Stats
	fmt.Fprintln(out, "\nNetwork Statistics")
	fmt.Fprintf(out, "  nodes=%d edges=%d avg_degree=%.2f density=%.4f components=%d connected=%t\n",
		stats.NumNodes, stats.NumEdges, stats.AvgDegree, stats.Density,
		stats.NumConnectedComponents, stats.IsConnected)

	clusters := report.Clusters
	fmt.Fprintln(out, "\nSuspicious Clusters")
	fmt.Fprintf(out, "  total_cliques=%d suspicious=%d truncated=%t\n",
		clusters.TotalCliques, clusters.SuspiciousCliques, clusters.Truncated)
	for _, clique := range clusters.CliqueDetails {
		fmt.Fprintf(out, "  - %s\n", strings.Join(clique, ", "))
	}
}

func writeResults(report *analysis.Report, cfg analysis.Config) error {
	writer, err := jsonl.Create(output)
	if err != nil {
		return err
	}
	defer writer.Close()

	results := make([]claimio.Result, len(report.Results))
	for i, r := range report.Results {
		results[i] = claimio.Result{
			PatientID:     r.Record.PatientID,
			ProviderID:    r.Record.ProviderID,
			ClaimAmount:   r.Record.ClaimAmount,
			DiagnosisCode: r.Record.DiagnosisCode,
			Method:        string(r.Method),
			Score:         r.Score,
			IsAnomaly:     r.IsAnomaly,
		}
		if i < len(report.CombinedScores) {
			results[i].CombinedScore = report.CombinedScores[i]
		}
	}
	return writer.WriteAll(results)
}
