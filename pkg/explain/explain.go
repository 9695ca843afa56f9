// Package explain is the boundary to the natural-language explanation
// collaborator. The analysis core never depends on it succeeding.
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/nithinmohantk/claimguard/pkg/claims"
	"github.com/nithinmohantk/claimguard/pkg/graph"
)

// Explainer turns a prompt into free-text investigator guidance. It is
// implemented by an external LLM-backed service; failures must stay
// isolated from scoring and graph results.
type Explainer interface {
	Explain(ctx context.Context, prompt string) (string, error)
}

// Static is an Explainer returning fixed text, useful offline and in
// tests.
type Static struct {
	Text string
}

func (s Static) Explain(context.Context, string) (string, error) {
	return s.Text, nil
}

// ClaimPrompt builds the analysis prompt for one flagged claim.
func ClaimPrompt(r claims.ClaimRecord, extra string) string {
	var b strings.Builder
	b.WriteString("You are a healthcare fraud detection expert. Analyze this claim for potential fraud, waste, or abuse (FWA):\n")
	fmt.Fprintf(&b, "- Patient ID: %s\n", r.PatientID)
	fmt.Fprintf(&b, "- Provider ID: %s\n", r.ProviderID)
	fmt.Fprintf(&b, "- Claim Amount: $%.2f\n", r.ClaimAmount)
	fmt.Fprintf(&b, "- Diagnosis Code: %s\n", r.DiagnosisCode)
	if r.ProcedureCode != "" {
		fmt.Fprintf(&b, "- Procedure Code: %s\n", r.ProcedureCode)
	}
	if r.Date != nil {
		fmt.Fprintf(&b, "- Claim Date: %s\n", r.Date.Format("2006-01-02"))
	}
	if extra != "" {
		fmt.Fprintf(&b, "\nAdditional context: %s\n", extra)
	}
	return b.String()
}

// SummaryPrompt builds the analysis prompt for a whole pass: the
// anomaly summary plus the network statistics.
func SummaryPrompt(summary map[string]float64, stats graph.Statistics) string {
	var b strings.Builder
	b.WriteString("You are a healthcare fraud detection expert. Summarize the risk picture of this claims batch for an investigator:\n")
	fmt.Fprintf(&b, "- Total claims: %.0f\n", summary["total_claims"])
	fmt.Fprintf(&b, "- Anomalies detected: %.0f (%.1f%%)\n",
		summary["anomalies_detected"], summary["anomaly_percentage"])
	fmt.Fprintf(&b, "- Average anomalous amount: $%.2f vs normal $%.2f\n",
		summary["avg_amount_anomaly"], summary["avg_amount_normal"])
	fmt.Fprintf(&b, "- Network: %d nodes, %d edges, density %.4f, %d connected components\n",
		stats.NumNodes, stats.NumEdges, stats.Density, stats.NumConnectedComponents)
	return b.String()
}
