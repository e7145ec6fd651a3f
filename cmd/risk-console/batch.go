package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"credit-risk-workers/internal/assessment"

	"github.com/spf13/cobra"
)

var (
	batchEssay       string
	batchConcurrency int
	batchFormat      string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Assess every applicant with the same essay and print a report",
	Long: `Assess every applicant in the dataset against one essay. Assessments run in parallel
(bounded by --concurrency); rows keep dataset order. A failed assessment is reported in its
row and does not stop the others.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	switch batchFormat {
	case "table", "json":
	default:
		return fmt.Errorf("unsupported format %q (want table or json)", batchFormat)
	}

	ctx, cancel := signalContext()
	defer cancel()

	deps, err := bootstrap(ctx)
	if err != nil {
		log.Error("startup failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	defer deps.Close()

	records := deps.snapshot.Records()
	inputs := make([]assessment.Input, len(records))
	for i, rec := range records {
		inputs[i] = assessment.Input{Applicant: rec, Essay: batchEssay}
	}

	items := deps.assessor.AssessBatch(ctx, inputs, batchConcurrency)

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}
	log.Info("batch finished", map[string]interface{}{
		"applicants": len(items),
		"failed":     failed,
	})

	out := cmd.OutOrStdout()
	if batchFormat == "json" {
		return writeBatchJSON(out, items)
	}
	return writeBatchTable(out, items)
}

func writeBatchTable(w io.Writer, items []assessment.BatchItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCREDIT SCORE\tFINANCIAL\tBEHAVIORAL\tFUSION\tRECOMMENDATION\tNOTE")
	for _, item := range items {
		rec := item.Input.Applicant
		if item.Err != nil {
			fmt.Fprintf(tw, "%s\t%d\t%.1f\t-\t-\t-\t%s\n",
				rec.Name, rec.CreditScore, assessment.ComputeHardRisk(rec.CreditScore), item.Err.Error())
			continue
		}
		r := item.Result
		note := ""
		if r.ParseOutcome == assessment.OutcomeFallback {
			note = "fallback score"
		}
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.0f\t%.0f\t%s\t%s\n",
			rec.Name, rec.CreditScore, r.HardRiskScore, r.SoftRiskScore, r.FinalScore, r.Recommendation.Verdict(), note)
	}
	return tw.Flush()
}

type batchRow struct {
	Applicant string             `json:"applicant"`
	Result    *assessment.Result `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
}

func writeBatchJSON(w io.Writer, items []assessment.BatchItem) error {
	rows := make([]batchRow, len(items))
	for i, item := range items {
		rows[i] = batchRow{Applicant: item.Input.Applicant.Name, Result: item.Result}
		if item.Err != nil {
			rows[i].Error = item.Err.Error()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
