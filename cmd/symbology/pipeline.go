package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sf1tzp/symbology/pkg/handlers"
	"github.com/sf1tzp/symbology/pkg/queue"
)

var (
	pipelineForce  bool
	pipelineForms  []string
	pipelineGroup  string
	pipelineMaxPer int
	workerPodID    string
)

// pipelineCmd groups the durable job types that drive multi-stage content
// generation (FULL_PIPELINE, INGEST_PIPELINE, COMPANY_GROUP_PIPELINE,
// BULK_INGEST): not part of the entity-CRUD subcommand surface, but the
// only way to exercise the pipeline stages and worker registry end to end.
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Pipeline trigger commands",
}

var pipelineIngestCmd = &cobra.Command{
	Use:   "ingest TICKER",
	Short: "Run COMPANY_INGESTION then FILING_INGESTION for each form in-process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := strings.ToUpper(args[0])
		result, err := current.deps.IngestPipeline(cmd.Context(), map[string]any{
			"ticker": ticker,
			"forms":  pipelineForms,
		})
		if err != nil {
			return fmt.Errorf("ingest pipeline: %w", err)
		}
		return render(result, func() { printJSONFallback(result) })
	},
}

var pipelineFullCmd = &cobra.Command{
	Use:   "full TICKER",
	Short: "Run the full ingest + three-stage content-generation pipeline for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := strings.ToUpper(args[0])
		result, err := current.deps.FullPipeline(cmd.Context(), map[string]any{
			"ticker": ticker,
			"forms":  pipelineForms,
			"force":  pipelineForce,
		})
		if err != nil {
			return fmt.Errorf("full pipeline: %w", err)
		}
		return render(result, func() { printJSONFallback(result) })
	},
}

var pipelineGroupCmd = &cobra.Command{
	Use:   "group TICKER...",
	Short: "Run COMPANY_GROUP_PIPELINE across the given tickers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tickers := make([]string, len(args))
		for i, t := range args {
			tickers[i] = strings.ToUpper(t)
		}
		params := map[string]any{
			"tickers":        tickers,
			"max_per_ticker": pipelineMaxPer,
		}
		if pipelineGroup != "" {
			params["group_slug"] = pipelineGroup
		}
		result, err := current.deps.CompanyGroupPipeline(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("company group pipeline: %w", err)
		}
		return render(result, func() { printJSONFallback(result) })
	},
}

var pipelineBulkIngestCmd = &cobra.Command{
	Use:   "bulk-ingest FILINGS_JSON_FILE",
	Short: "Run BULK_INGEST from a JSON file of {ticker,cik,company_name,accession_number,form} entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %q: %w", args[0], err)
		}
		var filings []any
		if err := json.Unmarshal(body, &filings); err != nil {
			return fmt.Errorf("parse %q: %w", args[0], err)
		}
		result, err := current.deps.BulkIngest(cmd.Context(), map[string]any{"filings": filings})
		if err != nil {
			return fmt.Errorf("bulk ingest: %w", err)
		}
		return render(result, func() { printJSONFallback(result) })
	},
}

// workerCmd starts the durable job worker pool, processing pending Job rows
// already in the queue until interrupted. The CLI has no command that
// enqueues jobs.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the job worker pool and block until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store := queue.NewStore(current.deps.Client)
		registry := handlers.NewRegistry(current.deps)
		pool := queue.NewWorkerPool(workerPodID, store, current.cfg.Queue, registry)
		pool.Start(ctx)
		<-ctx.Done()
		pool.Stop()
		return nil
	},
}

func init() {
	pipelineFullCmd.Flags().StringSliceVar(&pipelineForms, "forms", []string{"10-K", "10-Q"}, "forms to process")
	pipelineFullCmd.Flags().BoolVar(&pipelineForce, "force", false, "disable stage-level dedup shortcuts")
	pipelineIngestCmd.Flags().StringSliceVar(&pipelineForms, "forms", []string{"10-K", "10-Q"}, "forms to ingest")
	pipelineGroupCmd.Flags().StringVar(&pipelineGroup, "group-slug", "", "persist results under this CompanyGroup slug")
	pipelineGroupCmd.Flags().IntVar(&pipelineMaxPer, "max-per-ticker", 3, "max aggregate summaries to gather per ticker")
	workerCmd.Flags().StringVar(&workerPodID, "pod-id", "cli-worker", "unique id for this worker process")

	pipelineCmd.AddCommand(pipelineIngestCmd, pipelineFullCmd, pipelineGroupCmd, pipelineBulkIngestCmd)
}

// printJSONFallback prints a result map as a simple key: value table, used
// by pipeline commands whose result shape is too irregular for a fixed set
// of table columns.
func printJSONFallback(result map[string]any) {
	for k, v := range result {
		fmt.Printf("%s: %v\n", k, v)
	}
}
