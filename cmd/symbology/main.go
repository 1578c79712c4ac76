// Command symbology is the CLI and worker entry point for the SEC filing
// summarization pipeline: company/filing/document/financial/prompt
// management subcommands, pipeline triggers, and the durable job worker.
//
// # File Index
//
// Entry point & shared state:
//   - main.go       - rootCmd, global flags, app wiring (newApp, app.Close)
//   - output.go     - table/JSON rendering shared by every subcommand
//
// Subcommands:
//   - companies.go  - companies {ingest|get|list}
//   - filings.go    - filings {ingest|list|get}
//   - documents.go  - documents {list|get}
//   - financials.go - financials {list-concepts|list-values|get-concept}
//   - prompts.go    - prompts {create|get|list}
//   - pipeline.go   - pipeline {ingest|full|group|bulk-ingest}, worker
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/pkg/config"
	"github.com/sf1tzp/symbology/pkg/database"
	"github.com/sf1tzp/symbology/pkg/handlers"
	"github.com/sf1tzp/symbology/pkg/ingestion"
	"github.com/sf1tzp/symbology/pkg/llmclient"
)

var (
	outputFormat string
	envFile      string
	promptsDir   string
)

// outputJSON reports whether --output json was given.
func outputJSON() bool {
	return outputFormat == "json"
}

// app bundles the dependencies every subcommand needs, built once in
// PersistentPreRunE and torn down in PersistentPostRunE.
type app struct {
	db   *database.Client
	deps *handlers.Deps
	cfg  *config.Config
}

var current *app

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbCfg, err := database.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	db, err := database.NewClient(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	var completer llmclient.Completer
	if apiKey := os.Getenv(cfg.LLM.APIKeyEnv); apiKey != "" {
		completer = llmclient.NewAnthropicCompleter(apiKey)
	} else {
		completer = llmclient.NewStubCompleter()
	}

	deps := handlers.NewDeps(db.Client, ingestion.NewStubSource(), completer, promptsDir)

	return &app{db: db, deps: deps, cfg: cfg}, nil
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

var rootCmd = &cobra.Command{
	Use:           "symbology",
	Short:         "SEC filing ingestion, content generation, and pipeline orchestration",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current != nil {
			current.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to an optional .env file")
	rootCmd.PersistentFlags().StringVar(&promptsDir, "prompts-dir", "prompts", "directory containing {name}/prompt.md and {name}/examples/*.md")

	rootCmd.AddCommand(companiesCmd, filingsCmd, documentsCmd, financialsCmd, promptsCmd, pipelineCmd, workerCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// requireCompany resolves a ticker to a Company or returns a CLI-friendly
// error, used by every subcommand that addresses its target by ticker.
func requireCompany(ctx context.Context, ticker string) (*ent.Company, error) {
	c, err := current.deps.Companies.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("company %q: %w", ticker, err)
	}
	return c, nil
}
