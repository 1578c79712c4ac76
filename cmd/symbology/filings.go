package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	filingsIncludeDocuments bool
	filingsForm             string
)

var filingsCmd = &cobra.Command{
	Use:   "filings",
	Short: "Filing management commands",
}

var filingsIngestCmd = &cobra.Command{
	Use:   "ingest TICKER [FORM] [COUNT]",
	Short: "Ingest SEC filings for a company",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ticker := strings.ToUpper(args[0])
		form := "10-K"
		if len(args) > 1 {
			form = args[1]
		}
		count := 5
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid count %q: %w", args[2], err)
			}
			count = n
		}

		company, err := requireCompany(ctx, ticker)
		if err != nil {
			return err
		}

		result, err := current.deps.FilingIngestion(ctx, map[string]any{
			"ticker":            ticker,
			"form":              form,
			"count":             count,
			"include_documents": filingsIncludeDocuments,
		})
		if err != nil {
			return fmt.Errorf("filing ingestion: %w", err)
		}

		return render(result, func() {
			fmt.Printf("ingested filings for %s (%s): %v\n", ticker, company.Name, result["filing_ids"])
		})
	},
}

var filingsListCmd = &cobra.Command{
	Use:   "list TICKER",
	Short: "List filings for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		company, err := requireCompany(ctx, args[0])
		if err != nil {
			return err
		}

		filings, err := current.deps.Filings.ListByCompany(ctx, company.ID, filingsForm, 0)
		if err != nil {
			return fmt.Errorf("list filings: %w", err)
		}

		return render(filings, func() {
			rows := make([][]string, 0, len(filings))
			for _, f := range filings {
				rows = append(rows, []string{f.Form, f.FilingDate.Format("2006-01-02"), f.AccessionNumber})
			}
			printTable([]string{"FORM", "FILING_DATE", "ACCESSION_NUMBER"}, rows)
		})
	},
}

var filingsGetCmd = &cobra.Command{
	Use:   "get ACCESSION_NUMBER",
	Short: "Get detailed information about a specific filing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := current.deps.Filings.GetByAccessionNumber(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("filing %q: %w", args[0], err)
		}
		return render(f, func() {
			period := "unknown"
			if f.PeriodOfReport != nil {
				period = f.PeriodOfReport.Format("2006-01-02")
			}
			printTable(
				[]string{"FIELD", "VALUE"},
				[][]string{
					{"id", f.ID},
					{"accession_number", f.AccessionNumber},
					{"form", f.Form},
					{"filing_date", f.FilingDate.Format("2006-01-02")},
					{"period_of_report", period},
				},
			)
		})
	},
}

func init() {
	filingsIngestCmd.Flags().BoolVar(&filingsIncludeDocuments, "include-documents", true, "also ingest filing documents (financial values are always ingested)")
	filingsListCmd.Flags().StringVar(&filingsForm, "form", "", "filter by form type")
	filingsCmd.AddCommand(filingsIngestCmd, filingsListCmd, filingsGetCmd)
}
