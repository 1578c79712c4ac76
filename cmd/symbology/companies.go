package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Company management commands",
}

var companiesIngestCmd = &cobra.Command{
	Use:   "ingest TICKER",
	Short: "Ingest basic company information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ticker := strings.ToUpper(args[0])

		info, err := current.deps.Source.FetchCompany(ctx, ticker)
		if err != nil {
			return fmt.Errorf("fetch company: %w", err)
		}
		company, err := current.deps.Companies.Upsert(ctx, info)
		if err != nil {
			return fmt.Errorf("upsert company: %w", err)
		}

		return render(company, func() {
			fmt.Printf("ingested %s (%s), id=%s\n", company.Name, company.Ticker, company.ID)
		})
	},
}

var companiesGetCmd = &cobra.Command{
	Use:   "get TICKER",
	Short: "Get company information by ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		company, err := requireCompany(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(company, func() {
			industry := "unknown"
			if company.IndustryCode != nil {
				industry = *company.IndustryCode
			}
			printTable(
				[]string{"FIELD", "VALUE"},
				[][]string{
					{"id", company.ID},
					{"ticker", company.Ticker},
					{"name", company.Name},
					{"industry_code", industry},
					{"exchanges", strings.Join(company.Exchanges, ",")},
				},
			)
		})
	},
}

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		companies, err := current.deps.Companies.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list companies: %w", err)
		}
		return render(companies, func() {
			rows := make([][]string, 0, len(companies))
			for _, c := range companies {
				rows = append(rows, []string{c.Ticker, c.Name, c.ID})
			}
			printTable([]string{"TICKER", "NAME", "ID"}, rows)
		})
	},
}

func init() {
	companiesCmd.AddCommand(companiesIngestCmd, companiesGetCmd, companiesListCmd)
}
