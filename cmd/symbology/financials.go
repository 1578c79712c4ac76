package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var financialsLimit int

var financialsCmd = &cobra.Command{
	Use:   "financials",
	Short: "Financial concept and value commands",
}

var financialsListConceptsCmd = &cobra.Command{
	Use:   "list-concepts",
	Short: "List every registered financial concept",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		concepts, err := current.deps.Financials.ListConcepts(cmd.Context())
		if err != nil {
			return fmt.Errorf("list concepts: %w", err)
		}
		return render(concepts, func() {
			rows := make([][]string, 0, len(concepts))
			for _, c := range concepts {
				rows = append(rows, []string{c.Name, fmt.Sprint(c.Labels)})
			}
			printTable([]string{"NAME", "LABELS"}, rows)
		})
	},
}

var financialsGetConceptCmd = &cobra.Command{
	Use:   "get-concept NAME",
	Short: "Get a financial concept by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := current.deps.Financials.GetConcept(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("concept %q: %w", args[0], err)
		}
		description := "unknown"
		if c.Description != nil {
			description = *c.Description
		}
		return render(c, func() {
			printTable(
				[]string{"FIELD", "VALUE"},
				[][]string{
					{"id", c.ID},
					{"name", c.Name},
					{"description", description},
					{"labels", fmt.Sprint(c.Labels)},
				},
			)
		})
	},
}

var financialsListValuesCmd = &cobra.Command{
	Use:   "list-values TICKER [CONCEPT]",
	Short: "List financial values for a company, optionally filtered by concept",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		company, err := requireCompany(ctx, args[0])
		if err != nil {
			return err
		}
		concept := ""
		if len(args) > 1 {
			concept = args[1]
		}

		values, err := current.deps.Financials.ListValues(ctx, company.ID, concept, financialsLimit)
		if err != nil {
			return fmt.Errorf("list values: %w", err)
		}

		return render(values, func() {
			rows := make([][]string, 0, len(values))
			for _, v := range values {
				rows = append(rows, []string{v.ValueDate.Format("2006-01-02"), v.Value.String(), v.ConceptID})
			}
			printTable([]string{"VALUE_DATE", "VALUE", "CONCEPT_ID"}, rows)
		})
	},
}

func init() {
	financialsListValuesCmd.Flags().IntVar(&financialsLimit, "limit", 50, "maximum number of values to show")
	financialsCmd.AddCommand(financialsListConceptsCmd, financialsGetConceptCmd, financialsListValuesCmd)
}
