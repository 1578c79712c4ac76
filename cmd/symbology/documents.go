package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	documentsDocType string
	documentsLimit   int
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Document lookup commands",
}

var documentsListCmd = &cobra.Command{
	Use:   "list TICKER",
	Short: "List documents for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		company, err := requireCompany(ctx, args[0])
		if err != nil {
			return err
		}

		docs, err := current.deps.Documents.ListByCompany(ctx, company.ID, documentsDocType, documentsLimit)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}

		return render(docs, func() {
			rows := make([][]string, 0, len(docs))
			for _, d := range docs {
				rows = append(rows, []string{string(d.DocumentType), d.ContentHash[:12], d.FilingID})
			}
			printTable([]string{"DOCUMENT_TYPE", "HASH_PREFIX", "FILING_ID"}, rows)
		})
	},
}

var documentsGetCmd = &cobra.Command{
	Use:   "get ID_OR_HASH_PREFIX",
	Short: "Get a document by id or content-hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ref := args[0]

		doc, err := current.deps.Documents.Get(ctx, ref)
		if err != nil {
			doc, err = current.deps.Documents.ByHashPrefix(ctx, ref)
			if err != nil {
				return fmt.Errorf("document %q: %w", ref, err)
			}
		}

		return render(doc, func() {
			printTable(
				[]string{"FIELD", "VALUE"},
				[][]string{
					{"id", doc.ID},
					{"document_type", string(doc.DocumentType)},
					{"content_hash", doc.ContentHash},
					{"content_preview", preview(doc.Content, 200)},
				},
			)
		})
	},
}

// preview truncates s to at most n runes, appending "..." when truncated.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

func init() {
	documentsListCmd.Flags().StringVar(&documentsDocType, "document-type", "", "filter by document type")
	documentsListCmd.Flags().IntVar(&documentsLimit, "limit", 20, "maximum number of documents to show")
	documentsCmd.AddCommand(documentsListCmd, documentsGetCmd)
}
