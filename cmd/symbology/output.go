package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
)

// printTable renders rows under header as tab-aligned columns, grounded on
// the retrieval pack's tabwriter-based CLI output convention.
func printTable(header []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render writes v as JSON when --output json is set, otherwise calls
// table to print a human-readable view.
func render(v any, table func()) error {
	if outputJSON() {
		return printJSON(v)
	}
	table()
	return nil
}
