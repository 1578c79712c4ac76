package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/prompt"
)

var promptsRole string

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Prompt artifact commands",
}

var promptsCreateCmd = &cobra.Command{
	Use:   "create NAME CONTENT_FILE",
	Short: "Create a prompt from a file's contents",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %q: %w", path, err)
		}

		p, created, err := current.deps.Prompts.Create(cmd.Context(), name, prompt.Role(promptsRole), "", string(body))
		if err != nil {
			return fmt.Errorf("create prompt: %w", err)
		}

		return render(p, func() {
			verb := "reused existing"
			if created {
				verb = "created"
			}
			fmt.Printf("%s prompt %s (%s), hash=%s\n", verb, p.Name, p.ID, p.ContentHash[:12])
		})
	},
}

var promptsGetCmd = &cobra.Command{
	Use:   "get ID_OR_HASH_PREFIX",
	Short: "Get a prompt by id or content-hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ref := args[0]

		var p *ent.Prompt
		var err error
		if p, err = current.deps.Client.Prompt.Get(ctx, ref); err != nil {
			p, err = current.deps.Prompts.ByHashPrefix(ctx, ref)
			if err != nil {
				return fmt.Errorf("prompt %q: %w", ref, err)
			}
		}

		return render(p, func() {
			description := "unknown"
			if p.Description != nil {
				description = *p.Description
			}
			printTable(
				[]string{"FIELD", "VALUE"},
				[][]string{
					{"id", p.ID},
					{"name", p.Name},
					{"role", string(p.Role)},
					{"description", description},
					{"content_hash", p.ContentHash},
					{"content_preview", preview(p.Content, 200)},
				},
			)
		})
	},
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts, err := current.deps.Client.Prompt.Query().All(cmd.Context())
		if err != nil {
			return fmt.Errorf("list prompts: %w", err)
		}
		return render(prompts, func() {
			rows := make([][]string, 0, len(prompts))
			for _, p := range prompts {
				rows = append(rows, []string{p.Name, string(p.Role), p.ContentHash[:12]})
			}
			printTable([]string{"NAME", "ROLE", "HASH_PREFIX"}, rows)
		})
	},
}

func init() {
	promptsCreateCmd.Flags().StringVar(&promptsRole, "role", "system", "prompt role: system, user, or assistant")
	promptsCmd.AddCommand(promptsCreateCmd, promptsGetCmd, promptsListCmd)
}
