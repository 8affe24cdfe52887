package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/quantprep/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the question catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all questions (optionally filtered by type)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		questions := cat.All()
		if typ, _ := cmd.Flags().GetString("type"); typ != "" {
			t, ok := catalog.ParseType(typ)
			if !ok {
				return fmt.Errorf("unknown question type %q (use mc, ma, qc or numeric)", typ)
			}
			questions = cat.ByType(t)
		}
		if len(questions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No questions found.")
			return nil
		}

		out := cmd.OutOrStdout()

		// Header.
		fmt.Fprintf(out, "%5s  %-24s  %-6s  %s\n", "ID", "Type", "Level", "Prompt")
		fmt.Fprintln(out, strings.Repeat("\u2500", 100))

		for _, q := range questions {
			fmt.Fprintf(out, "%5d  %-24s  %-6s  %s\n",
				q.ID, catalog.TypeDisplayName(q.Type), q.Difficulty, truncate(q.Prompt, 60))
		}

		fmt.Fprintf(out, "\n%d questions\n", len(questions))
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a catalog file against the question schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path = cfg.CatalogPath
		}

		cat, err := catalog.Load(path)
		if err != nil {
			return fmt.Errorf("invalid catalog: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d questions, ids up to %d\n", path, cat.Len(), cat.MaxID())
		counts := cat.CountByType()
		for _, t := range catalog.AllTypes() {
			fmt.Fprintf(out, "  %-24s  %4d\n", catalog.TypeDisplayName(t), counts[t])
		}
		if missing := len(catalog.AllTypes()) - len(cat.Types()); missing > 0 {
			warn(cmd.ErrOrStderr(), "%d question type(s) have no questions; tests will be backfilled from other types", missing)
		}
		return nil
	},
}

func init() {
	catalogListCmd.Flags().String("type", "", "Filter by question type (mc, ma, qc, numeric)")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}
