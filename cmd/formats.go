package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/quantprep/internal/session"
	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the available test formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%-10s  %9s  %s\n", "Format", "Questions", "Time limit")
		fmt.Fprintln(out, strings.Repeat("\u2500", 34))
		for _, f := range session.SortedFormats(session.DefaultFormats) {
			fmt.Fprintf(out, "%-10s  %9d  %s\n", f.Key, f.Questions, clock(f.TimeLimit))
		}
		return nil
	},
}
