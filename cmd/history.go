package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/quantprep/internal/progress"
	"github.com/abhisek/quantprep/internal/ui/theme"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: fmt.Sprintf("Show your last %d tests", progress.MaxHistory),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		p, err := rt.svc.Profile(cmd.Context(), rt.user())
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(p.History) == 0 {
			fmt.Fprintln(out, "No tests taken yet.")
			return nil
		}

		t := newTable("Date", "Format", "Score", "Accuracy")
		// Newest first.
		for i := len(p.History) - 1; i >= 0; i-- {
			e := p.History[i]
			acc := fmt.Sprintf("%.1f%%", e.Accuracy)
			t.Row(
				e.Date.Local().Format("2006-01-02 15:04"),
				e.Format,
				fmt.Sprintf("%d/%d", e.Correct, e.Total),
				theme.Score(e.Accuracy).Render(acc),
			)
		}
		lipgloss.Fprintln(out, t.Render())
		return nil
	},
}
