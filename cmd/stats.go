package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/quantprep/internal/ui/theme"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your practice statistics",
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
		if p.TestsTaken == 0 && p.QuestionsAttempted == 0 {
			fmt.Fprintln(out, "No tests taken yet.")
			return nil
		}

		avg := fmt.Sprintf("%.1f%%", p.AverageAccuracy)
		rows := [][2]string{
			{"Tests taken", fmt.Sprint(p.TestsTaken)},
			{"Average accuracy", theme.Score(p.AverageAccuracy).Render(avg)},
			{"Questions correct", fmt.Sprintf("%d of %d", p.TotalCorrect, p.TotalQuestions)},
			{"Questions seen", fmt.Sprintf("%d of %d", p.QuestionsAttempted, p.TotalAvailable)},
		}
		lines := make([]string, len(rows))
		for i, r := range rows {
			lines[i] = theme.Label.Render(fmt.Sprintf("%-18s", r[0])) + " " + r[1]
		}

		lipgloss.Fprintln(out, theme.Title.Render("Progress for "+rt.user()))
		lipgloss.Fprintln(out, theme.Card.Render(strings.Join(lines, "\n")))
		return nil
	},
}
