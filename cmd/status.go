package cmd

import (
	"errors"
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/quantprep/internal/session"
	"github.com/abhisek/quantprep/internal/ui/theme"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show time remaining and answered count for the active test",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()

		ts, err := rt.svc.Active(cmd.Context(), rt.user())
		if errors.Is(err, session.ErrNoActiveSession) {
			fmt.Fprintln(out, "No active test.")
			return nil
		}
		if err != nil {
			return err
		}
		remaining, err := rt.svc.Remaining(cmd.Context(), rt.user())
		if err != nil {
			return err
		}

		lipgloss.Fprintln(out, theme.Label.Render("Test:     ")+" "+ts.Format+" ("+ts.ID+")")
		lipgloss.Fprintln(out, theme.Label.Render("Answered: ")+" "+fmt.Sprintf("%d of %d", ts.AnsweredCount(), len(ts.QuestionIDs)))
		if remaining == 0 {
			lipgloss.Fprintln(out, theme.Label.Render("Time left:")+" "+theme.Incorrect.Render("time is up"))
			lipgloss.Fprintln(out, theme.Hint.Render("Run `quantprep submit` to grade your test."))
			return nil
		}
		lipgloss.Fprintln(out, theme.Label.Render("Time left:")+" "+clock(remaining))
		return nil
	},
}
