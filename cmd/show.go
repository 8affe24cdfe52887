package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/quantprep/internal/session"
	"github.com/abhisek/quantprep/internal/ui/theme"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [n]",
	Short: "Show the questions of the active test, or only question n",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()

		ts, err := rt.svc.Active(cmd.Context(), rt.user())
		if errors.Is(err, session.ErrNoActiveSession) {
			fmt.Fprintln(out, "No active test. Start one with `quantprep start quick`.")
			return nil
		}
		if err != nil {
			return err
		}

		from, to := 1, len(ts.QuestionIDs)
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 || n > len(ts.QuestionIDs) {
				return fmt.Errorf("question number must be between 1 and %d", len(ts.QuestionIDs))
			}
			from, to = n, n
		}

		cat := rt.svc.Catalog()
		for pos := from; pos <= to; pos++ {
			id := ts.QuestionIDs[pos-1]
			q, err := cat.Get(id)
			if err != nil {
				lipgloss.Fprintln(out, theme.Incorrect.Render(fmt.Sprintf("Q%d  #%d  no longer in the catalog", pos, id)))
				fmt.Fprintln(out)
				continue
			}
			answer, _ := ts.Answer(id)
			printQuestion(out, pos, q, answer)
		}

		remaining, err := rt.svc.Remaining(cmd.Context(), rt.user())
		if err != nil {
			return err
		}
		lipgloss.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("%d of %d answered, %s left",
			ts.AnsweredCount(), len(ts.QuestionIDs), clock(remaining))))
		return nil
	},
}
