package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/quantprep/internal/catalog"
	"github.com/abhisek/quantprep/internal/scoring"
	"github.com/abhisek/quantprep/internal/session"
	"github.com/abhisek/quantprep/internal/ui/theme"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Grade the active test and record it in your history",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()

		res, err := rt.svc.Submit(cmd.Context(), rt.user())
		var perr *session.PersistenceError
		switch {
		case errors.Is(err, session.ErrNoActiveSession):
			fmt.Fprintln(out, "Nothing to submit.")
			return nil
		case errors.As(err, &perr):
			warn(cmd.ErrOrStderr(), "progress may not have been saved: %v", perr)
		case err != nil:
			return fmt.Errorf("submit test: %w", err)
		}

		printResult(out, res)
		return nil
	},
}

func printResult(w io.Writer, res *session.Result) {
	score := fmt.Sprintf("%d/%d correct (%.1f%%)", res.Correct, res.Total, res.Accuracy)
	lipgloss.Fprintln(w, theme.Title.Render(res.Format+" test complete"))
	lipgloss.Fprintln(w, theme.Score(res.Accuracy).Render(score)+theme.Subtitle.Render("  in "+clock(res.Elapsed)))

	if len(res.Details) == 0 {
		return
	}

	t := newTable("#", "ID", "Type", "Your answer", "Correct answer", "")
	for _, d := range res.Details {
		typ, correct := "?", "(missing)"
		if !d.Missing {
			typ = catalog.TypeDisplayName(d.Question.Type)
			correct = scoring.FormatCorrect(d.Question)
		}
		t.Row(
			strconv.Itoa(d.Position),
			strconv.Itoa(d.Question.ID),
			typ,
			truncate(scoring.FormatAnswer(d.Answer), 30),
			truncate(correct, 30),
			theme.Mark(d.Correct),
		)
	}
	lipgloss.Fprintln(w, t.Render())
}
