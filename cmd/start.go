package cmd

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/quantprep/internal/scoring"
	"github.com/abhisek/quantprep/internal/session"
	"github.com/abhisek/quantprep/internal/ui/theme"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <format>",
	Short: "Start a timed practice test (quick, standard or full)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

		res, err := rt.svc.Start(cmd.Context(), rt.user(), args[0])
		var perr *session.PersistenceError
		switch {
		case errors.Is(err, session.ErrInvalidFormat):
			return fmt.Errorf("%w (choose one of: %s)", err, formatKeys(rt.svc.Formats()))
		case errors.As(err, &perr):
			warn(errOut, "progress may not have been saved: %v", perr)
		case err != nil:
			return fmt.Errorf("start test: %w", err)
		}

		if res.Exhausted {
			if res.Available == 0 {
				warn(errOut, "No new questions left! Including repeats.")
			} else {
				warn(errOut, "Only %d new questions left. Including some repeats.", res.Available)
			}
		}

		ts := res.Session
		lipgloss.Fprintln(out, theme.Title.Render(fmt.Sprintf("%s test started: %d questions, %s on the clock",
			ts.Format, len(ts.QuestionIDs), clock(ts.TimeLimit))))
		fmt.Fprintln(out)

		cat := rt.svc.Catalog()
		for i, id := range ts.QuestionIDs {
			q, err := cat.Get(id)
			if err != nil {
				return fmt.Errorf("question %d: %w", id, err)
			}
			printQuestion(out, i+1, q, scoring.Answer{})
		}

		lipgloss.Fprintln(out, theme.Hint.Render("Answer with `quantprep answer <question-id> <answer>`, then `quantprep submit`."))
		return nil
	},
}

func formatKeys(formats map[string]session.Format) string {
	var keys []string
	for _, f := range session.SortedFormats(formats) {
		keys = append(keys, f.Key)
	}
	return strings.Join(keys, ", ")
}
