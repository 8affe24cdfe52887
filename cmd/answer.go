package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/abhisek/quantprep/internal/catalog"
	"github.com/abhisek/quantprep/internal/scoring"
	"github.com/abhisek/quantprep/internal/session"
	"github.com/abhisek/quantprep/internal/ui/theme"
	"github.com/spf13/cobra"
)

var answerCmd = &cobra.Command{
	Use:   "answer <question-id> [answer...]",
	Short: "Record an answer for a question of the active test",
	Long: "Record an answer for a question of the active test.\n\n" +
		"Choices may be given by letter (A, B, ...) or by their text. For multiple\n" +
		"answer questions separate choices with commas or spaces. Omit the answer\n" +
		"to clear a previous one.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid question id %q", args[0])
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		q, err := rt.svc.Catalog().Get(id)
		if err != nil {
			return fmt.Errorf("question %d: %w", id, err)
		}
		answer, err := parseAnswer(q, args[1:])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		err = rt.svc.SubmitAnswer(cmd.Context(), rt.user(), id, answer)
		switch {
		case errors.Is(err, session.ErrNoActiveSession):
			return fmt.Errorf("%w: start one with `quantprep start quick`", err)
		case errors.Is(err, session.ErrTimeExpired):
			return fmt.Errorf("%w: run `quantprep submit` to grade your test", err)
		case err != nil:
			return err
		}

		ts, err := rt.svc.Active(cmd.Context(), rt.user())
		if err != nil {
			return err
		}
		label := fmt.Sprintf("Q%d #%d", ts.Position(id), id)

		if answer.IsEmpty() {
			fmt.Fprintf(out, "Cleared answer for %s. %d of %d answered.\n", label, ts.AnsweredCount(), len(ts.QuestionIDs))
			return nil
		}
		lipgloss.Fprintln(out, theme.Correct.Render("Saved")+fmt.Sprintf(" %s: %s  (%d of %d answered)",
			label, scoring.FormatAnswer(answer), ts.AnsweredCount(), len(ts.QuestionIDs)))
		return nil
	},
}

// parseAnswer turns command-line words into an answer for q. Single letters
// select options by position unless they match an option's text exactly.
func parseAnswer(q catalog.Question, words []string) (scoring.Answer, error) {
	raw := strings.TrimSpace(strings.Join(words, " "))
	if raw == "" {
		return scoring.Answer{}, nil
	}

	switch q.Type {
	case catalog.TypeMultipleChoice, catalog.TypeComparison:
		return scoring.Text(resolveChoice(q.Options, raw)), nil

	case catalog.TypeMultipleAnswer:
		var picks []string
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			// "A C" or "A,C" both select by letter.
			if fields := strings.Fields(part); len(fields) > 1 && allLetters(q.Options, fields) {
				for _, f := range fields {
					picks = append(picks, resolveChoice(q.Options, f))
				}
				continue
			}
			picks = append(picks, resolveChoice(q.Options, part))
		}
		return scoring.MultiText(picks...), nil

	case catalog.TypeNumeric:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return scoring.Answer{}, fmt.Errorf("numeric entry needs a number, got %q", raw)
		}
		return scoring.Text(raw), nil
	}
	return scoring.Text(raw), nil
}

// resolveChoice maps a letter to its option text. Anything else is
// returned as typed.
func resolveChoice(options []string, s string) string {
	for _, opt := range options {
		if opt == s {
			return s
		}
	}
	if i, ok := letterIndex(options, s); ok {
		return options[i]
	}
	return s
}

func letterIndex(options []string, s string) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	i := int(c) - 'A'
	return i, i >= 0 && i < len(options)
}

func allLetters(options []string, fields []string) bool {
	for _, f := range fields {
		if _, ok := letterIndex(options, f); !ok {
			return false
		}
	}
	return true
}
