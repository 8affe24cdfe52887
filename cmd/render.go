package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/quantprep/internal/catalog"
	"github.com/abhisek/quantprep/internal/scoring"
	"github.com/abhisek/quantprep/internal/ui/theme"
)

// clock formats a duration as mm:ss.
func clock(d time.Duration) string {
	d = d.Truncate(time.Second)
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%02d:%02d", m, s)
}

func warn(w io.Writer, format string, args ...any) {
	lipgloss.Fprintln(w, theme.Warning.Render("warning: "+fmt.Sprintf(format, args...)))
}

// optionLetter labels the i-th option A, B, C...
func optionLetter(i int) string {
	return string(rune('A' + i))
}

// printQuestion renders one question of the active test. answer may be
// empty.
func printQuestion(w io.Writer, pos int, q catalog.Question, answer scoring.Answer) {
	head := fmt.Sprintf("Q%d  #%d  %s", pos, q.ID, catalog.TypeDisplayName(q.Type))
	lipgloss.Fprintln(w, theme.Title.Render(head))
	lipgloss.Fprintln(w, theme.Body.Render(q.Prompt))

	if q.Type == catalog.TypeComparison {
		lipgloss.Fprintln(w, theme.Label.Render("Quantity A:")+" "+q.QuantityA)
		lipgloss.Fprintln(w, theme.Label.Render("Quantity B:")+" "+q.QuantityB)
	}
	for i, opt := range q.Options {
		lipgloss.Fprintf(w, "  %s) %s\n", optionLetter(i), opt)
	}
	switch q.Type {
	case catalog.TypeMultipleAnswer:
		lipgloss.Fprintln(w, theme.Hint.Render("Select all that apply."))
	case catalog.TypeNumeric:
		lipgloss.Fprintln(w, theme.Hint.Render("Enter a number."))
	}

	if !answer.IsEmpty() {
		lipgloss.Fprintln(w, theme.Label.Render("Your answer:")+" "+scoring.FormatAnswer(answer))
	}
	fmt.Fprintln(w)
}

// newTable returns a table styled with the theme.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeader
			}
			return theme.TableCell
		})
}

// truncate shortens s to n runes.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
