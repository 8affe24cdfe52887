package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/quantprep/internal/store"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the test activity log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		all, _ := cmd.Flags().GetBool("all")
		user := cfg.UserID
		if all {
			user = ""
		}

		opts := store.QueryOpts{Limit: limit}
		if v, _ := cmd.Flags().GetString("since"); v != "" {
			if opts.From, err = parseDay(v, false); err != nil {
				return fmt.Errorf("--since: %w", err)
			}
		}
		if v, _ := cmd.Flags().GetString("until"); v != "" {
			if opts.To, err = parseDay(v, true); err != nil {
				return fmt.Errorf("--until: %w", err)
			}
		}

		events, err := st.EventRepo().QuerySessionEvents(cmd.Context(), user, opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No events found.")
			return nil
		}

		// Header.
		fmt.Fprintf(out, "%5s  %-16s  %-12s  %-7s  %-9s  %-8s  %s\n",
			"Seq", "Time", "User", "Action", "Format", "Score", "Test")
		fmt.Fprintln(out, strings.Repeat("\u2500", 100))

		for _, e := range events {
			var score string
			switch e.Action {
			case store.ActionSubmit:
				score = fmt.Sprintf("%d/%d", e.CorrectAnswers, e.QuestionsServed)
			case store.ActionStart:
				score = fmt.Sprintf("%d q", e.QuestionsServed)
			}
			fmt.Fprintf(out, "%5d  %-16s  %-12s  %-7s  %-9s  %-8s  %s\n",
				e.Sequence, e.Timestamp.Local().Format("2006-01-02 15:04"), truncate(e.UserID, 12),
				e.Action, e.Format, score, e.SessionID)
		}
		return nil
	},
}

// parseDay accepts RFC 3339 or a local YYYY-MM-DD date. A bare date used as
// an upper bound covers the whole day.
func parseDay(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD or RFC 3339, got %q", s)
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return d, nil
}

func init() {
	logCmd.Flags().Int("limit", 20, "Maximum number of events to show (0 for all)")
	logCmd.Flags().Bool("all", false, "Show events for every learner")
	logCmd.Flags().String("since", "", "Only events on or after this date (YYYY-MM-DD or RFC 3339)")
	logCmd.Flags().String("until", "", "Only events on or before this date (YYYY-MM-DD or RFC 3339)")
}
