package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// EventRepo appends and queries session events.
type EventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// AppendSessionEvent records a test lifecycle event under the next global
// sequence number.
func (r *EventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(eventsTable).
		Columns(
			"sequence", "timestamp", "session_id", "user_id", "action", "format",
			"questions_served", "correct_answers", "accuracy", "duration_secs",
		).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.UserID, data.Action, data.Format,
			data.QuestionsServed, data.CorrectAnswers, data.Accuracy, data.DurationSecs,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

// QuerySessionEvents returns a learner's session events, newest first.
// An empty userID matches every learner.
func (r *EventRepo) QuerySessionEvents(ctx context.Context, userID string, opts QueryOpts) ([]SessionEvent, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(eventsTable)
	sel := b.Select(
		t.C("id"), t.C("sequence"), t.C("timestamp"), t.C("session_id"), t.C("user_id"),
		t.C("action"), t.C("format"), t.C("questions_served"), t.C("correct_answers"),
		t.C("accuracy"), t.C("duration_secs"),
	).From(t)

	var preds []*entsql.Predicate
	if userID != "" {
		preds = append(preds, entsql.EQ(t.C("user_id"), userID))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(t.C("sequence"), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C("timestamp"), opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C("timestamp"), opts.To.UTC()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc(t.C("sequence")))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var events []SessionEvent
	for rows.Next() {
		var e SessionEvent
		if err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.UserID,
			&e.Action, &e.Format, &e.QuestionsServed, &e.CorrectAnswers,
			&e.Accuracy, &e.DurationSecs,
		); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session events: %w", err)
	}
	return events, nil
}
