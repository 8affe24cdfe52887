package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quantprep/internal/scoring"
)

// SessionRepo keeps at most one in-progress test per learner.
type SessionRepo struct {
	db *sql.DB
}

// LoadActive returns the learner's test in progress, or nil if there is none.
func (r *SessionRepo) LoadActive(ctx context.Context, userID string) (*ActiveSession, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(activeTable)
	query, args := b.Select(
		t.C("session_id"), t.C("format"), t.C("question_ids"),
		t.C("answers"), t.C("start_time"), t.C("time_limit_secs"),
	).
		From(t).
		Where(entsql.EQ(t.C("user_id"), userID)).
		Query()

	a := ActiveSession{UserID: userID}
	var idsJSON, answersJSON string
	var limitSecs int64
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&a.ID, &a.Format, &idsJSON, &answersJSON, &a.StartTime, &limitSecs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query active session: %w", err)
	}

	if err := json.Unmarshal([]byte(idsJSON), &a.QuestionIDs); err != nil {
		return nil, fmt.Errorf("decode question ids: %w", err)
	}
	a.Answers = make(map[string]scoring.Answer)
	if answersJSON != "" {
		if err := json.Unmarshal([]byte(answersJSON), &a.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
	}
	a.TimeLimit = time.Duration(limitSecs) * time.Second
	return &a, nil
}

// SaveActive stores s as the learner's test in progress, replacing any
// earlier one.
func (r *SessionRepo) SaveActive(ctx context.Context, s *ActiveSession) error {
	ids := s.QuestionIDs
	if ids == nil {
		ids = []int{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal question ids: %w", err)
	}
	answers := s.Answers
	if answers == nil {
		answers = map[string]scoring.Answer{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(activeTable).
		Columns("user_id", "session_id", "format", "question_ids", "answers", "start_time", "time_limit_secs").
		Values(s.UserID, s.ID, s.Format, string(idsJSON), string(answersJSON), s.StartTime.UTC(), int64(s.TimeLimit/time.Second)).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save active session: %w", err)
	}
	return nil
}

// DeleteActive removes the learner's test in progress, if any.
func (r *SessionRepo) DeleteActive(ctx context.Context, userID string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(activeTable).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete active session: %w", err)
	}
	return nil
}
