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

	"github.com/abhisek/quantprep/internal/progress"
)

// ProgressRepo stores each learner's attempted set, as a bitmap, and test
// history, as JSON.
type ProgressRepo struct {
	db *sql.DB
}

// Load returns the learner's attempted set and history. Unknown learners
// get an empty set and no history.
func (r *ProgressRepo) Load(ctx context.Context, userID string) (progress.AttemptedSet, progress.History, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(progressTable)
	query, args := b.Select(t.C("attempted_bitmap"), t.C("history")).
		From(t).
		Where(entsql.EQ(t.C("user_id"), userID)).
		Query()

	var bitmap, historyJSON string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&bitmap, &historyJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.AttemptedSet{}, nil, nil
	}
	if err != nil {
		return progress.AttemptedSet{}, nil, fmt.Errorf("query progress: %w", err)
	}

	attempted, err := progress.DecodeBitmap(bitmap)
	if err != nil {
		return progress.AttemptedSet{}, nil, fmt.Errorf("decode attempted questions: %w", err)
	}
	var history progress.History
	if historyJSON != "" {
		if err := json.Unmarshal([]byte(historyJSON), &history); err != nil {
			return progress.AttemptedSet{}, nil, fmt.Errorf("decode history: %w", err)
		}
	}
	return attempted, history, nil
}

// Save replaces the learner's attempted set and history.
func (r *ProgressRepo) Save(ctx context.Context, userID string, attempted progress.AttemptedSet, history progress.History) error {
	if history == nil {
		history = progress.History{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(progressTable).
		Columns("user_id", "attempted_bitmap", "history", "updated_at").
		Values(userID, attempted.EncodeBitmap(0), string(historyJSON), time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
