package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	progressTable = "user_progress"
	activeTable   = "active_sessions"
	eventsTable   = "session_events"
	sequenceTable = "global_sequence"
)

var (
	// ProgressColumns holds one row per learner.
	ProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString, Unique: true},
		{Name: "attempted_bitmap", Type: field.TypeString},
		{Name: "history", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	ProgressTable = &schema.Table{
		Name:       progressTable,
		Columns:    ProgressColumns,
		PrimaryKey: []*schema.Column{ProgressColumns[0]},
	}

	// ActiveColumns holds the single in-progress test of a learner.
	ActiveColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString, Unique: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "format", Type: field.TypeString},
		{Name: "question_ids", Type: field.TypeJSON},
		{Name: "answers", Type: field.TypeJSON},
		{Name: "start_time", Type: field.TypeTime},
		{Name: "time_limit_secs", Type: field.TypeInt64},
	}
	ActiveTable = &schema.Table{
		Name:       activeTable,
		Columns:    ActiveColumns,
		PrimaryKey: []*schema.Column{ActiveColumns[0]},
	}

	// EventColumns is the append-only test lifecycle log.
	EventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "format", Type: field.TypeString},
		{Name: "questions_served", Type: field.TypeInt},
		{Name: "correct_answers", Type: field.TypeInt},
		{Name: "accuracy", Type: field.TypeFloat64},
		{Name: "duration_secs", Type: field.TypeInt},
	}
	EventTable = &schema.Table{
		Name:       eventsTable,
		Columns:    EventColumns,
		PrimaryKey: []*schema.Column{EventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_user_id", Unique: false, Columns: []*schema.Column{EventColumns[4]}},
		},
	}

	// SequenceColumns backs the global event sequence. It has one row.
	SequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64},
	}
	SequenceTable = &schema.Table{
		Name:       sequenceTable,
		Columns:    SequenceColumns,
		PrimaryKey: []*schema.Column{SequenceColumns[0]},
	}

	// Tables lists every table the store migrates.
	Tables = []*schema.Table{
		ProgressTable,
		ActiveTable,
		EventTable,
		SequenceTable,
	}
)
