package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ConstraintConfig is a persisted, named constraint/weight profile a solve
// request can reference instead of inlining hard flags and soft weights on
// every call. Payload holds the JSON-encoded timetable.ConstraintConfig
// (hard flags, soft weights, working hours, annealing parameters).
type ConstraintConfig struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	TermID    *string        `db:"term_id" json:"term_id,omitempty"`
	Payload   types.JSONText `db:"payload" json:"payload"`
	IsDefault bool           `db:"is_default" json:"is_default"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// ConstraintConfigFilter filters persisted constraint profiles.
type ConstraintConfigFilter struct {
	TermID string
}
