package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// ConstraintConfigRepository persists named constraint/weight profiles.
type ConstraintConfigRepository struct {
	db *sqlx.DB
}

// NewConstraintConfigRepository constructs the repository.
func NewConstraintConfigRepository(db *sqlx.DB) *ConstraintConfigRepository {
	return &ConstraintConfigRepository{db: db}
}

// List returns constraint profiles, optionally filtered by term.
func (r *ConstraintConfigRepository) List(ctx context.Context, filter models.ConstraintConfigFilter) ([]models.ConstraintConfig, error) {
	query := `SELECT id, name, term_id, payload, is_default, created_at, updated_at FROM constraint_configs WHERE 1=1`
	var args []interface{}
	if filter.TermID != "" {
		query += fmt.Sprintf(" AND (term_id = $%d OR term_id IS NULL)", len(args)+1)
		args = append(args, filter.TermID)
	}
	query += " ORDER BY is_default DESC, created_at DESC"

	var configs []models.ConstraintConfig
	if err := r.db.SelectContext(ctx, &configs, query, args...); err != nil {
		return nil, fmt.Errorf("list constraint configs: %w", err)
	}
	return configs, nil
}

// FindByID fetches a constraint profile by ID.
func (r *ConstraintConfigRepository) FindByID(ctx context.Context, id string) (*models.ConstraintConfig, error) {
	const query = `SELECT id, name, term_id, payload, is_default, created_at, updated_at FROM constraint_configs WHERE id = $1`
	var cfg models.ConstraintConfig
	if err := r.db.GetContext(ctx, &cfg, query, id); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindDefault fetches the default constraint profile for a term, falling
// back to the global default (term_id IS NULL) if none is term-scoped.
func (r *ConstraintConfigRepository) FindDefault(ctx context.Context, termID string) (*models.ConstraintConfig, error) {
	const query = `SELECT id, name, term_id, payload, is_default, created_at, updated_at FROM constraint_configs
		WHERE is_default = TRUE AND (term_id = $1 OR term_id IS NULL) ORDER BY term_id NULLS LAST LIMIT 1`
	var cfg models.ConstraintConfig
	if err := r.db.GetContext(ctx, &cfg, query, termID); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert inserts or updates a constraint profile.
func (r *ConstraintConfigRepository) Upsert(ctx context.Context, cfg *models.ConstraintConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now

	const query = `INSERT INTO constraint_configs (id, name, term_id, payload, is_default, created_at, updated_at)
		VALUES (:id, :name, :term_id, :payload, :is_default, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, term_id = EXCLUDED.term_id,
			payload = EXCLUDED.payload, is_default = EXCLUDED.is_default, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("upsert constraint config: %w", err)
	}
	return nil
}

// Delete removes a constraint profile.
func (r *ConstraintConfigRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM constraint_configs WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete constraint config: %w", err)
	}
	return nil
}
