package coaching

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/sqlite"
)

// PlanRepository stores generated plans. A user has at most one active plan; older plans are kept inactive.
type PlanRepository struct {
	baseRepository
}

// NewPlanRepository creates a new SQLite plan repository.
func NewPlanRepository(db *sqlite.Database) *PlanRepository {
	return &PlanRepository{
		baseRepository: newBaseRepository(db),
	}
}

// Save stores generated as the active plan of userID and deactivates the previous one.
func (r *PlanRepository) Save(ctx context.Context, userID string, generated plan.GeneratedPlan) (_ StoredPlan, err error) {
	planJSON, err := json.Marshal(generated)
	if err != nil {
		return StoredPlan{}, fmt.Errorf("marshal plan: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return StoredPlan{}, fmt.Errorf("new plan id: %w", err)
	}

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return StoredPlan{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE plans SET active = 0 WHERE user_id = ? AND active = 1`, userID); err != nil {
		return StoredPlan{}, fmt.Errorf("deactivate previous plan: %w", err)
	}
	// SQLite integers are signed so the seed is stored as text.
	var created string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO plans (id, user_id, seed, active, plan_json)
		VALUES (?, ?, ?, 1, ?)
		RETURNING created`,
		id.String(), userID, strconv.FormatUint(generated.Seed, 10), string(planJSON)).Scan(&created)
	if err != nil {
		return StoredPlan{}, fmt.Errorf("insert plan: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return StoredPlan{}, fmt.Errorf("commit: %w", err)
	}

	createdAt, err := parseTimestamp(created)
	if err != nil {
		return StoredPlan{}, err
	}
	return StoredPlan{
		ID:      id.String(),
		UserID:  userID,
		Seed:    generated.Seed,
		Active:  true,
		Created: createdAt,
		Plan:    generated,
	}, nil
}

// Active returns the active plan of userID or ErrNotFound.
func (r *PlanRepository) Active(ctx context.Context, userID string) (StoredPlan, error) {
	var (
		stored        StoredPlan
		seed, created string
		planJSON      string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, seed, plan_json, created
		FROM plans
		WHERE user_id = ? AND active = 1`, userID).Scan(&stored.ID, &stored.UserID, &seed, &planJSON, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredPlan{}, ErrNotFound
	}
	if err != nil {
		return StoredPlan{}, fmt.Errorf("query active plan: %w", err)
	}
	if stored.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return StoredPlan{}, fmt.Errorf("parse seed: %w", err)
	}
	if err = json.Unmarshal([]byte(planJSON), &stored.Plan); err != nil {
		return StoredPlan{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	if stored.Created, err = parseTimestamp(created); err != nil {
		return StoredPlan{}, err
	}
	stored.Active = true
	return stored, nil
}

// retention is how long inactive plans are kept.
const retention = 180 * 24 * time.Hour

// PruneInactive deletes inactive plans created before now minus the retention period.
func (r *PlanRepository) PruneInactive(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-retention).UTC().Format(timestampFormat)
	res, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM plans WHERE active = 0 AND created < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete inactive plans: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
