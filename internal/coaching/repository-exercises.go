package coaching

import (
	"context"
	"errors"
	"fmt"

	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/sqlite"
)

// ExerciseRepository reads the exercise catalog.
type ExerciseRepository struct {
	baseRepository
}

// NewExerciseRepository creates a new SQLite exercise repository.
func NewExerciseRepository(db *sqlite.Database) *ExerciseRepository {
	return &ExerciseRepository{
		baseRepository: newBaseRepository(db),
	}
}

// List returns the catalog ordered by id with filter applied.
func (r *ExerciseRepository) List(ctx context.Context, filter ExerciseFilter) (_ []plan.Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, category, muscle_groups, equipment, difficulty, tags, description_markdown
		FROM exercises
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []plan.Exercise
	for rows.Next() {
		var (
			ex                        plan.Exercise
			muscleGroups, equip, tags string
		)
		if err = rows.Scan(&ex.ID, &ex.Name, &ex.Category, &muscleGroups, &equip, &ex.Difficulty, &tags,
			&ex.DescriptionMarkdown); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		var errs [3]error
		ex.MuscleGroups, errs[0] = decodeStrings[string](muscleGroups)
		ex.Equipment, errs[1] = decodeStrings[string](equip)
		ex.Tags, errs[2] = decodeStrings[string](tags)
		if err = errors.Join(errs[:]...); err != nil {
			return nil, fmt.Errorf("decode exercise %d: %w", ex.ID, err)
		}
		if filter.matches(ex) {
			exercises = append(exercises, ex)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return exercises, nil
}
