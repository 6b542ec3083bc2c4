package coaching

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/myrjola/fitcoach/internal/sqlite"
)

// timestampFormat matches the STRFTIME('%Y-%m-%dT%H:%M:%fZ') column defaults.
const timestampFormat = "2006-01-02T15:04:05.000Z"

type baseRepository struct {
	db *sqlite.Database
}

func newBaseRepository(db *sqlite.Database) baseRepository {
	return baseRepository{db: db}
}

// repository groups the stores used by the service.
type repository struct {
	surveys   *SurveyRepository
	exercises *ExerciseRepository
	nutrition *NutritionRepository
	plans     *PlanRepository
}

func newRepository(db *sqlite.Database) *repository {
	return &repository{
		surveys:   NewSurveyRepository(db),
		exercises: NewExerciseRepository(db),
		nutrition: NewNutritionRepository(db),
		plans:     NewPlanRepository(db),
	}
}

// encodeStrings stores a slice in a JSON array column. A nil slice becomes [].
func encodeStrings[T ~string](values []T) (string, error) {
	if values == nil {
		values = []T{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal json array: %w", err)
	}
	return string(b), nil
}

// decodeStrings reads a JSON array column back into native values.
func decodeStrings[T ~string](column string) ([]T, error) {
	var values []T
	if err := json.Unmarshal([]byte(column), &values); err != nil {
		return nil, fmt.Errorf("unmarshal json array %q: %w", column, err)
	}
	return values, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
