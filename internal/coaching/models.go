// Package coaching connects the plan engine to stored surveys, catalogs and plans.
package coaching

import (
	"time"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/plan"
)

var (
	// ErrNotFound is returned when a user has no survey or no active plan.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrEmptyCatalog is returned when no exercise or nutrition item survives the catalog filters.
	ErrEmptyCatalog = errors.NewSentinel("empty catalog")
)

// ExerciseFilter narrows the exercise catalog before it reaches the engine. Zero values match everything.
type ExerciseFilter struct {
	// MaxDifficulty drops exercises more than one tier above this level.
	MaxDifficulty plan.FitnessLevel
	// Equipment keeps exercises needing only these items. Bodyweight exercises always match.
	Equipment []string
}

func (f ExerciseFilter) matches(ex plan.Exercise) bool {
	if f.MaxDifficulty != "" && !plan.SuitsLevel(ex, f.MaxDifficulty) {
		return false
	}
	return plan.UsesOnlyEquipment(ex, f.Equipment)
}

// NutritionFilter narrows the nutrition catalog before it reaches the engine.
type NutritionFilter struct {
	Diet plan.DietaryPreference
}

func (f NutritionFilter) matches(item plan.NutritionItem) bool {
	return plan.CompatibleWithDiet(item.Flags, plan.ParseDietaryPreference(string(f.Diet)))
}

// StoredPlan is a generated plan as persisted for a user.
type StoredPlan struct {
	ID      string             `json:"id"`
	UserID  string             `json:"userId"`
	Seed    uint64             `json:"seed,string"`
	Active  bool               `json:"active"`
	Created time.Time          `json:"created"`
	Plan    plan.GeneratedPlan `json:"plan"`
}
