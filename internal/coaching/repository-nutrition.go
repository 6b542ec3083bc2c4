package coaching

import (
	"context"
	"errors"
	"fmt"

	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/sqlite"
)

// NutritionRepository reads the nutrition catalog.
type NutritionRepository struct {
	baseRepository
}

// NewNutritionRepository creates a new SQLite nutrition repository.
func NewNutritionRepository(db *sqlite.Database) *NutritionRepository {
	return &NutritionRepository{
		baseRepository: newBaseRepository(db),
	}
}

// List returns the nutrition items compatible with filter.Diet ordered by id.
func (r *NutritionRepository) List(ctx context.Context, filter NutritionFilter) (_ []plan.NutritionItem, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, meal_types, calories, protein_g, carbs_g, fats_g, fiber_g, serving_size, tags, allergens,
		       vegan, vegetarian, pescatarian, gluten_free, dairy_free, keto_friendly, paleo
		FROM nutrition_items
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query nutrition items: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var items []plan.NutritionItem
	for rows.Next() {
		var (
			item                       plan.NutritionItem
			mealTypes, tags, allergens string
		)
		f := &item.Flags
		if err = rows.Scan(&item.ID, &item.Name, &mealTypes, &item.Calories, &item.ProteinG, &item.CarbsG,
			&item.FatsG, &item.FiberG, &item.ServingSize, &tags, &allergens,
			&f.Vegan, &f.Vegetarian, &f.Pescatarian, &f.GlutenFree, &f.DairyFree, &f.KetoFriendly, &f.Paleo); err != nil {
			return nil, fmt.Errorf("scan nutrition item: %w", err)
		}
		var errs [3]error
		item.MealTypes, errs[0] = decodeStrings[plan.MealType](mealTypes)
		item.Tags, errs[1] = decodeStrings[string](tags)
		item.Allergens, errs[2] = decodeStrings[string](allergens)
		if err = errors.Join(errs[:]...); err != nil {
			return nil, fmt.Errorf("decode nutrition item %d: %w", item.ID, err)
		}
		if filter.matches(item) {
			items = append(items, item)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}
