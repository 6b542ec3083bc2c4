package plan_test

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/myrjola/fitcoach/internal/plan"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 1)) //nolint:gosec // deterministic tests.
}

func kcalItems(calories ...float64) []plan.NutritionItem {
	items := make([]plan.NutritionItem, 0, len(calories))
	for i, c := range calories {
		items = append(items, food(i+1, "item", nil, c, 0, 0, 0, 0, nil))
	}
	return items
}

func TestSelectNutrition_FindsExactCombination(t *testing.T) {
	// Greedy acceptance of 800 overshoots with either 500, only the two 500s hit the window.
	candidates := kcalItems(800, 500, 500)
	for seed := range uint64(50) {
		sel := plan.SelectNutrition(newRand(seed), plan.NutritionRequest{
			Candidates:       candidates,
			TargetCalories:   1000,
			TolerancePercent: 0.15,
			Goal:             plan.GoalGeneralFitness,
		})
		if !sel.WithinTolerance || sel.Totals.Calories != 1000 {
			t.Fatalf("seed %d: total %v within=%v, want 1000", seed, sel.Totals.Calories, sel.WithinTolerance)
		}
	}
}

// For small random catalogs a brute force check decides feasibility. Whenever some subset lands inside the window the
// selector must find one.
func TestSelectNutrition_ToleranceWhenFeasible(t *testing.T) {
	gen := newRand(42)
	for trial := range 300 {
		n := 1 + gen.IntN(9)
		calories := make([]float64, n)
		for i := range calories {
			calories[i] = float64(20 + gen.IntN(700))
		}
		target := float64(200 + gen.IntN(1200))
		tolerance := 0.15 + 0.05*gen.Float64()

		sel := plan.SelectNutrition(newRand(uint64(trial)), plan.NutritionRequest{
			Candidates:       kcalItems(calories...),
			TargetCalories:   target,
			TolerancePercent: tolerance,
			Goal:             plan.GoalWeightLoss,
		})
		feasible := false
		for mask := 1; mask < 1<<n && !feasible; mask++ {
			sum := 0.0
			for i, c := range calories {
				if mask&(1<<i) != 0 {
					sum += c
				}
			}
			feasible = math.Abs(sum-target) <= target*tolerance
		}
		if feasible && !sel.WithinTolerance {
			t.Errorf("trial %d: calories %v target %v tolerance %v: got total %v outside window",
				trial, calories, target, tolerance, sel.Totals.Calories)
		}
		if sel.WithinTolerance && math.Abs(sel.Deviation()) > sel.Tolerance {
			t.Errorf("trial %d: WithinTolerance set but deviation %v exceeds %v", trial, sel.Deviation(), sel.Tolerance)
		}
	}
}

func TestSelectNutrition_Degenerate(t *testing.T) {
	tests := []struct {
		name       string
		candidates []plan.NutritionItem
		target     float64
		wantItems  int
		wantWithin bool
	}{
		{name: "no candidates", candidates: nil, target: 600, wantItems: 0, wantWithin: false},
		{name: "only oversized item", candidates: kcalItems(2000), target: 500, wantItems: 0, wantWithin: false},
		{name: "zero calorie items ignored", candidates: kcalItems(0, -50, 0), target: 300, wantItems: 0, wantWithin: false},
		{name: "zero target", candidates: kcalItems(100, 200), target: 0, wantItems: 0, wantWithin: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := plan.SelectNutrition(newRand(7), plan.NutritionRequest{
				Candidates:       tt.candidates,
				TargetCalories:   tt.target,
				TolerancePercent: 0,
				Goal:             plan.GoalMuscleGain,
			})
			if len(sel.Items) != tt.wantItems {
				t.Errorf("got %d items, want %d", len(sel.Items), tt.wantItems)
			}
			if sel.Items == nil {
				t.Error("Items must be non-nil")
			}
			if sel.WithinTolerance != tt.wantWithin {
				t.Errorf("WithinTolerance = %v, want %v", sel.WithinTolerance, tt.wantWithin)
			}
		})
	}
}

func TestSelectNutrition_DoesNotModifyInput(t *testing.T) {
	candidates := kcalItems(100, 200, 300, 400, 500)
	before := slices.Clone(candidates)
	plan.SelectNutrition(newRand(3), plan.NutritionRequest{
		Candidates:       candidates,
		TargetCalories:   700,
		TolerancePercent: 0.2,
		Goal:             plan.GoalEndurance,
	})
	for i := range candidates {
		if candidates[i].ID != before[i].ID {
			t.Fatalf("candidates reordered: %v", nutritionIDs(candidates))
		}
	}
}

func TestClampTolerance(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{in: 0, want: plan.DefaultTolerancePercent},
		{in: 0.05, want: 0.15},
		{in: 0.18, want: 0.18},
		{in: 0.5, want: 0.20},
	}
	for _, tt := range tests {
		if got := plan.ClampTolerance(tt.in); got != tt.want {
			t.Errorf("ClampTolerance(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSelectExercises(t *testing.T) {
	candidates := testExercises()[:10]

	t.Run("skips excluded and duplicate ids", func(t *testing.T) {
		exclude := map[int]bool{1: true, 2: true, 3: true}
		sel := plan.SelectExercises(newRand(9), "legs", candidates, 5, exclude)
		if len(sel.Items) != 5 {
			t.Fatalf("got %d items, want 5", len(sel.Items))
		}
		seen := map[int]bool{}
		for _, ex := range sel.Items {
			if exclude[ex.ID] || seen[ex.ID] {
				t.Errorf("unexpected exercise %d", ex.ID)
			}
			seen[ex.ID] = true
		}
	})

	t.Run("empty bucket", func(t *testing.T) {
		sel := plan.SelectExercises(newRand(9), "calves", nil, 2, nil)
		if sel.Items == nil || len(sel.Items) != 0 {
			t.Errorf("want empty non-nil selection, got %v", sel.Items)
		}
	})

	t.Run("fewer candidates than requested", func(t *testing.T) {
		sel := plan.SelectExercises(newRand(9), "quadriceps", candidates[:2], 4, nil)
		if len(sel.Items) != 2 {
			t.Errorf("got %d items, want 2", len(sel.Items))
		}
	})
}
