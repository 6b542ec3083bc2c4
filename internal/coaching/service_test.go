package coaching_test

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/myrjola/fitcoach/internal/coaching"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/ptr"
	"github.com/myrjola/fitcoach/internal/sqlite"
	"github.com/myrjola/fitcoach/internal/testhelpers"
)

func newTestDatabase(t *testing.T) *sqlite.Database {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func newTestService(t *testing.T) (*coaching.Service, *sqlite.Database) {
	t.Helper()
	db := newTestDatabase(t)
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	engine := plan.NewEngine(plan.Config{TolerancePercent: 0.15, DefaultPlanWeeks: 8})
	return coaching.NewService(db, engine, logger), db
}

func surveyProfile() plan.UserSurveyProfile {
	return plan.UserSurveyProfile{
		Age:                    30,
		Gender:                 plan.GenderMale,
		HeightCm:               170,
		WeightKg:               70,
		TargetWeightKg:         0,
		PrimaryGoal:            plan.GoalWeightLoss,
		FitnessLevel:           plan.LevelIntermediate,
		ActivityLevel:          plan.ActivityModeratelyActive,
		WorkoutFrequency:       3,
		WorkoutDurationMinutes: 60,
		AvailableEquipment:     nil,
		Injuries:               nil,
		DislikedExercises:      []string{"burpee"},
		Allergies:              nil,
		MedicalConditions:      nil,
		DietaryPreference:      plan.DietNone,
		MealsPerDay:            3,
		DailyCalorieTarget:     nil,
		ExperienceYears:        nil,
		BodyFatPercent:         nil,
		BenchPressMaxKg:        nil,
		SquatMaxKg:             nil,
		DeadliftMaxKg:          nil,
	}
}

func TestService_SaveSurvey(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc, _ := newTestService(t)

	first := surveyProfile()
	if err := svc.SaveSurvey(ctx, "alex", first); err != nil {
		t.Fatalf("SaveSurvey() error = %v", err)
	}
	second := surveyProfile()
	second.PrimaryGoal = "Muscle Gain"
	second.AvailableEquipment = []string{"barbell", "bench"}
	second.Injuries = []string{"knee"}
	second.DailyCalorieTarget = ptr.Ref(2600)
	second.BodyFatPercent = ptr.Ref(18.5)
	second.DeadliftMaxKg = ptr.Ref(140.0)
	if err := svc.SaveSurvey(ctx, "alex", second); err != nil {
		t.Fatalf("SaveSurvey() error = %v", err)
	}

	got, err := svc.Survey(ctx, "alex")
	if err != nil {
		t.Fatalf("Survey() error = %v", err)
	}
	if diff := cmp.Diff(second.Normalized(), got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Survey() mismatch (-want +got):\n%s", diff)
	}
	if got.PrimaryGoal != plan.GoalMuscleGain {
		t.Errorf("PrimaryGoal = %q, want normalized muscle_gain", got.PrimaryGoal)
	}

	if _, err = svc.Survey(ctx, "nobody"); !errors.Is(err, coaching.ErrNotFound) {
		t.Errorf("Survey() for unknown user error = %v, want ErrNotFound", err)
	}

	invalid := surveyProfile()
	invalid.WeightKg = 0
	if err = svc.SaveSurvey(ctx, "alex", invalid); !errors.Is(err, plan.ErrInvalidProfile) {
		t.Errorf("SaveSurvey() with zero weight error = %v, want ErrInvalidProfile", err)
	}
}

func TestService_GeneratePlan(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc, db := newTestService(t)

	if err := svc.SaveSurvey(ctx, "sam", surveyProfile()); err != nil {
		t.Fatalf("SaveSurvey() error = %v", err)
	}
	seed := uint64(math.MaxUint64)
	stored, err := svc.GeneratePlan(ctx, "sam", &seed)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	if stored.Seed != seed || stored.Plan.Seed != seed {
		t.Errorf("seed = %d / %d, want %d", stored.Seed, stored.Plan.Seed, seed)
	}
	if stored.Plan.Split != plan.SplitPushPullLegs {
		t.Errorf("Split = %q, want push_pull_legs", stored.Plan.Split)
	}
	if n := stored.Plan.SkippedSessions(); n != 0 {
		t.Errorf("%d skipped sessions with the seeded catalog", n)
	}

	active, err := svc.ActivePlan(ctx, "sam")
	if err != nil {
		t.Fatalf("ActivePlan() error = %v", err)
	}
	if diff := cmp.Diff(stored, active, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ActivePlan() mismatch (-generated +stored):\n%s", diff)
	}

	// Regenerating with the same seed reproduces the plan and replaces the active one.
	again, err := svc.GeneratePlan(ctx, "sam", &seed)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	if again.ID == stored.ID {
		t.Errorf("regenerated plan reused id %s", again.ID)
	}
	if diff := cmp.Diff(stored.Plan, again.Plan, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("same seed produced a different plan (-first +second):\n%s", diff)
	}
	active, err = svc.ActivePlan(ctx, "sam")
	if err != nil {
		t.Fatalf("ActivePlan() error = %v", err)
	}
	if active.ID != again.ID {
		t.Errorf("active plan = %s, want %s", active.ID, again.ID)
	}

	var total, activeCount int
	if err = db.ReadOnly.QueryRowContext(ctx, "SELECT COUNT(*), SUM(active) FROM plans WHERE user_id = ?", "sam").
		Scan(&total, &activeCount); err != nil {
		t.Fatalf("count plans: %v", err)
	}
	if total != 2 || activeCount != 1 {
		t.Errorf("%d plans with %d active, want 2 with 1 active", total, activeCount)
	}
}

func TestService_GeneratePlan_RandomSeed(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc, _ := newTestService(t)
	if err := svc.SaveSurvey(ctx, "kim", surveyProfile()); err != nil {
		t.Fatalf("SaveSurvey() error = %v", err)
	}
	first, err := svc.GeneratePlan(ctx, "kim", nil)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	replay, err := svc.GeneratePlan(ctx, "kim", &first.Seed)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	if diff := cmp.Diff(first.Plan, replay.Plan, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("replaying the stored seed produced a different plan (-first +replay):\n%s", diff)
	}
}

func TestService_GeneratePlan_Preconditions(t *testing.T) {
	t.Parallel()

	t.Run("missing survey", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()
		svc, _ := newTestService(t)
		if _, err := svc.GeneratePlan(ctx, "ghost", nil); !errors.Is(err, coaching.ErrNotFound) {
			t.Errorf("GeneratePlan() error = %v, want ErrNotFound", err)
		}
		if _, err := svc.ActivePlan(ctx, "ghost"); !errors.Is(err, coaching.ErrNotFound) {
			t.Errorf("ActivePlan() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("empty nutrition catalog", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()
		svc, db := newTestService(t)
		if err := svc.SaveSurvey(ctx, "lee", surveyProfile()); err != nil {
			t.Fatalf("SaveSurvey() error = %v", err)
		}
		if _, err := db.ReadWrite.ExecContext(ctx, "DELETE FROM nutrition_items"); err != nil {
			t.Fatalf("delete nutrition items: %v", err)
		}
		if _, err := svc.GeneratePlan(ctx, "lee", nil); !errors.Is(err, coaching.ErrEmptyCatalog) {
			t.Errorf("GeneratePlan() error = %v, want ErrEmptyCatalog", err)
		}
	})

	t.Run("diet filters out every item", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()
		svc, db := newTestService(t)
		p := surveyProfile()
		p.DietaryPreference = plan.DietVegan
		if err := svc.SaveSurvey(ctx, "robin", p); err != nil {
			t.Fatalf("SaveSurvey() error = %v", err)
		}
		if _, err := db.ReadWrite.ExecContext(ctx, "UPDATE nutrition_items SET vegan = 0"); err != nil {
			t.Fatalf("update nutrition items: %v", err)
		}
		if _, err := svc.GeneratePlan(ctx, "robin", nil); !errors.Is(err, coaching.ErrEmptyCatalog) {
			t.Errorf("GeneratePlan() error = %v, want ErrEmptyCatalog", err)
		}
	})
}

func TestService_PruneInactivePlans(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc, db := newTestService(t)
	if err := svc.SaveSurvey(ctx, "pat", surveyProfile()); err != nil {
		t.Fatalf("SaveSurvey() error = %v", err)
	}
	for range 2 {
		if _, err := svc.GeneratePlan(ctx, "pat", nil); err != nil {
			t.Fatalf("GeneratePlan() error = %v", err)
		}
	}
	old := time.Now().AddDate(-1, 0, 0).UTC().Format("2006-01-02T15:04:05.000Z")
	if _, err := db.ReadWrite.ExecContext(ctx, "UPDATE plans SET created = ?", old); err != nil {
		t.Fatalf("age plans: %v", err)
	}
	if err := svc.PruneInactivePlans(ctx); err != nil {
		t.Fatalf("PruneInactivePlans() error = %v", err)
	}
	var n int
	if err := db.ReadOnly.QueryRowContext(ctx, "SELECT COUNT(*) FROM plans WHERE active = 1").Scan(&n); err != nil {
		t.Fatalf("count plans: %v", err)
	}
	if n != 1 {
		t.Errorf("%d active plans after pruning, want 1", n)
	}
	if _, err := svc.ActivePlan(ctx, "pat"); err != nil {
		t.Errorf("ActivePlan() after pruning error = %v", err)
	}
}

func TestExerciseRepository_List(t *testing.T) {
	t.Parallel()
	repo := coaching.NewExerciseRepository(newTestDatabase(t))

	all, err := repo.List(t.Context(), coaching.ExerciseFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 35 {
		t.Errorf("unfiltered List() returned %d exercises, want 35", len(all))
	}
	if !slices.IsSortedFunc(all, func(a, b plan.Exercise) int { return a.ID - b.ID }) {
		t.Error("exercises not ordered by id")
	}

	filtered, err := repo.List(t.Context(), coaching.ExerciseFilter{
		MaxDifficulty: plan.LevelBeginner,
		Equipment:     []string{"Dumbbell"},
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(filtered) == 0 {
		t.Fatal("filtered List() returned nothing")
	}
	for _, ex := range filtered {
		if ex.Difficulty == plan.LevelAdvanced || ex.Difficulty == plan.LevelExpert {
			t.Errorf("%s has difficulty %s above beginner+1", ex.Name, ex.Difficulty)
		}
		for _, item := range ex.Equipment {
			if item != "dumbbell" && item != "bodyweight" {
				t.Errorf("%s needs %s", ex.Name, item)
			}
		}
	}
}

func TestNutritionRepository_List(t *testing.T) {
	t.Parallel()
	repo := coaching.NewNutritionRepository(newTestDatabase(t))

	tests := []struct {
		diet plan.DietaryPreference
		ok   func(plan.DietaryFlags) bool
	}{
		{plan.DietNone, func(plan.DietaryFlags) bool { return true }},
		{plan.DietVegan, func(f plan.DietaryFlags) bool { return f.Vegan }},
		{plan.DietKeto, func(f plan.DietaryFlags) bool { return f.KetoFriendly }},
		{plan.DietGlutenFree, func(f plan.DietaryFlags) bool { return f.GlutenFree }},
	}
	for _, tt := range tests {
		t.Run(string(tt.diet), func(t *testing.T) {
			t.Parallel()
			items, err := repo.List(t.Context(), coaching.NutritionFilter{Diet: tt.diet})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(items) == 0 {
				t.Fatal("List() returned nothing")
			}
			for _, item := range items {
				if !tt.ok(item.Flags) {
					t.Errorf("%s does not fit %s", item.Name, tt.diet)
				}
			}
		})
	}

	items, err := repo.List(t.Context(), coaching.NutritionFilter{Diet: plan.DietNone})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	i := slices.IndexFunc(items, func(item plan.NutritionItem) bool { return item.Name == "Protein Smoothie" })
	if i < 0 {
		t.Fatal("Protein Smoothie missing")
	}
	want := []plan.MealType{plan.MealBreakfast, plan.MealPostWorkout}
	if diff := cmp.Diff(want, items[i].MealTypes); diff != "" {
		t.Errorf("MealTypes mismatch (-want +got):\n%s", diff)
	}
}
