package plan

import (
	"log/slog"
	"math"

	"github.com/myrjola/fitcoach/internal/errors"
)

// ErrInvalidProfile is returned when the body metrics make the energy formulas undefined.
var ErrInvalidProfile = errors.NewSentinel("invalid profile")

const (
	caloriesPerGramProtein = 4
	caloriesPerGramCarbs   = 4
	caloriesPerGramFat     = 9

	weightLossCalorieOffset = -500
	muscleGainCalorieOffset = 300

	// dietCarbShift is moved from fat to carbs for plant-based diets.
	dietCarbShift = 0.05

	minMealsPerDay      = 1
	maxMealsPerDay      = 8
	minWorkoutFrequency = 1
	maxWorkoutFrequency = 7
)

// activityMultipliers scales BMR to TDEE.
//
//nolint:gochecknoglobals // lookup table.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtremelyActive:  1.9,
}

// MacroRatios is the share of calories from each macro. The fields sum to 1.
type MacroRatios struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

//nolint:gochecknoglobals // lookup table.
var goalMacroRatios = map[Goal]MacroRatios{
	GoalWeightLoss:        {Protein: 0.35, Carbs: 0.30, Fats: 0.35},
	GoalMuscleGain:        {Protein: 0.30, Carbs: 0.45, Fats: 0.25},
	GoalEndurance:         {Protein: 0.20, Carbs: 0.55, Fats: 0.25},
	GoalBodyRecomposition: {Protein: 0.40, Carbs: 0.30, Fats: 0.30},
}

//nolint:gochecknoglobals // lookup table.
var (
	defaultMacroRatios = MacroRatios{Protein: 0.30, Carbs: 0.40, Fats: 0.30}
	ketoMacroRatios    = MacroRatios{Protein: 0.25, Carbs: 0.05, Fats: 0.70}
)

// Macros are daily targets in grams.
type Macros struct {
	ProteinG int `json:"proteinG"`
	CarbsG   int `json:"carbsG"`
	FatsG    int `json:"fatsG"`
}

// Calories converts the grams back to energy.
func (m Macros) Calories() int {
	return m.ProteinG*caloriesPerGramProtein + m.CarbsG*caloriesPerGramCarbs + m.FatsG*caloriesPerGramFat
}

// Metrics are the energy targets derived from a profile.
type Metrics struct {
	BMI            float64     `json:"bmi"`
	BMR            float64     `json:"bmr"`
	TDEE           float64     `json:"tdee"`
	TargetCalories int         `json:"targetCalories"`
	Ratios         MacroRatios `json:"ratios"`
	Macros         Macros      `json:"macros"`
	MealsPerDay    int         `json:"mealsPerDay"`
	// WorkoutFrequency is the clamped number of training days per week.
	WorkoutFrequency int `json:"workoutFrequency"`
}

// CalculateMetrics derives BMI, BMR, TDEE, the calorie target and the macro split.
//
// Zero or negative height or weight, or a negative age, make the formulas meaningless and yield ErrInvalidProfile.
// Meal count and workout frequency are clamped into their valid ranges instead.
func CalculateMetrics(p UserSurveyProfile) (Metrics, error) {
	if len(InvalidFields(p)) > 0 {
		return Metrics{}, errors.Wrap(ErrInvalidProfile, "body metrics out of range",
			slog.Float64("heightCm", p.HeightCm),
			slog.Float64("weightKg", p.WeightKg),
			slog.Int("age", p.Age))
	}
	p = p.Normalized()

	bmr := BMR(p.Gender, p.WeightKg, p.HeightCm, p.Age)
	tdee := bmr * ActivityMultiplier(p.ActivityLevel)
	target := TargetCalories(tdee, p.PrimaryGoal, p.DailyCalorieTarget)
	ratios := MacroSplit(p.PrimaryGoal, p.DietaryPreference)

	return Metrics{
		BMI:              BMI(p.WeightKg, p.HeightCm),
		BMR:              bmr,
		TDEE:             tdee,
		TargetCalories:   target,
		Ratios:           ratios,
		Macros:           MacroGrams(target, ratios),
		MealsPerDay:      clamp(p.MealsPerDay, minMealsPerDay, maxMealsPerDay),
		WorkoutFrequency: clamp(p.WorkoutFrequency, minWorkoutFrequency, maxWorkoutFrequency),
	}, nil
}

// InvalidFields lists the body metrics that make the energy formulas undefined, keyed by their JSON name. It is empty
// for a usable profile.
func InvalidFields(p UserSurveyProfile) map[string]string {
	fields := make(map[string]string)
	if p.Age < 0 {
		fields["age"] = "must not be negative"
	}
	if p.HeightCm <= 0 {
		fields["heightCm"] = "must be positive"
	}
	if p.WeightKg <= 0 {
		fields["weightKg"] = "must be positive"
	}
	return fields
}

// BMI is weight divided by squared height in meters.
func BMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100 //nolint:mnd // cm to m.
	return weightKg / (heightM * heightM)
}

// BMR uses the Mifflin-St Jeor equation.
func BMR(gender Gender, weightKg, heightCm float64, age int) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age) //nolint:mnd // Mifflin-St Jeor coefficients.
	if gender == GenderMale {
		return base + 5 //nolint:mnd // male constant.
	}
	return base - 161 //nolint:mnd // female constant, also used for other.
}

// ActivityMultiplier returns the TDEE factor for level. Unknown levels count as sedentary.
func ActivityMultiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[ActivitySedentary]
}

// TargetCalories offsets TDEE by the goal unless the user supplied an explicit target.
func TargetCalories(tdee float64, goal Goal, override *int) int {
	if override != nil && *override > 0 {
		return *override
	}
	switch goal { //nolint:exhaustive // other goals keep maintenance calories.
	case GoalWeightLoss:
		tdee += weightLossCalorieOffset
	case GoalMuscleGain:
		tdee += muscleGainCalorieOffset
	}
	return int(math.Round(tdee))
}

// MacroSplit returns the calorie shares for goal adjusted by the dietary preference.
//
// Keto replaces the goal ratios altogether. Vegan and vegetarian diets move five points from fat to carbs; the result
// is re-normalized so that the shares always sum to exactly one.
func MacroSplit(goal Goal, diet DietaryPreference) MacroRatios {
	if diet == DietKeto {
		return ketoMacroRatios
	}
	ratios, ok := goalMacroRatios[goal]
	if !ok {
		ratios = defaultMacroRatios
	}
	if diet == DietVegan || diet == DietVegetarian {
		shift := math.Min(dietCarbShift, ratios.Fats)
		ratios.Carbs += shift
		ratios.Fats -= shift
		ratios = ratios.normalized()
	}
	return ratios
}

func (r MacroRatios) normalized() MacroRatios {
	sum := r.Protein + r.Carbs + r.Fats
	if sum <= 0 {
		return defaultMacroRatios
	}
	protein := r.Protein / sum
	carbs := r.Carbs / sum
	// Fats absorb the rounding remainder so the shares add up exactly.
	return MacroRatios{Protein: protein, Carbs: carbs, Fats: 1 - protein - carbs}
}

// MacroGrams converts calories into whole grams per macro.
func MacroGrams(calories int, r MacroRatios) Macros {
	c := float64(calories)
	return Macros{
		ProteinG: int(math.Round(c * r.Protein / caloriesPerGramProtein)),
		CarbsG:   int(math.Round(c * r.Carbs / caloriesPerGramCarbs)),
		FatsG:    int(math.Round(c * r.Fats / caloriesPerGramFat)),
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
