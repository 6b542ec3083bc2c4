package plan

import (
	"math"
	"math/rand/v2"
	"time"
)

// NutritionPlanDays is the number of days laid out in a nutrition plan.
const NutritionPlanDays = 7

// mealRatios splits the daily target by meal count. Every row sums to 1.
//
//nolint:gochecknoglobals // lookup table.
var mealRatios = map[int][]float64{
	1: {1.0},
	2: {0.45, 0.55},
	3: {0.30, 0.35, 0.35},
	4: {0.25, 0.35, 0.10, 0.30},
	5: {0.25, 0.10, 0.30, 0.10, 0.25},
	6: {0.20, 0.10, 0.25, 0.10, 0.10, 0.25},
	7: {0.20, 0.10, 0.20, 0.10, 0.10, 0.10, 0.20},
	8: {0.15, 0.10, 0.20, 0.10, 0.10, 0.10, 0.15, 0.10},
}

//nolint:gochecknoglobals // lookup table.
var mealSequences = map[int][]MealType{
	1: {MealLunch},
	2: {MealBreakfast, MealDinner},
	3: {MealBreakfast, MealLunch, MealDinner},
	4: {MealBreakfast, MealLunch, MealSnack, MealDinner},
	5: {MealBreakfast, MealSnack, MealLunch, MealSnack, MealDinner},
	6: {MealBreakfast, MealSnack, MealLunch, MealPreWorkout, MealPostWorkout, MealDinner},
	7: {MealBreakfast, MealSnack, MealLunch, MealSnack, MealPreWorkout, MealPostWorkout, MealDinner},
	8: {MealBreakfast, MealSnack, MealLunch, MealSnack, MealPreWorkout, MealPostWorkout, MealDinner, MealSnack},
}

//nolint:gochecknoglobals // static tips.
var mealTips = map[MealType]string{
	MealBreakfast:   "Include a protein source to stay full until lunch.",
	MealLunch:       "Fill half the plate with vegetables.",
	MealDinner:      "Keep portions moderate and finish eating two hours before bed.",
	MealSnack:       "Pair carbohydrates with protein or fat for steadier energy.",
	MealPreWorkout:  "Eat 60 to 90 minutes before training and favour easily digested carbohydrates.",
	MealPostWorkout: "Combine protein and carbohydrates within two hours after training.",
}

//nolint:gochecknoglobals // static tips.
var goalTips = map[Goal]string{
	GoalWeightLoss:          "Prioritise protein and fibre to manage hunger in a calorie deficit.",
	GoalMuscleGain:          "Spread protein evenly across meals to support muscle growth.",
	GoalStrength:            "Eat enough carbohydrates on heavy training days to fuel your lifts.",
	GoalEndurance:           "Carbohydrates are your main fuel; increase them on long session days.",
	GoalGeneralFitness:      "Aim for a balanced plate with lean protein, whole grains and vegetables.",
	GoalBodyRecomposition:   "Keep protein high and calories close to maintenance.",
	GoalAthleticPerformance: "Time carbohydrates around training and competition.",
}

//nolint:gochecknoglobals // static tips.
var dietTips = map[DietaryPreference]string{
	DietVegan:       "Combine legumes and grains to cover all essential amino acids and consider a B12 supplement.",
	DietVegetarian:  "Eggs and dairy are convenient complete protein sources.",
	DietPescatarian: "Oily fish twice a week covers most omega-3 needs.",
	DietKeto:        "Watch electrolytes, especially sodium and magnesium.",
	DietPaleo:       "Root vegetables and fruit supply carbohydrates for training.",
	DietGlutenFree:  "Rice, quinoa and potatoes are gluten-free carbohydrate sources.",
	DietDairyFree:   "Use fortified plant milks to cover calcium.",
}

// MealItem is a catalog item served in a meal.
type MealItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	ServingSize string  `json:"servingSize"`
	Calories    float64 `json:"calories"`
	ProteinG    float64 `json:"proteinG"`
	CarbsG      float64 `json:"carbsG"`
	FatsG       float64 `json:"fatsG"`
}

// Meal is one slot of a nutrition day.
type Meal struct {
	MealType MealType `json:"mealType"`
	// Source is the bucket the items were drawn from. It differs from MealType when the pre- or post-workout
	// bucket was empty and snacks were used instead.
	Source          MealType   `json:"source"`
	TargetCalories  float64    `json:"targetCalories"`
	Items           []MealItem `json:"items"`
	Totals          Nutrients  `json:"totals"`
	WithinTolerance bool       `json:"withinTolerance"`
	Tip             string     `json:"tip"`
}

// NutritionDay is the ordered meals of one day.
type NutritionDay struct {
	Day              int       `json:"day"`
	Weekday          string    `json:"weekday"`
	Meals            []Meal    `json:"meals"`
	Totals           Nutrients `json:"totals"`
	TargetCalories   int       `json:"targetCalories"`
	DeviationPercent float64   `json:"deviationPercent"`
}

// NutritionPlan is a week of meals.
type NutritionPlan struct {
	DailyCalories int            `json:"dailyCalories"`
	Macros        Macros         `json:"macros"`
	MealsPerDay   int            `json:"mealsPerDay"`
	Days          []NutritionDay `json:"days"`
	Tips          []string       `json:"tips"`
}

// MealDistribution returns the meal types and calorie targets for the given number of meals.
func MealDistribution(dailyCalories, mealsPerDay int) ([]MealType, []float64) {
	n := clamp(mealsPerDay, minMealsPerDay, maxMealsPerDay)
	ratios := mealRatios[n]
	targets := make([]float64, len(ratios))
	for i, r := range ratios {
		targets[i] = float64(dailyCalories) * r
	}
	return mealSequences[n], targets
}

type nutritionInput struct {
	goal             Goal
	diet             DietaryPreference
	metrics          Metrics
	tolerancePercent float64
	buckets          NutritionBuckets
}

func buildNutritionPlan(rng *rand.Rand, in nutritionInput) NutritionPlan {
	mealTypes, targets := MealDistribution(in.metrics.TargetCalories, in.metrics.MealsPerDay)
	days := make([]NutritionDay, 0, NutritionPlanDays)
	for day := 1; day <= NutritionPlanDays; day++ {
		nd := NutritionDay{
			Day:              day,
			Weekday:          time.Weekday(day % NutritionPlanDays).String(),
			Meals:            make([]Meal, 0, len(mealTypes)),
			Totals:           Nutrients{},
			TargetCalories:   in.metrics.TargetCalories,
			DeviationPercent: 0,
		}
		for i, mt := range mealTypes {
			meal := buildMeal(rng, in, mt, targets[i])
			nd.Totals = nd.Totals.plus(meal.Totals)
			nd.Meals = append(nd.Meals, meal)
		}
		nd.DeviationPercent = deviationPercent(nd.Totals.Calories, float64(in.metrics.TargetCalories))
		days = append(days, nd)
	}

	tips := []string{goalTips[in.goal]}
	if tip, ok := dietTips[in.diet]; ok {
		tips = append(tips, tip)
	}
	return NutritionPlan{
		DailyCalories: in.metrics.TargetCalories,
		Macros:        in.metrics.Macros,
		MealsPerDay:   len(mealTypes),
		Days:          days,
		Tips:          tips,
	}
}

func buildMeal(rng *rand.Rand, in nutritionInput, mealType MealType, target float64) Meal {
	source := mealType
	candidates := in.buckets.Bucket(mealType)
	if len(candidates) == 0 && (mealType == MealPreWorkout || mealType == MealPostWorkout) {
		source = MealSnack
		candidates = in.buckets.Bucket(MealSnack)
	}
	sel := SelectNutrition(rng, NutritionRequest{
		Candidates:       candidates,
		TargetCalories:   target,
		TolerancePercent: in.tolerancePercent,
		Goal:             in.goal,
	})
	items := make([]MealItem, 0, len(sel.Items))
	for _, item := range sel.Items {
		items = append(items, MealItem{
			ID:          item.ID,
			Name:        item.Name,
			ServingSize: item.ServingSize,
			Calories:    item.Calories,
			ProteinG:    item.ProteinG,
			CarbsG:      item.CarbsG,
			FatsG:       item.FatsG,
		})
	}
	return Meal{
		MealType:        mealType,
		Source:          source,
		TargetCalories:  target,
		Items:           items,
		Totals:          sel.Totals,
		WithinTolerance: sel.WithinTolerance,
		Tip:             mealTips[mealType],
	}
}

// deviationPercent is the signed difference from target in percent, rounded to one decimal.
func deviationPercent(total, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Round((total-target)/target*1000) / 10 //nolint:mnd // percent with one decimal.
}
