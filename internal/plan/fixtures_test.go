package plan_test

import "github.com/myrjola/fitcoach/internal/plan"

func strength(id int, name string, groups, equipment []string, difficulty plan.FitnessLevel) plan.Exercise {
	return plan.Exercise{
		ID:                  id,
		Name:                name,
		Category:            plan.ExerciseStrength,
		MuscleGroups:        groups,
		Equipment:           equipment,
		Difficulty:          difficulty,
		Tags:                nil,
		DescriptionMarkdown: "",
	}
}

func cardio(id int, name string, groups, equipment []string) plan.Exercise {
	ex := strength(id, name, groups, equipment, plan.LevelBeginner)
	ex.Category = plan.ExerciseCardio
	return ex
}

// testExercises is a small gym catalog with several exercises per muscle group.
func testExercises() []plan.Exercise {
	var (
		none     []string
		barbell  = []string{"barbell"}
		dumbbell = []string{"dumbbell"}
		machine  = []string{"machine"}
		cable    = []string{"cable"}
		bar      = []string{"pull_up_bar"}
	)
	return []plan.Exercise{
		strength(1, "Barbell Back Squat", []string{"quadriceps", "glutes", "hamstrings"}, barbell, plan.LevelIntermediate),
		strength(2, "Goblet Squat", []string{"quads", "glutes"}, dumbbell, plan.LevelBeginner),
		strength(3, "Walking Lunge", []string{"quadriceps", "glutes"}, none, plan.LevelBeginner),
		strength(4, "Leg Extension", []string{"quadriceps"}, machine, plan.LevelBeginner),
		strength(5, "Romanian Deadlift", []string{"hamstrings", "glutes", "lower_back"}, barbell, plan.LevelIntermediate),
		strength(6, "Lying Leg Curl", []string{"hamstrings"}, machine, plan.LevelBeginner),
		strength(7, "Hip Thrust", []string{"glutes"}, barbell, plan.LevelBeginner),
		strength(8, "Glute Bridge", []string{"glutes"}, []string{"bodyweight"}, plan.LevelBeginner),
		strength(9, "Standing Calf Raise", []string{"calves"}, machine, plan.LevelBeginner),
		strength(10, "Seated Calf Raise", []string{"calves"}, machine, plan.LevelBeginner),
		strength(11, "Bench Press", []string{"chest", "triceps", "shoulders"}, barbell, plan.LevelIntermediate),
		strength(12, "Push-up", []string{"chest", "triceps"}, none, plan.LevelBeginner),
		strength(13, "Dumbbell Fly", []string{"pecs"}, dumbbell, plan.LevelBeginner),
		strength(14, "Incline Dumbbell Press", []string{"chest", "shoulders"}, dumbbell, plan.LevelIntermediate),
		strength(15, "Pull-up", []string{"lats", "biceps"}, bar, plan.LevelIntermediate),
		strength(16, "Barbell Row", []string{"back", "biceps"}, barbell, plan.LevelIntermediate),
		strength(17, "Lat Pulldown", []string{"lats"}, machine, plan.LevelBeginner),
		strength(18, "Seated Cable Row", []string{"back"}, cable, plan.LevelBeginner),
		strength(19, "Overhead Press", []string{"shoulders", "triceps"}, barbell, plan.LevelIntermediate),
		strength(20, "Lateral Raise", []string{"delts"}, dumbbell, plan.LevelBeginner),
		strength(21, "Face Pull", []string{"shoulders", "traps"}, cable, plan.LevelBeginner),
		strength(22, "Barbell Curl", []string{"biceps"}, barbell, plan.LevelBeginner),
		strength(23, "Hammer Curl", []string{"biceps", "forearms"}, dumbbell, plan.LevelBeginner),
		strength(24, "Triceps Pushdown", []string{"triceps"}, cable, plan.LevelBeginner),
		strength(25, "Skull Crusher", []string{"triceps"}, barbell, plan.LevelIntermediate),
		strength(26, "Farmer's Carry", []string{"forearms", "core"}, dumbbell, plan.LevelBeginner),
		strength(27, "Wrist Curl", []string{"forearms"}, dumbbell, plan.LevelBeginner),
		strength(28, "Plank", []string{"core"}, none, plan.LevelBeginner),
		strength(29, "Hanging Leg Raise", []string{"abs"}, bar, plan.LevelIntermediate),
		strength(30, "Power Snatch", []string{"quadriceps", "shoulders", "back"}, barbell, plan.LevelExpert),
		cardio(31, "Treadmill Run", nil, []string{"treadmill"}),
		cardio(32, "Stationary Bike", nil, []string{"bike"}),
		cardio(33, "Jump Rope", []string{"calves"}, []string{"jump_rope"}),
		cardio(34, "Brisk Walk", nil, none),
	}
}

type flag func(*plan.DietaryFlags)

func vegan(f *plan.DietaryFlags) { f.Vegan, f.Vegetarian, f.Pescatarian = true, true, true }
func vegetarian(f *plan.DietaryFlags) { f.Vegetarian, f.Pescatarian = true, true }
func pescatarian(f *plan.DietaryFlags) { f.Pescatarian = true }
func glutenFree(f *plan.DietaryFlags) { f.GlutenFree = true }
func dairyFree(f *plan.DietaryFlags) { f.DairyFree = true }
func keto(f *plan.DietaryFlags) { f.KetoFriendly = true }
func paleo(f *plan.DietaryFlags) { f.Paleo = true }

func food(id int, name string, meals []plan.MealType, kcal, protein, carbs, fats, fiber float64, allergens []string, flags ...flag) plan.NutritionItem {
	item := plan.NutritionItem{
		ID:          id,
		Name:        name,
		MealTypes:   meals,
		Calories:    kcal,
		ProteinG:    protein,
		CarbsG:      carbs,
		FatsG:       fats,
		FiberG:      fiber,
		ServingSize: "1 serving",
		Tags:        nil,
		Allergens:   allergens,
		Flags:       plan.DietaryFlags{},
	}
	for _, f := range flags {
		f(&item.Flags)
	}
	return item
}

// testNutrition is a nutrition catalog with whole-calorie items for every meal type.
func testNutrition() []plan.NutritionItem {
	var (
		breakfast = []plan.MealType{plan.MealBreakfast}
		mains     = []plan.MealType{plan.MealLunch, plan.MealDinner}
		snack     = []plan.MealType{plan.MealSnack}
		anyMeal   []plan.MealType
	)
	return []plan.NutritionItem{
		food(1, "Oatmeal with Berries", breakfast, 300, 10, 54, 6, 8, nil, vegan, dairyFree),
		food(2, "Greek Yogurt Parfait", breakfast, 250, 20, 30, 5, 2, []string{"dairy"}, vegetarian, glutenFree),
		food(3, "Scrambled Eggs", breakfast, 220, 14, 2, 16, 0, []string{"eggs"}, vegetarian, keto, paleo, glutenFree, dairyFree),
		food(4, "Tofu Scramble", breakfast, 200, 18, 6, 12, 3, []string{"soy"}, vegan, glutenFree, dairyFree),
		food(5, "Toast with Peanut Butter", breakfast, 280, 10, 28, 15, 5, []string{"peanuts"}, vegan, dairyFree),
		food(6, "Banana", []plan.MealType{plan.MealBreakfast, plan.MealSnack, plan.MealPreWorkout}, 105, 1, 27, 0, 3, nil,
			vegan, glutenFree, dairyFree, paleo),
		food(7, "Protein Smoothie", []plan.MealType{plan.MealBreakfast, plan.MealPostWorkout}, 320, 30, 35, 6, 4,
			[]string{"dairy"}, vegetarian, glutenFree),
		food(8, "Grilled Chicken Breast", mains, 250, 46, 0, 6, 0, nil, glutenFree, dairyFree, keto, paleo),
		food(9, "Brown Rice", mains, 220, 5, 46, 2, 4, nil, vegan, glutenFree, dairyFree),
		food(10, "Quinoa Salad", mains, 350, 12, 50, 11, 7, nil, vegan, glutenFree, dairyFree),
		food(11, "Salmon Fillet", mains, 360, 40, 0, 22, 0, []string{"fish"}, pescatarian, glutenFree, dairyFree, keto, paleo),
		food(12, "Lentil Soup", mains, 230, 18, 40, 1, 15, nil, vegan, glutenFree, dairyFree),
		food(13, "Beef Stir Fry", mains, 450, 35, 30, 20, 4, []string{"soy"}, dairyFree),
		food(14, "Turkey Wrap", mains, 400, 30, 40, 12, 5, []string{"gluten"}),
		food(15, "Mixed Green Salad", mains, 120, 3, 10, 8, 4, nil, vegan, glutenFree, dairyFree, keto, paleo),
		food(16, "Sweet Potato", mains, 180, 4, 41, 0, 6, nil, vegan, glutenFree, dairyFree, paleo),
		food(17, "Chickpea Curry", mains, 420, 15, 55, 14, 12, nil, vegan, glutenFree, dairyFree),
		food(18, "Steamed Broccoli", anyMeal, 55, 4, 11, 0, 5, nil, vegan, glutenFree, dairyFree, keto, paleo),
		food(19, "Almonds", snack, 160, 6, 6, 14, 3, []string{"tree nuts"}, vegan, glutenFree, dairyFree, keto, paleo),
		food(20, "Apple", snack, 95, 0, 25, 0, 4, nil, vegan, glutenFree, dairyFree, paleo),
		food(21, "Cottage Cheese", snack, 180, 24, 8, 5, 0, []string{"dairy"}, vegetarian, keto, glutenFree),
		food(22, "Hummus with Carrots", snack, 150, 5, 18, 7, 5, nil, vegan, glutenFree, dairyFree),
		food(23, "Protein Bar", snack, 210, 20, 22, 7, 3, []string{"dairy"}, vegetarian),
		food(24, "Avocado Salad", mains, 320, 6, 14, 28, 10, nil, vegan, glutenFree, dairyFree, keto, paleo),
	}
}

// exampleProfile is a 30 year old moderately active man aiming to lose weight.
func exampleProfile() plan.UserSurveyProfile {
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
		DislikedExercises:      nil,
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
