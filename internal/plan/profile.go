// Package plan generates personalized training and nutrition plans from a survey profile and two item catalogs.
//
// Every exported function is pure. Randomness comes from a per-request seed, so the same inputs and seed always yield
// the same plan and an [Engine] can be shared between goroutines.
package plan

import "strings"

// Gender selects the Mifflin-St Jeor constant.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender maps free text to a Gender, defaulting to GenderOther.
func ParseGender(s string) Gender {
	switch g := Gender(normalizeKey(s)); g {
	case GenderMale, GenderFemale, GenderOther:
		return g
	default:
		return GenderOther
	}
}

// Goal is the user's primary training goal.
type Goal string

const (
	GoalWeightLoss          Goal = "weight_loss"
	GoalMuscleGain          Goal = "muscle_gain"
	GoalStrength            Goal = "strength"
	GoalEndurance           Goal = "endurance"
	GoalGeneralFitness      Goal = "general_fitness"
	GoalBodyRecomposition   Goal = "body_recomposition"
	GoalAthleticPerformance Goal = "athletic_performance"
)

// ParseGoal maps free text to a Goal, defaulting to GoalGeneralFitness.
func ParseGoal(s string) Goal {
	switch g := Goal(normalizeKey(s)); g {
	case GoalWeightLoss, GoalMuscleGain, GoalStrength, GoalEndurance,
		GoalGeneralFitness, GoalBodyRecomposition, GoalAthleticPerformance:
		return g
	default:
		return GoalGeneralFitness
	}
}

// FitnessLevel is the user's training experience tier. It doubles as exercise difficulty.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
	LevelExpert       FitnessLevel = "expert"
)

// ParseFitnessLevel maps free text to a FitnessLevel, defaulting to LevelBeginner.
func ParseFitnessLevel(s string) FitnessLevel {
	switch l := FitnessLevel(normalizeKey(s)); l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return l
	default:
		return LevelBeginner
	}
}

// rank orders levels so that difficulty can be compared.
func (l FitnessLevel) rank() int {
	switch l {
	case LevelBeginner:
		return 0
	case LevelIntermediate:
		return 1
	case LevelAdvanced:
		return 2 //nolint:mnd // third tier.
	case LevelExpert:
		return 3 //nolint:mnd // fourth tier.
	default:
		return 0
	}
}

func (l FitnessLevel) experienced() bool {
	return l == LevelAdvanced || l == LevelExpert
}

// ActivityLevel is the user's daily activity outside training.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// ParseActivityLevel maps free text to an ActivityLevel, defaulting to ActivitySedentary.
func ParseActivityLevel(s string) ActivityLevel {
	switch a := ActivityLevel(normalizeKey(s)); a {
	case ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive,
		ActivityVeryActive, ActivityExtremelyActive:
		return a
	default:
		return ActivitySedentary
	}
}

// DietaryPreference restricts the nutrition catalog.
type DietaryPreference string

const (
	DietNone        DietaryPreference = "none"
	DietVegetarian  DietaryPreference = "vegetarian"
	DietVegan       DietaryPreference = "vegan"
	DietPescatarian DietaryPreference = "pescatarian"
	DietKeto        DietaryPreference = "keto"
	DietPaleo       DietaryPreference = "paleo"
	DietGlutenFree  DietaryPreference = "gluten_free"
	DietDairyFree   DietaryPreference = "dairy_free"
)

// ParseDietaryPreference maps free text to a DietaryPreference, defaulting to DietNone.
func ParseDietaryPreference(s string) DietaryPreference {
	switch d := DietaryPreference(normalizeKey(s)); d {
	case DietNone, DietVegetarian, DietVegan, DietPescatarian, DietKeto, DietPaleo, DietGlutenFree, DietDairyFree:
		return d
	default:
		return DietNone
	}
}

// UserSurveyProfile is the survey answered by the user. The engine never mutates it.
//
// The string slices must already be decoded into native values by the caller.
type UserSurveyProfile struct {
	Age                    int               `json:"age" yaml:"age"`
	Gender                 Gender            `json:"gender" yaml:"gender"`
	HeightCm               float64           `json:"heightCm" yaml:"heightCm"`
	WeightKg               float64           `json:"weightKg" yaml:"weightKg"`
	TargetWeightKg         float64           `json:"targetWeightKg,omitempty" yaml:"targetWeightKg"`
	PrimaryGoal            Goal              `json:"primaryGoal" yaml:"primaryGoal"`
	FitnessLevel           FitnessLevel      `json:"fitnessLevel" yaml:"fitnessLevel"`
	ActivityLevel          ActivityLevel     `json:"activityLevel" yaml:"activityLevel"`
	WorkoutFrequency       int               `json:"workoutFrequency" yaml:"workoutFrequency"`
	WorkoutDurationMinutes int               `json:"workoutDurationMinutes" yaml:"workoutDurationMinutes"`
	AvailableEquipment     []string          `json:"availableEquipment" yaml:"availableEquipment"`
	Injuries               []string          `json:"injuries" yaml:"injuries"`
	DislikedExercises      []string          `json:"dislikedExercises" yaml:"dislikedExercises"`
	Allergies              []string          `json:"allergies" yaml:"allergies"`
	MedicalConditions      []string          `json:"medicalConditions" yaml:"medicalConditions"`
	DietaryPreference      DietaryPreference `json:"dietaryPreference" yaml:"dietaryPreference"`
	MealsPerDay            int               `json:"mealsPerDay" yaml:"mealsPerDay"`
	DailyCalorieTarget     *int              `json:"dailyCalorieTarget,omitempty" yaml:"dailyCalorieTarget"`

	ExperienceYears *int     `json:"experienceYears,omitempty" yaml:"experienceYears"`
	BodyFatPercent  *float64 `json:"bodyFatPercent,omitempty" yaml:"bodyFatPercent"`
	BenchPressMaxKg *float64 `json:"benchPressMaxKg,omitempty" yaml:"benchPressMaxKg"`
	SquatMaxKg      *float64 `json:"squatMaxKg,omitempty" yaml:"squatMaxKg"`
	DeadliftMaxKg   *float64 `json:"deadliftMaxKg,omitempty" yaml:"deadliftMaxKg"`
}

// Normalized returns a copy where unknown enum values are replaced by their defaults. Slices are shared with p since
// the engine only reads them.
func (p UserSurveyProfile) Normalized() UserSurveyProfile {
	p.Gender = ParseGender(string(p.Gender))
	p.PrimaryGoal = ParseGoal(string(p.PrimaryGoal))
	p.FitnessLevel = ParseFitnessLevel(string(p.FitnessLevel))
	p.ActivityLevel = ParseActivityLevel(string(p.ActivityLevel))
	p.DietaryPreference = ParseDietaryPreference(string(p.DietaryPreference))
	return p
}

// normalizeKey lower-cases s and turns spaces and dashes into underscores so that "Weight Loss" matches weight_loss.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
