package plan

// ExerciseCategory is the broad type of an exercise.
type ExerciseCategory string

const (
	ExerciseStrength    ExerciseCategory = "strength"
	ExerciseCardio      ExerciseCategory = "cardio"
	ExerciseFlexibility ExerciseCategory = "flexibility"
	ExercisePlyometric  ExerciseCategory = "plyometric"
)

// Exercise is a read-only entry of the exercise catalog.
type Exercise struct {
	ID                  int              `json:"id" yaml:"id"`
	Name                string           `json:"name" yaml:"name"`
	Category            ExerciseCategory `json:"category" yaml:"category"`
	MuscleGroups        []string         `json:"muscleGroups" yaml:"muscleGroups"`
	Equipment           []string         `json:"equipment" yaml:"equipment"`
	Difficulty          FitnessLevel     `json:"difficulty" yaml:"difficulty"`
	Tags                []string         `json:"tags,omitempty" yaml:"tags"`
	DescriptionMarkdown string           `json:"descriptionMarkdown,omitempty" yaml:"descriptionMarkdown"`
}

// MealType is the slot of the day a nutrition item fits.
type MealType string

const (
	MealBreakfast   MealType = "breakfast"
	MealLunch       MealType = "lunch"
	MealDinner      MealType = "dinner"
	MealSnack       MealType = "snack"
	MealPreWorkout  MealType = "pre_workout"
	MealPostWorkout MealType = "post_workout"
)

// ParseMealType maps free text to a MealType, defaulting to MealSnack.
func ParseMealType(s string) MealType {
	switch m := MealType(normalizeKey(s)); m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack, MealPreWorkout, MealPostWorkout:
		return m
	default:
		return MealSnack
	}
}

// DietaryFlags tells which diets a nutrition item is compatible with.
type DietaryFlags struct {
	Vegan        bool `json:"vegan" yaml:"vegan"`
	Vegetarian   bool `json:"vegetarian" yaml:"vegetarian"`
	Pescatarian  bool `json:"pescatarian" yaml:"pescatarian"`
	GlutenFree   bool `json:"glutenFree" yaml:"glutenFree"`
	DairyFree    bool `json:"dairyFree" yaml:"dairyFree"`
	KetoFriendly bool `json:"ketoFriendly" yaml:"ketoFriendly"`
	Paleo        bool `json:"paleo" yaml:"paleo"`
}

// NutritionItem is a read-only entry of the nutrition catalog. Nutrients are per serving.
type NutritionItem struct {
	ID          int          `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	MealTypes   []MealType   `json:"mealTypes" yaml:"mealTypes"`
	Calories    float64      `json:"calories" yaml:"calories"`
	ProteinG    float64      `json:"proteinG" yaml:"proteinG"`
	CarbsG      float64      `json:"carbsG" yaml:"carbsG"`
	FatsG       float64      `json:"fatsG" yaml:"fatsG"`
	FiberG      float64      `json:"fiberG" yaml:"fiberG"`
	ServingSize string       `json:"servingSize,omitempty" yaml:"servingSize"`
	Tags        []string     `json:"tags,omitempty" yaml:"tags"`
	Allergens   []string     `json:"allergens,omitempty" yaml:"allergens"`
	Flags       DietaryFlags `json:"flags" yaml:"flags"`
}

// Nutrients is an aggregate of calories and macros.
type Nutrients struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"proteinG"`
	CarbsG   float64 `json:"carbsG"`
	FatsG    float64 `json:"fatsG"`
	FiberG   float64 `json:"fiberG"`
}

func (n Nutrients) add(item NutritionItem) Nutrients {
	return Nutrients{
		Calories: n.Calories + item.Calories,
		ProteinG: n.ProteinG + item.ProteinG,
		CarbsG:   n.CarbsG + item.CarbsG,
		FatsG:    n.FatsG + item.FatsG,
		FiberG:   n.FiberG + item.FiberG,
	}
}

func (n Nutrients) plus(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		ProteinG: n.ProteinG + o.ProteinG,
		CarbsG:   n.CarbsG + o.CarbsG,
		FatsG:    n.FatsG + o.FatsG,
		FiberG:   n.FiberG + o.FiberG,
	}
}

func sumNutrients(items []NutritionItem) Nutrients {
	var n Nutrients
	for _, item := range items {
		n = n.add(item)
	}
	return n
}
