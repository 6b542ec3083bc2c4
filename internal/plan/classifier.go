package plan

import (
	"slices"
	"strings"
)

// Canonical muscle groups used as exercise buckets.
const (
	MuscleChest      = "chest"
	MuscleBack       = "back"
	MuscleShoulders  = "shoulders"
	MuscleBiceps     = "biceps"
	MuscleTriceps    = "triceps"
	MuscleForearms   = "forearms"
	MuscleQuadriceps = "quadriceps"
	MuscleHamstrings = "hamstrings"
	MuscleGlutes     = "glutes"
	MuscleCalves     = "calves"
	MuscleCore       = "core"
)

// Non muscle-group exercise buckets.
const (
	BucketCompound  = "compound"
	BucketIsolation = "isolation"
	BucketCardio    = string(ExerciseCardio)
)

// minCompoundMuscleGroups is the number of distinct groups that makes a movement compound.
const minCompoundMuscleGroups = 2

//nolint:gochecknoglobals // lookup table.
var muscleAliases = map[string]string{
	"chest": MuscleChest, "pecs": MuscleChest, "pectorals": MuscleChest,
	"back": MuscleBack, "lats": MuscleBack, "upper_back": MuscleBack, "lower_back": MuscleBack,
	"traps": MuscleBack, "rhomboids": MuscleBack,
	"shoulders": MuscleShoulders, "delts": MuscleShoulders, "deltoids": MuscleShoulders,
	"biceps": MuscleBiceps,
	"triceps": MuscleTriceps,
	"forearms": MuscleForearms, "grip": MuscleForearms,
	"quadriceps": MuscleQuadriceps, "quads": MuscleQuadriceps,
	"hamstrings": MuscleHamstrings,
	"glutes": MuscleGlutes, "gluteus": MuscleGlutes,
	"calves": MuscleCalves,
	"core": MuscleCore, "abs": MuscleCore, "abdominals": MuscleCore, "obliques": MuscleCore,
}

// injuryMuscleGroups maps injured body parts to the muscle groups that load them.
//
//nolint:gochecknoglobals // lookup table.
var injuryMuscleGroups = map[string][]string{
	"knee":       {MuscleQuadriceps, MuscleHamstrings, MuscleCalves},
	"shoulder":   {MuscleShoulders},
	"back":       {MuscleBack},
	"lower_back": {MuscleBack},
	"wrist":      {MuscleForearms},
	"elbow":      {MuscleBiceps, MuscleTriceps, MuscleForearms},
	"hip":        {MuscleGlutes, MuscleHamstrings},
	"ankle":      {MuscleCalves},
	"calf":       {MuscleCalves},
	"neck":       {MuscleShoulders},
}

//nolint:gochecknoglobals // lookup table.
var compoundKeywords = []string{"squat", "deadlift", "press", "row", "pull-up", "pullup", "lunge", "clean", "snatch"}

//nolint:gochecknoglobals // lookup table.
var bodyweightEquipment = []string{"", "none", "bodyweight", "body_weight"}

// CanonicalMuscleGroup maps aliases such as "quads" to their bucket name. Unknown groups are returned normalized.
func CanonicalMuscleGroup(group string) string {
	key := normalizeKey(group)
	if canonical, ok := muscleAliases[key]; ok {
		return canonical
	}
	return key
}

// ExerciseBuckets is the per-request classification of the exercise catalog. Buckets are non-exclusive.
type ExerciseBuckets struct {
	buckets map[string][]Exercise
	// Included lists the exercises that survived exclusion in catalog order.
	Included []Exercise
}

// Bucket returns the exercises in the named bucket in catalog order.
func (b ExerciseBuckets) Bucket(name string) []Exercise {
	return b.buckets[name]
}

// Count returns the size of the named bucket.
func (b ExerciseBuckets) Count(name string) int {
	return len(b.buckets[name])
}

// NutritionBuckets is the per-request classification of the nutrition catalog by meal type.
type NutritionBuckets struct {
	buckets map[MealType][]NutritionItem
	// Included lists the items that survived exclusion in catalog order.
	Included []NutritionItem
}

// Bucket returns the items suitable for mealType.
func (b NutritionBuckets) Bucket(mealType MealType) []NutritionItem {
	return b.buckets[mealType]
}

// ClassifyExercises drops exercises the profile excludes and partitions the rest into buckets.
func ClassifyExercises(catalog []Exercise, p UserSurveyProfile) ExerciseBuckets {
	p = p.Normalized()
	excl := newExerciseExclusions(p)
	result := ExerciseBuckets{
		buckets:  make(map[string][]Exercise),
		Included: nil,
	}
	for _, ex := range catalog {
		if excl.excludes(ex) {
			continue
		}
		result.Included = append(result.Included, ex)
		for _, bucket := range exerciseBucketNames(ex) {
			result.buckets[bucket] = append(result.buckets[bucket], ex)
		}
	}
	return result
}

// exerciseBucketNames lists every bucket ex belongs to.
func exerciseBucketNames(ex Exercise) []string {
	groups := distinctMuscleGroups(ex)
	names := make([]string, 0, len(groups)+2) //nolint:mnd // compound/isolation and category.
	names = append(names, groups...)
	if IsCompound(ex) {
		names = append(names, BucketCompound)
	} else {
		names = append(names, BucketIsolation)
	}
	if ex.Category != "" {
		names = append(names, normalizeKey(string(ex.Category)))
	}
	return names
}

// IsCompound reports whether ex touches at least two distinct muscle groups or is a classic multi-joint lift.
func IsCompound(ex Exercise) bool {
	if len(distinctMuscleGroups(ex)) >= minCompoundMuscleGroups {
		return true
	}
	name := strings.ToLower(ex.Name)
	return slices.ContainsFunc(compoundKeywords, func(kw string) bool {
		return strings.Contains(name, kw)
	})
}

func distinctMuscleGroups(ex Exercise) []string {
	groups := make([]string, 0, len(ex.MuscleGroups))
	for _, g := range ex.MuscleGroups {
		canonical := CanonicalMuscleGroup(g)
		if canonical != "" && !slices.Contains(groups, canonical) {
			groups = append(groups, canonical)
		}
	}
	return groups
}

type exerciseExclusions struct {
	disliked      []string
	injuredGroups []string
	equipment     []string
	level         FitnessLevel
	filterByEquip bool
}

func newExerciseExclusions(p UserSurveyProfile) exerciseExclusions {
	var injured []string
	for _, injury := range p.Injuries {
		injured = append(injured, injuredMuscleGroups(injury)...)
	}
	equipment := normalizedTerms(p.AvailableEquipment)
	return exerciseExclusions{
		disliked:      lowerTerms(p.DislikedExercises),
		injuredGroups: injured,
		equipment:     equipment,
		level:         p.FitnessLevel,
		filterByEquip: len(equipment) > 0,
	}
}

// injuredMuscleGroups maps free-text such as "lower back pain" or "Left knee" to the muscle groups to rest. Every
// word and pair of adjacent words is looked up as a body part and as a muscle alias, with a plural "s" stripped as a
// fallback.
func injuredMuscleGroups(injury string) []string {
	key := normalizeKey(injury)
	if key == "" {
		return nil
	}
	groups := []string{CanonicalMuscleGroup(key)}
	words := strings.FieldsFunc(key, func(r rune) bool { return strings.ContainsRune("_,/()", r) })
	terms := slices.Clone(words)
	for i := 1; i < len(words); i++ {
		terms = append(terms, words[i-1]+"_"+words[i])
	}
	for _, term := range terms {
		for _, candidate := range []string{term, strings.TrimSuffix(term, "s")} {
			if parts, ok := injuryMuscleGroups[candidate]; ok {
				groups = append(groups, parts...)
			}
			if canonical, ok := muscleAliases[candidate]; ok {
				groups = append(groups, canonical)
			}
		}
	}
	return groups
}

func (e exerciseExclusions) excludes(ex Exercise) bool {
	if matchesAnyTerm(e.disliked, ex.Name, ex.Tags) {
		return true
	}
	for _, g := range distinctMuscleGroups(ex) {
		if slices.Contains(e.injuredGroups, g) {
			return true
		}
	}
	if !SuitsLevel(ex, e.level) {
		return true
	}
	return e.filterByEquip && !usesOnlyEquipment(ex, e.equipment)
}

// SuitsLevel reports whether ex is at most one difficulty tier above level. Exercises without a difficulty suit
// everyone.
func SuitsLevel(ex Exercise, level FitnessLevel) bool {
	if ex.Difficulty == "" {
		return true
	}
	return ParseFitnessLevel(string(ex.Difficulty)).rank() <= ParseFitnessLevel(string(level)).rank()+1
}

// UsesOnlyEquipment reports whether ex can be done with the available equipment. Bodyweight items are always
// available and an empty list means the user did not restrict equipment.
func UsesOnlyEquipment(ex Exercise, available []string) bool {
	terms := normalizedTerms(available)
	if len(terms) == 0 {
		return true
	}
	return usesOnlyEquipment(ex, terms)
}

func usesOnlyEquipment(ex Exercise, normalized []string) bool {
	for _, item := range ex.Equipment {
		key := normalizeKey(item)
		if !slices.Contains(bodyweightEquipment, key) && !slices.Contains(normalized, key) {
			return false
		}
	}
	return true
}

// ClassifyNutrition drops items conflicting with the diet or allergies and buckets the rest by meal type. Items
// without meal types fit every meal.
func ClassifyNutrition(catalog []NutritionItem, p UserSurveyProfile) NutritionBuckets {
	p = p.Normalized()
	allergies := lowerTerms(p.Allergies)
	result := NutritionBuckets{
		buckets:  make(map[MealType][]NutritionItem),
		Included: nil,
	}
	for _, item := range catalog {
		if !CompatibleWithDiet(item.Flags, p.DietaryPreference) ||
			matchesAnyTerm(allergies, item.Name, slices.Concat(item.Tags, item.Allergens)) {
			continue
		}
		result.Included = append(result.Included, item)
		mealTypes := item.MealTypes
		if len(mealTypes) == 0 {
			mealTypes = allMealTypes
		}
		seen := make([]MealType, 0, len(mealTypes))
		for _, mt := range mealTypes {
			mt = ParseMealType(string(mt))
			if slices.Contains(seen, mt) {
				continue
			}
			seen = append(seen, mt)
			result.buckets[mt] = append(result.buckets[mt], item)
		}
	}
	return result
}

//nolint:gochecknoglobals // lookup table.
var allMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack, MealPreWorkout, MealPostWorkout}

// CompatibleWithDiet reports whether an item with flags f fits diet.
func CompatibleWithDiet(f DietaryFlags, diet DietaryPreference) bool {
	switch diet {
	case DietVegan:
		return f.Vegan
	case DietVegetarian:
		return f.Vegetarian || f.Vegan
	case DietPescatarian:
		return f.Pescatarian || f.Vegetarian || f.Vegan
	case DietKeto:
		return f.KetoFriendly
	case DietPaleo:
		return f.Paleo
	case DietGlutenFree:
		return f.GlutenFree
	case DietDairyFree:
		return f.DairyFree || f.Vegan
	case DietNone:
		return true
	default:
		return true
	}
}

// matchesAnyTerm reports whether any term occurs in name or equals or occurs in one of the tags.
func matchesAnyTerm(terms []string, name string, tags []string) bool {
	if len(terms) == 0 {
		return false
	}
	name = strings.ToLower(name)
	for _, term := range terms {
		if strings.Contains(name, term) {
			return true
		}
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag), term) {
				return true
			}
		}
	}
	return false
}

func lowerTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalizedTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = normalizeKey(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
