package plan

import (
	"math"
	"slices"

	"github.com/myrjola/fitcoach/internal/ptr"
)

const (
	baseConfidence       = 70
	confidenceBonus      = 5
	maxConfidence        = 100
	minCompoundForBonus  = 10
	minEquipmentForBonus = 5

	weeklyLossKg = -0.5
	weeklyGainKg = 0.25
)

// ConfidenceScore rates how complete the inputs are, from 0 to 100. It is a heuristic, not a statistical model: each
// known detail about the user or a well-stocked catalog adds a fixed bonus to the baseline.
func ConfidenceScore(p UserSurveyProfile, exercises ExerciseBuckets) int {
	score := baseConfidence
	bonuses := []bool{
		p.ExperienceYears != nil,
		p.BodyFatPercent != nil,
		ptr.AnySet(p.BenchPressMaxKg, p.SquatMaxKg, p.DeadliftMaxKg),
		exercises.Count(BucketCompound) >= minCompoundForBonus,
		equipmentTypes(exercises.Included) >= minEquipmentForBonus,
		len(lowerTerms(p.MedicalConditions)) == 0,
	}
	for _, ok := range bonuses {
		if ok {
			score += confidenceBonus
		}
	}
	return min(score, maxConfidence)
}

// ExpectedOutcomes projects body changes over the plan.
type ExpectedOutcomes struct {
	WeeklyWeightChangeKg float64 `json:"weeklyWeightChangeKg"`
	TotalWeightChangeKg  float64 `json:"totalWeightChangeKg"`
	ProjectedWeightKg    float64 `json:"projectedWeightKg"`
	StrengthGainPercent  float64 `json:"strengthGainPercent"`
	MuscleGainPercent    float64 `json:"muscleGainPercent"`
}

type gainEstimate struct {
	strength, muscle float64
}

//nolint:gochecknoglobals // lookup table.
var goalGains = map[Goal]gainEstimate{
	GoalStrength:            {strength: 20, muscle: 3},
	GoalMuscleGain:          {strength: 12, muscle: 5},
	GoalBodyRecomposition:   {strength: 10, muscle: 3},
	GoalWeightLoss:          {strength: 5, muscle: 0},
	GoalEndurance:           {strength: 5, muscle: 1},
	GoalAthleticPerformance: {strength: 12, muscle: 2},
	GoalGeneralFitness:      {strength: 8, muscle: 2},
}

// EstimateOutcomes applies a fixed weekly weight change for the goal over the plan duration. A weight-loss projection
// never goes below the target weight.
func EstimateOutcomes(p UserSurveyProfile, weeks int) ExpectedOutcomes {
	goal := ParseGoal(string(p.PrimaryGoal))
	weekly := 0.0
	switch goal { //nolint:exhaustive // other goals keep their weight.
	case GoalWeightLoss:
		weekly = weeklyLossKg
	case GoalMuscleGain:
		weekly = weeklyGainKg
	}
	total := weekly * float64(weeks)
	projected := p.WeightKg + total
	if goal == GoalWeightLoss && p.TargetWeightKg > 0 && projected < p.TargetWeightKg {
		projected = p.TargetWeightKg
		total = projected - p.WeightKg
	}
	gains := goalGains[goal]
	return ExpectedOutcomes{
		WeeklyWeightChangeKg: weekly,
		TotalWeightChangeKg:  roundTo(total, 1),
		ProjectedWeightKg:    roundTo(projected, 1),
		StrengthGainPercent:  gains.strength,
		MuscleGainPercent:    gains.muscle,
	}
}

// equipmentTypes counts the distinct pieces of equipment the classified exercises use. Bodyweight does not count.
func equipmentTypes(exercises []Exercise) int {
	seen := make(map[string]bool)
	for _, ex := range exercises {
		for _, item := range ex.Equipment {
			if key := normalizeKey(item); !slices.Contains(bodyweightEquipment, key) {
				seen[key] = true
			}
		}
	}
	return len(seen)
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(v*pow) / pow
}
