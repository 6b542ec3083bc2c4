package plan

import (
	"log/slog"
	"math/rand/v2"

	"github.com/myrjola/fitcoach/internal/errors"
)

// seedStream is the second PCG word. Keeping it fixed makes the seed alone decide the stream.
const seedStream = 0x9e3779b97f4a7c15

// Config tunes the engine. The zero value uses the defaults.
type Config struct {
	// TolerancePercent is the allowed share of calorie deviation per meal.
	TolerancePercent float64
	// DefaultPlanWeeks is the plan length when the goal does not imply one.
	DefaultPlanWeeks int
}

// Engine generates plans. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine clamps cfg into the supported ranges.
func NewEngine(cfg Config) *Engine {
	cfg.TolerancePercent = ClampTolerance(cfg.TolerancePercent)
	if cfg.DefaultPlanWeeks <= 0 {
		cfg.DefaultPlanWeeks = DefaultPlanWeeks
	}
	return &Engine{cfg: cfg}
}

// Request is the input of a single generation.
type Request struct {
	Profile        UserSurveyProfile
	Exercises      []Exercise
	NutritionItems []NutritionItem
	Seed           uint64
}

// GeneratedPlan is the complete output of a generation.
type GeneratedPlan struct {
	Metrics             Metrics           `json:"metrics"`
	Split               SplitType         `json:"split"`
	DurationWeeks       int               `json:"durationWeeks"`
	PlanStructure       []TrainingWeek    `json:"planStructure"`
	NutritionPlan       NutritionPlan     `json:"nutritionPlan"`
	ProgressionSchedule []ProgressionWeek `json:"progressionSchedule"`
	ConfidenceScore     int               `json:"confidenceScore"`
	ExpectedOutcomes    ExpectedOutcomes  `json:"expectedOutcomes"`
	Seed                uint64            `json:"seed,string"`
}

// SkippedSessions counts the training days for which no exercise could be selected.
func (g GeneratedPlan) SkippedSessions() int {
	n := 0
	for _, w := range g.PlanStructure {
		for _, d := range w.Days {
			if d.Skipped {
				n++
			}
		}
	}
	return n
}

// MealsOutsideTolerance counts the meals whose total missed the calorie window.
func (g GeneratedPlan) MealsOutsideTolerance() int {
	n := 0
	for _, d := range g.NutritionPlan.Days {
		for _, m := range d.Meals {
			if !m.WithinTolerance {
				n++
			}
		}
	}
	return n
}

// Generate builds the plan for req. Identical requests yield identical plans.
//
// The only error is ErrInvalidProfile. Catalogs that cannot fill a slot produce skipped sessions or meals outside
// tolerance instead.
func (e *Engine) Generate(req Request) (GeneratedPlan, error) {
	metrics, err := CalculateMetrics(req.Profile)
	if err != nil {
		return GeneratedPlan{}, errors.Wrap(err, "calculate metrics", slog.Uint64("seed", req.Seed))
	}
	p := req.Profile.Normalized()
	rng := rand.New(rand.NewPCG(req.Seed, seedStream)) //nolint:gosec // plans need variety, not secrecy.

	exerciseBuckets := ClassifyExercises(req.Exercises, p)
	nutritionBuckets := ClassifyNutrition(req.NutritionItems, p)

	split := ChooseSplit(metrics.WorkoutFrequency, p.FitnessLevel, p.PrimaryGoal)
	weeks := PlanDurationWeeks(p, e.cfg.DefaultPlanWeeks)

	structure := buildSchedule(rng, scheduleInput{
		goal:      p.PrimaryGoal,
		level:     p.FitnessLevel,
		split:     split,
		frequency: metrics.WorkoutFrequency,
		weeks:     weeks,
		buckets:   exerciseBuckets,
	})
	nutrition := buildNutritionPlan(rng, nutritionInput{
		goal:             p.PrimaryGoal,
		diet:             p.DietaryPreference,
		metrics:          metrics,
		tolerancePercent: e.cfg.TolerancePercent,
		buckets:          nutritionBuckets,
	})

	return GeneratedPlan{
		Metrics:             metrics,
		Split:               split,
		DurationWeeks:       weeks,
		PlanStructure:       structure,
		NutritionPlan:       nutrition,
		ProgressionSchedule: ProgressionSchedule(p.PrimaryGoal, weeks),
		ConfidenceScore:     ConfidenceScore(p, exerciseBuckets),
		ExpectedOutcomes:    EstimateOutcomes(p, weeks),
		Seed:                req.Seed,
	}, nil
}
