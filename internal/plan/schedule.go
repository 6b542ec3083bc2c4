package plan

import (
	"math"
	"math/rand/v2"
)

const (
	// DefaultPlanWeeks is the plan length when the goal does not imply one.
	DefaultPlanWeeks = 12
	// maxWeightLossWeeks caps plans derived from a target weight.
	maxWeightLossWeeks = 24
	// safeWeeklyLossKg is the weekly loss assumed when deriving the plan length.
	safeWeeklyLossKg = 0.5
	// blockWeeks is how long a set of exercises is kept before it is re-rolled.
	blockWeeks = 4

	baseIntensityPercent   = 60.0
	weeklyIntensityPercent = 2.5
	maxIntensityPercent    = 90.0

	// workSecondsPerSet estimates time under tension for one set.
	workSecondsPerSet = 45
	// cardioFinisherMinutes is the planned length of the cardio block.
	cardioFinisherMinutes = 15
)

// PlannedExercise is an exercise with its prescription for one week.
type PlannedExercise struct {
	ExerciseID   int      `json:"exerciseId"`
	Name         string   `json:"name"`
	Bucket       string   `json:"bucket"`
	MuscleGroups []string `json:"muscleGroups"`
	Finisher     bool     `json:"finisher,omitempty"`
	Volume
}

// WorkoutDay is one training session.
type WorkoutDay struct {
	Day     int    `json:"day"`
	Weekday string `json:"weekday"`
	Focus   Focus  `json:"focus"`
	// Skipped marks a session for which no exercise could be selected.
	Skipped   bool              `json:"skipped"`
	WarmUp    Routine           `json:"warmUp"`
	Exercises []PlannedExercise `json:"exercises"`
	CoolDown  Routine           `json:"coolDown"`
	// UnfilledBuckets lists the buckets that had no eligible exercise.
	UnfilledBuckets  []string `json:"unfilledBuckets,omitempty"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
}

// TrainingWeek holds the sessions of one week in order.
type TrainingWeek struct {
	Week int          `json:"week"`
	Days []WorkoutDay `json:"days"`
}

// VolumeTier names how a week's volume relates to the baseline.
type VolumeTier string

const (
	VolumeBase        VolumeTier = "base"
	VolumeProgressive VolumeTier = "progressive"
)

// ProgressionWeek describes the intent of one week.
type ProgressionWeek struct {
	Week             int        `json:"week"`
	Phase            string     `json:"phase"`
	IntensityPercent float64    `json:"intensityPercent"`
	VolumeTier       VolumeTier `json:"volumeTier"`
}

//nolint:gochecknoglobals // lookup table.
var phaseTemplates = map[Goal][3]string{
	GoalStrength:            {"accumulation", "intensification", "realization"},
	GoalMuscleGain:          {"foundation", "hypertrophy", "peak"},
	GoalWeightLoss:          {"adaptation", "fat_loss", "conditioning"},
	GoalEndurance:           {"base", "build", "peak"},
	GoalBodyRecomposition:   {"foundation", "recomposition", "consolidation"},
	GoalAthleticPerformance: {"general_preparation", "specific_preparation", "competition"},
}

//nolint:gochecknoglobals // lookup table.
var defaultPhases = [3]string{"foundation", "build", "peak"}

// PlanDurationWeeks returns the plan length. Weight loss towards a target weight takes as many weeks as losing
// half a kilogram per week needs, up to maxWeightLossWeeks.
func PlanDurationWeeks(p UserSurveyProfile, defaultWeeks int) int {
	if defaultWeeks <= 0 {
		defaultWeeks = DefaultPlanWeeks
	}
	if ParseGoal(string(p.PrimaryGoal)) != GoalWeightLoss || p.TargetWeightKg <= 0 {
		return defaultWeeks
	}
	diff := math.Abs(p.WeightKg - p.TargetWeightKg)
	if diff == 0 {
		return defaultWeeks
	}
	return clamp(int(math.Ceil(diff/safeWeeklyLossKg)), 1, maxWeightLossWeeks)
}

// ProgressionSchedule lists phase, intensity and volume tier for every week.
func ProgressionSchedule(goal Goal, weeks int) []ProgressionWeek {
	phases, ok := phaseTemplates[goal]
	if !ok {
		phases = defaultPhases
	}
	schedule := make([]ProgressionWeek, 0, weeks)
	for week := 1; week <= weeks; week++ {
		tier := VolumeBase
		if week > overloadAfterWeek {
			tier = VolumeProgressive
		}
		schedule = append(schedule, ProgressionWeek{
			Week:             week,
			Phase:            phases[(week-1)*len(phases)/weeks],
			IntensityPercent: math.Min(baseIntensityPercent+weeklyIntensityPercent*float64(week-1), maxIntensityPercent),
			VolumeTier:       tier,
		})
	}
	return schedule
}

// scheduleInput is what the builder needs from the rest of the engine.
type scheduleInput struct {
	goal      Goal
	level     FitnessLevel
	split     SplitType
	frequency int
	weeks     int
	buckets   ExerciseBuckets
}

// dayTemplate is the exercise choice for one training day, kept for a whole block.
type dayTemplate struct {
	focus      Focus
	picks      []pick
	unfilled   []string
	finisher   *pick
	hasAnyPick bool
}

type pick struct {
	bucket   string
	exercise Exercise
}

// buildSchedule lays out every week of the plan. Exercise choices are drawn at the start of each block and repeated
// until the next one while the prescription follows WeekVolume.
func buildSchedule(rng *rand.Rand, in scheduleInput) []TrainingWeek {
	weeks := make([]TrainingWeek, 0, in.weeks)
	var templates []dayTemplate
	for week := 1; week <= in.weeks; week++ {
		if (week-1)%blockWeeks == 0 {
			templates = drawBlock(rng, in)
		}
		volume := WeekVolume(in.goal, in.level, week)
		days := make([]WorkoutDay, 0, len(templates))
		for i, tmpl := range templates {
			days = append(days, renderDay(i+1, in.frequency, tmpl, volume))
		}
		weeks = append(weeks, TrainingWeek{Week: week, Days: days})
	}
	return weeks
}

func drawBlock(rng *rand.Rand, in scheduleInput) []dayTemplate {
	templates := make([]dayTemplate, 0, in.frequency)
	for day := 1; day <= in.frequency; day++ {
		focus := DayFocus(in.split, day)
		tmpl := dayTemplate{focus: focus}
		chosen := make(map[int]bool)
		for _, slot := range focusSlots[focus] {
			sel := SelectExercises(rng, slot.bucket, in.buckets.Bucket(slot.bucket), exercisesPerSlot(in.level, in.split, slot), chosen)
			if len(sel.Items) == 0 {
				tmpl.unfilled = append(tmpl.unfilled, slot.bucket)
				continue
			}
			for _, ex := range sel.Items {
				chosen[ex.ID] = true
				tmpl.picks = append(tmpl.picks, pick{bucket: slot.bucket, exercise: ex})
			}
		}
		if needsCardioFinisher(in.goal) {
			sel := SelectExercises(rng, BucketCardio, in.buckets.Bucket(BucketCardio), 1, chosen)
			if len(sel.Items) == 0 {
				tmpl.unfilled = append(tmpl.unfilled, BucketCardio)
			} else {
				tmpl.finisher = &pick{bucket: BucketCardio, exercise: sel.Items[0]}
			}
		}
		tmpl.hasAnyPick = len(tmpl.picks) > 0 || tmpl.finisher != nil
		templates = append(templates, tmpl)
	}
	return templates
}

func renderDay(day, frequency int, tmpl dayTemplate, volume Volume) WorkoutDay {
	wd := WorkoutDay{
		Day:              day,
		Weekday:          ScheduledWeekday(frequency, day).String(),
		Focus:            tmpl.focus,
		Skipped:          !tmpl.hasAnyPick,
		WarmUp:           warmUps[tmpl.focus],
		Exercises:        make([]PlannedExercise, 0, len(tmpl.picks)+1),
		CoolDown:         coolDowns[tmpl.focus],
		UnfilledBuckets:  tmpl.unfilled,
		EstimatedMinutes: 0,
	}
	if wd.Skipped {
		return wd
	}
	seconds := 0
	for _, p := range tmpl.picks {
		wd.Exercises = append(wd.Exercises, plannedExercise(p, volume, false))
		seconds += volume.Sets * (workSecondsPerSet + volume.RestSeconds)
	}
	minutes := wd.WarmUp.DurationMinutes + wd.CoolDown.DurationMinutes + int(math.Ceil(float64(seconds)/60)) //nolint:mnd // seconds per minute.
	if tmpl.finisher != nil {
		wd.Exercises = append(wd.Exercises, plannedExercise(*tmpl.finisher, cardioVolume, true))
		minutes += cardioFinisherMinutes
	}
	wd.EstimatedMinutes = minutes
	return wd
}

func plannedExercise(p pick, volume Volume, finisher bool) PlannedExercise {
	return PlannedExercise{
		ExerciseID:   p.exercise.ID,
		Name:         p.exercise.Name,
		Bucket:       p.bucket,
		MuscleGroups: distinctMuscleGroups(p.exercise),
		Finisher:     finisher,
		Volume:       volume,
	}
}
