package plan_test

import (
	"testing"
	"time"

	"github.com/myrjola/fitcoach/internal/plan"
)

func TestChooseSplit(t *testing.T) {
	tests := []struct {
		name      string
		frequency int
		level     plan.FitnessLevel
		goal      plan.Goal
		want      plan.SplitType
	}{
		{name: "two days", frequency: 2, level: plan.LevelAdvanced, goal: plan.GoalStrength, want: plan.SplitFullBody},
		{name: "three days beginner", frequency: 3, level: plan.LevelBeginner, goal: plan.GoalMuscleGain, want: plan.SplitFullBody},
		{name: "three days intermediate", frequency: 3, level: plan.LevelIntermediate, goal: plan.GoalMuscleGain, want: plan.SplitPushPullLegs},
		{name: "four days", frequency: 4, level: plan.LevelBeginner, goal: plan.GoalWeightLoss, want: plan.SplitUpperLower},
		{name: "five days muscle gain", frequency: 5, level: plan.LevelAdvanced, goal: plan.GoalMuscleGain, want: plan.SplitBodyPart},
		{name: "six days endurance", frequency: 6, level: plan.LevelExpert, goal: plan.GoalEndurance, want: plan.SplitPushPullLegs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plan.ChooseSplit(tt.frequency, tt.level, tt.goal); got != tt.want {
				t.Errorf("ChooseSplit() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDayFocus_UpperLowerAlternates(t *testing.T) {
	want := []plan.Focus{plan.FocusUpper, plan.FocusLower, plan.FocusUpper, plan.FocusLower}
	for i, w := range want {
		if got := plan.DayFocus(plan.SplitUpperLower, i+1); got != w {
			t.Errorf("day %d focus = %q, want %q", i+1, got, w)
		}
	}
}

func TestWeekVolume_ProgressiveOverload(t *testing.T) {
	goals := []plan.Goal{
		plan.GoalWeightLoss, plan.GoalMuscleGain, plan.GoalStrength, plan.GoalEndurance,
		plan.GoalGeneralFitness, plan.GoalBodyRecomposition, plan.GoalAthleticPerformance,
	}
	levels := []plan.FitnessLevel{plan.LevelBeginner, plan.LevelIntermediate, plan.LevelAdvanced, plan.LevelExpert}
	for _, goal := range goals {
		for _, level := range levels {
			prev := 0
			for week := 1; week <= 24; week++ {
				v := plan.WeekVolume(goal, level, week)
				if v.Sets < prev {
					t.Errorf("%s/%s week %d: sets dropped from %d to %d", goal, level, week, prev, v.Sets)
				}
				if v.Sets > plan.MaxSets {
					t.Errorf("%s/%s week %d: %d sets exceeds cap", goal, level, week, v.Sets)
				}
				prev = v.Sets
			}
		}
	}
}

func TestWeekVolume(t *testing.T) {
	tests := []struct {
		name  string
		goal  plan.Goal
		level plan.FitnessLevel
		week  int
		want  plan.Volume
	}{
		{name: "strength base", goal: plan.GoalStrength, level: plan.LevelBeginner, week: 1,
			want: plan.Volume{Sets: 3, Reps: "3-5", RestSeconds: 180}},
		{name: "strength advanced overload", goal: plan.GoalStrength, level: plan.LevelAdvanced, week: 5,
			want: plan.Volume{Sets: 5, Reps: "3-5", RestSeconds: 180}},
		{name: "endurance expert capped by max", goal: plan.GoalEndurance, level: plan.LevelExpert, week: 4,
			want: plan.Volume{Sets: 3, Reps: "15-20", RestSeconds: 30}},
		{name: "default table", goal: plan.GoalGeneralFitness, level: plan.LevelIntermediate, week: 9,
			want: plan.Volume{Sets: 4, Reps: "10-12", RestSeconds: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plan.WeekVolume(tt.goal, tt.level, tt.week); got != tt.want {
				t.Errorf("WeekVolume() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlanDurationWeeks(t *testing.T) {
	tests := []struct {
		name   string
		goal   plan.Goal
		weight float64
		target float64
		want   int
	}{
		{name: "no target", goal: plan.GoalWeightLoss, weight: 80, target: 0, want: 12},
		{name: "small loss", goal: plan.GoalWeightLoss, weight: 80, target: 76.8, want: 7},
		{name: "capped", goal: plan.GoalWeightLoss, weight: 120, target: 80, want: 24},
		{name: "other goals ignore target", goal: plan.GoalMuscleGain, weight: 70, target: 75, want: 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := exampleProfile()
			p.PrimaryGoal = tt.goal
			p.WeightKg = tt.weight
			p.TargetWeightKg = tt.target
			if got := plan.PlanDurationWeeks(p, 0); got != tt.want {
				t.Errorf("PlanDurationWeeks() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProgressionSchedule(t *testing.T) {
	schedule := plan.ProgressionSchedule(plan.GoalStrength, 16)
	if len(schedule) != 16 {
		t.Fatalf("got %d weeks, want 16", len(schedule))
	}
	tests := []struct {
		week      int
		intensity float64
		tier      plan.VolumeTier
		phase     string
	}{
		{week: 1, intensity: 60, tier: plan.VolumeBase, phase: "accumulation"},
		{week: 4, intensity: 67.5, tier: plan.VolumeBase, phase: "accumulation"},
		{week: 5, intensity: 70, tier: plan.VolumeProgressive, phase: "accumulation"},
		{week: 8, intensity: 77.5, tier: plan.VolumeProgressive, phase: "intensification"},
		{week: 16, intensity: 90, tier: plan.VolumeProgressive, phase: "realization"},
	}
	for _, tt := range tests {
		got := schedule[tt.week-1]
		if got.Week != tt.week || got.IntensityPercent != tt.intensity || got.VolumeTier != tt.tier || got.Phase != tt.phase {
			t.Errorf("week %d = %+v, want intensity %v tier %s phase %s", tt.week, got, tt.intensity, tt.tier, tt.phase)
		}
	}
}

func TestScheduledWeekday(t *testing.T) {
	if got := plan.ScheduledWeekday(3, 2); got != time.Wednesday {
		t.Errorf("ScheduledWeekday(3, 2) = %v, want Wednesday", got)
	}
	if got := plan.ScheduledWeekday(1, 1); got != time.Wednesday {
		t.Errorf("ScheduledWeekday(1, 1) = %v, want Wednesday", got)
	}
}

func TestMealDistribution(t *testing.T) {
	for meals := 1; meals <= 8; meals++ {
		types, targets := plan.MealDistribution(2000, meals)
		if len(types) != meals || len(targets) != meals {
			t.Fatalf("%d meals: got %d types and %d targets", meals, len(types), len(targets))
		}
		sum := 0.0
		for _, c := range targets {
			sum += c
		}
		if sum < 1999.999 || sum > 2000.001 {
			t.Errorf("%d meals: targets sum to %v, want 2000", meals, sum)
		}
	}
	types, _ := plan.MealDistribution(2000, 5)
	want := []plan.MealType{plan.MealBreakfast, plan.MealSnack, plan.MealLunch, plan.MealSnack, plan.MealDinner}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("5 meals sequence = %v, want %v", types, want)
			break
		}
	}
}
