package plan

import "time"

// SplitType is the weekly pattern assigning muscle focus to training days.
type SplitType string

const (
	SplitFullBody     SplitType = "full_body"
	SplitUpperLower   SplitType = "upper_lower"
	SplitPushPullLegs SplitType = "push_pull_legs"
	SplitBodyPart     SplitType = "body_part"
)

// Focus labels a training day.
type Focus string

const (
	FocusFullBody  Focus = "full_body"
	FocusUpper     Focus = "upper"
	FocusLower     Focus = "lower"
	FocusPush      Focus = "push"
	FocusPull      Focus = "pull"
	FocusLegs      Focus = "legs"
	FocusChest     Focus = "chest"
	FocusBack      Focus = "back"
	FocusShoulders Focus = "shoulders"
	FocusArms      Focus = "arms"
)

// ChooseSplit is the decision table keyed by weekly frequency, fitness level and goal.
func ChooseSplit(frequency int, level FitnessLevel, goal Goal) SplitType {
	switch {
	case frequency <= 2: //nolint:mnd // two days or fewer.
		return SplitFullBody
	case frequency == 3: //nolint:mnd // three days.
		if level == LevelBeginner {
			return SplitFullBody
		}
		return SplitPushPullLegs
	case frequency == 4: //nolint:mnd // four days.
		return SplitUpperLower
	case goal == GoalMuscleGain:
		return SplitBodyPart
	default:
		return SplitPushPullLegs
	}
}

//nolint:gochecknoglobals // lookup table.
var splitRotations = map[SplitType][]Focus{
	SplitFullBody:     {FocusFullBody},
	SplitUpperLower:   {FocusUpper, FocusLower},
	SplitPushPullLegs: {FocusPush, FocusPull, FocusLegs},
	SplitBodyPart:     {FocusChest, FocusBack, FocusLegs, FocusShoulders, FocusArms},
}

// DayFocus resolves the focus of the 1-based training day within the week.
func DayFocus(split SplitType, day int) Focus {
	rotation, ok := splitRotations[split]
	if !ok || day < 1 {
		return FocusFullBody
	}
	return rotation[(day-1)%len(rotation)]
}

// focusSlot is one bucket to draw exercises from on a day.
type focusSlot struct {
	bucket string
	// primary slots receive an extra exercise on body-part days.
	primary bool
}

//nolint:gochecknoglobals // lookup table.
var focusSlots = map[Focus][]focusSlot{
	FocusFullBody: {
		{bucket: MuscleQuadriceps}, {bucket: MuscleChest}, {bucket: MuscleBack},
		{bucket: MuscleHamstrings}, {bucket: MuscleShoulders}, {bucket: MuscleCore},
	},
	FocusUpper: {
		{bucket: MuscleChest}, {bucket: MuscleBack}, {bucket: MuscleShoulders},
		{bucket: MuscleBiceps}, {bucket: MuscleTriceps},
	},
	FocusLower: {
		{bucket: MuscleQuadriceps}, {bucket: MuscleHamstrings}, {bucket: MuscleGlutes},
		{bucket: MuscleCalves}, {bucket: MuscleCore},
	},
	FocusPush:      {{bucket: MuscleChest}, {bucket: MuscleShoulders}, {bucket: MuscleTriceps}},
	FocusPull:      {{bucket: MuscleBack}, {bucket: MuscleBiceps}, {bucket: MuscleForearms}},
	FocusLegs:      {{bucket: MuscleQuadriceps}, {bucket: MuscleHamstrings}, {bucket: MuscleGlutes}, {bucket: MuscleCalves}},
	FocusChest:     {{bucket: MuscleChest, primary: true}, {bucket: MuscleTriceps}},
	FocusBack:      {{bucket: MuscleBack, primary: true}, {bucket: MuscleBiceps}},
	FocusShoulders: {{bucket: MuscleShoulders, primary: true}, {bucket: MuscleCore}},
	FocusArms:      {{bucket: MuscleBiceps, primary: true}, {bucket: MuscleTriceps, primary: true}, {bucket: MuscleForearms}},
}

// exercisesPerSlot returns how many exercises to draw from one bucket.
func exercisesPerSlot(level FitnessLevel, split SplitType, slot focusSlot) int {
	count := 1
	if split != SplitFullBody && level.experienced() {
		count = 2 //nolint:mnd // experienced lifters get two movements per group.
	}
	if split == SplitBodyPart && slot.primary {
		count++
	}
	return count
}

// needsCardioFinisher reports whether the goal adds a cardio block at the end of each session.
func needsCardioFinisher(goal Goal) bool {
	return goal == GoalWeightLoss || goal == GoalEndurance
}

// Volume is the sets, reps and rest prescribed for an exercise.
type Volume struct {
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	RestSeconds int    `json:"restSeconds"`
}

type volumeRange struct {
	minSets, maxSets int
	reps             string
	restSeconds      int
}

//nolint:gochecknoglobals // lookup table.
var goalVolumes = map[Goal]volumeRange{
	GoalStrength:          {minSets: 3, maxSets: 5, reps: "3-5", restSeconds: 180},
	GoalMuscleGain:        {minSets: 3, maxSets: 4, reps: "8-12", restSeconds: 90},
	GoalWeightLoss:        {minSets: 3, maxSets: 4, reps: "12-15", restSeconds: 45},
	GoalEndurance:         {minSets: 2, maxSets: 3, reps: "15-20", restSeconds: 30},
	GoalBodyRecomposition: {minSets: 3, maxSets: 4, reps: "8-12", restSeconds: 60},
}

//nolint:gochecknoglobals // lookup table.
var defaultVolume = volumeRange{minSets: 3, maxSets: 4, reps: "10-12", restSeconds: 60}

const (
	// overloadAfterWeek is the last week trained at base volume.
	overloadAfterWeek = 4
	// MaxSets caps any prescription.
	MaxSets = 6
)

// WeekVolume computes the prescription for a goal and level in the given 1-based week. Sets never decrease from one
// week to the next and never exceed MaxSets.
func WeekVolume(goal Goal, level FitnessLevel, week int) Volume {
	vr, ok := goalVolumes[goal]
	if !ok {
		vr = defaultVolume
	}
	sets := vr.minSets
	if level.experienced() {
		sets = min(sets+1, vr.maxSets)
	}
	if week > overloadAfterWeek {
		sets++
	}
	return Volume{Sets: min(sets, MaxSets), Reps: vr.reps, RestSeconds: vr.restSeconds}
}

// cardioVolume is the prescription for the cardio finisher.
//
//nolint:gochecknoglobals // static prescription.
var cardioVolume = Volume{Sets: 1, Reps: "15-20 min", RestSeconds: 0}

// trainingWeekdays spreads training days over the week so that rest days fall between sessions where possible.
//
//nolint:gochecknoglobals // lookup table.
var trainingWeekdays = map[int][]time.Weekday{
	1: {time.Wednesday},
	2: {time.Monday, time.Thursday},
	3: {time.Monday, time.Wednesday, time.Friday},
	4: {time.Monday, time.Tuesday, time.Thursday, time.Friday},
	5: {time.Monday, time.Tuesday, time.Wednesday, time.Friday, time.Saturday},
	6: {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	7: {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday},
}

// ScheduledWeekday returns the weekday of the 1-based training day for the given weekly frequency.
func ScheduledWeekday(frequency, day int) time.Weekday {
	days, ok := trainingWeekdays[clamp(frequency, minWorkoutFrequency, maxWorkoutFrequency)]
	if !ok || day < 1 || day > len(days) {
		return time.Monday
	}
	return days[day-1]
}

// Routine is a static warm-up or cool-down template.
type Routine struct {
	DurationMinutes int      `json:"durationMinutes"`
	Steps           []string `json:"steps"`
}

//nolint:gochecknoglobals // static templates.
var warmUps = map[Focus]Routine{
	FocusFullBody:  {DurationMinutes: 8, Steps: []string{"5 min light cardio", "Bodyweight squats x10", "Arm circles x10", "Hip hinges x10"}},
	FocusUpper:     {DurationMinutes: 7, Steps: []string{"5 min rowing", "Band pull-aparts x15", "Push-ups x8", "Shoulder dislocates x10"}},
	FocusLower:     {DurationMinutes: 8, Steps: []string{"5 min bike", "Leg swings x10 each side", "Glute bridges x12", "Bodyweight squats x10"}},
	FocusPush:      {DurationMinutes: 7, Steps: []string{"5 min light cardio", "Arm circles x10", "Scapular push-ups x10", "Light press x12"}},
	FocusPull:      {DurationMinutes: 7, Steps: []string{"5 min rowing", "Band pull-aparts x15", "Dead hangs 20s", "Light rows x12"}},
	FocusLegs:      {DurationMinutes: 8, Steps: []string{"5 min bike", "Walking lunges x10", "Leg swings x10 each side", "Goblet squats x8"}},
	FocusChest:     {DurationMinutes: 7, Steps: []string{"5 min light cardio", "Push-ups x10", "Band chest flyes x15"}},
	FocusBack:      {DurationMinutes: 7, Steps: []string{"5 min rowing", "Cat-cow x10", "Band pull-aparts x15"}},
	FocusShoulders: {DurationMinutes: 6, Steps: []string{"5 min light cardio", "Arm circles x10", "Band external rotations x12"}},
	FocusArms:      {DurationMinutes: 5, Steps: []string{"3 min jump rope", "Light curls x15", "Light pushdowns x15"}},
}

//nolint:gochecknoglobals // static templates.
var coolDowns = map[Focus]Routine{
	FocusFullBody:  {DurationMinutes: 6, Steps: []string{"Walk 3 min", "Hamstring stretch 30s", "Chest doorway stretch 30s", "Child's pose 30s"}},
	FocusUpper:     {DurationMinutes: 5, Steps: []string{"Chest doorway stretch 30s", "Lat stretch 30s each side", "Triceps stretch 30s"}},
	FocusLower:     {DurationMinutes: 6, Steps: []string{"Quad stretch 30s each side", "Hamstring stretch 30s", "Pigeon pose 30s each side"}},
	FocusPush:      {DurationMinutes: 5, Steps: []string{"Chest doorway stretch 30s", "Cross-body shoulder stretch 30s", "Triceps stretch 30s"}},
	FocusPull:      {DurationMinutes: 5, Steps: []string{"Lat stretch 30s each side", "Biceps wall stretch 30s", "Child's pose 30s"}},
	FocusLegs:      {DurationMinutes: 6, Steps: []string{"Quad stretch 30s each side", "Calf stretch 30s", "Pigeon pose 30s each side"}},
	FocusChest:     {DurationMinutes: 4, Steps: []string{"Chest doorway stretch 45s", "Triceps stretch 30s"}},
	FocusBack:      {DurationMinutes: 4, Steps: []string{"Child's pose 45s", "Lat stretch 30s each side"}},
	FocusShoulders: {DurationMinutes: 4, Steps: []string{"Cross-body shoulder stretch 30s", "Thread the needle 30s each side"}},
	FocusArms:      {DurationMinutes: 4, Steps: []string{"Biceps wall stretch 30s", "Wrist flexor stretch 30s"}},
}
