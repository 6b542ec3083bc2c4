package plan

import (
	"math"
	"math/rand/v2"
	"slices"
)

// Tolerance bounds as a share of the calorie target.
const (
	DefaultTolerancePercent = 0.15
	MinTolerancePercent     = 0.15
	MaxTolerancePercent     = 0.20
)

const (
	// randomScoreWeight is the share of an item's score that comes from the random source.
	randomScoreWeight = 0.5
	// maxSwapPasses bounds the repair pass that swaps chosen items for unused ones.
	maxSwapPasses = 3
	// maxSubsetSumCalories bounds the table of the exact fallback.
	maxSubsetSumCalories = 12000
)

// NutritionSelection is the outcome of one constrained selection.
type NutritionSelection struct {
	Items           []NutritionItem `json:"items"`
	Totals          Nutrients       `json:"totals"`
	TargetCalories  float64         `json:"targetCalories"`
	Tolerance       float64         `json:"tolerance"`
	WithinTolerance bool            `json:"withinTolerance"`
}

// Deviation is the signed calorie difference from the target.
func (s NutritionSelection) Deviation() float64 {
	return s.Totals.Calories - s.TargetCalories
}

// NutritionRequest describes one meal slot to fill.
type NutritionRequest struct {
	// Candidates are already filtered to the meal type.
	Candidates     []NutritionItem
	TargetCalories float64
	// TolerancePercent is clamped into [MinTolerancePercent, MaxTolerancePercent].
	TolerancePercent float64
	Goal             Goal
}

// ClampTolerance keeps a tolerance share inside the supported window.
func ClampTolerance(percent float64) float64 {
	if percent == 0 {
		return DefaultTolerancePercent
	}
	return math.Max(MinTolerancePercent, math.Min(percent, MaxTolerancePercent))
}

// SelectNutrition picks items whose calories add up to the target within tolerance.
//
// The candidates are shuffled and ranked by a blend of goal alignment and randomness, then accepted greedily. When the
// greedy pass misses the window a bounded swap pass tries to repair it, and finally a subset-sum search over whole
// calories finds the closest reachable total. The result lies within tolerance whenever some combination of the
// candidates does; otherwise it is the closest combination found. The input slice is never modified.
func SelectNutrition(rng *rand.Rand, req NutritionRequest) NutritionSelection {
	tolerance := req.TargetCalories * ClampTolerance(req.TolerancePercent)
	empty := NutritionSelection{
		Items:           []NutritionItem{},
		Totals:          Nutrients{},
		TargetCalories:  req.TargetCalories,
		Tolerance:       tolerance,
		WithinTolerance: req.TargetCalories <= tolerance,
	}
	if req.TargetCalories <= 0 {
		return empty
	}
	ordered := rankCandidates(rng, req.Candidates, req.Goal)
	if len(ordered) == 0 {
		return empty
	}

	w := calorieWindow{target: req.TargetCalories, lo: req.TargetCalories - tolerance, hi: req.TargetCalories + tolerance}
	chosen := greedySelect(ordered, w)
	if !w.contains(totalCalories(ordered, chosen)) {
		chosen = swapRepair(ordered, chosen, w)
	}
	if total := totalCalories(ordered, chosen); !w.contains(total) {
		if exact, ok := closestSubsetSum(ordered, w); ok {
			if math.Abs(totalCalories(ordered, exact)-w.target) < math.Abs(total-w.target) {
				chosen = exact
			}
		}
	}

	slices.Sort(chosen)
	items := make([]NutritionItem, 0, len(chosen))
	for _, i := range chosen {
		items = append(items, ordered[i])
	}
	totals := sumNutrients(items)
	return NutritionSelection{
		Items:           items,
		Totals:          totals,
		TargetCalories:  req.TargetCalories,
		Tolerance:       tolerance,
		WithinTolerance: w.contains(totals.Calories),
	}
}

type calorieWindow struct {
	target, lo, hi float64
}

func (w calorieWindow) contains(total float64) bool {
	return total >= w.lo && total <= w.hi
}

// rankCandidates returns a shuffled copy of the usable candidates sorted by descending score.
func rankCandidates(rng *rand.Rand, candidates []NutritionItem, goal Goal) []NutritionItem {
	shuffled := make([]NutritionItem, 0, len(candidates))
	for _, c := range candidates {
		if c.Calories > 0 {
			shuffled = append(shuffled, c)
		}
	}
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	maxAlignment := 0.0
	alignments := make([]float64, len(shuffled))
	for i, item := range shuffled {
		alignments[i] = goalAlignment(goal, item)
		maxAlignment = math.Max(maxAlignment, alignments[i])
	}

	type scored struct {
		item  NutritionItem
		score float64
	}
	ranked := make([]scored, len(shuffled))
	for i, item := range shuffled {
		alignment := 0.0
		if maxAlignment > 0 {
			alignment = alignments[i] / maxAlignment
		}
		ranked[i] = scored{
			item:  item,
			score: (1-randomScoreWeight)*alignment + randomScoreWeight*rng.Float64(),
		}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	ordered := make([]NutritionItem, len(ranked))
	for i, r := range ranked {
		ordered[i] = r.item
	}
	return ordered
}

// goalAlignment scores how well an item serves the goal. Higher is better; zero means indifferent.
func goalAlignment(goal Goal, item NutritionItem) float64 {
	switch goal {
	case GoalMuscleGain, GoalStrength, GoalBodyRecomposition:
		// Protein density.
		return item.ProteinG * caloriesPerGramProtein / item.Calories
	case GoalWeightLoss:
		// Satiety per calorie: protein and fiber fill up with few calories.
		return (item.ProteinG*caloriesPerGramProtein + item.FiberG*8) / item.Calories //nolint:mnd // fiber weight.
	case GoalEndurance, GoalAthleticPerformance:
		return item.CarbsG * caloriesPerGramCarbs / item.Calories
	case GoalGeneralFitness:
		return 0
	default:
		return 0
	}
}

// greedySelect accepts items in order while they fit under the upper bound and stops once the lower bound is reached.
func greedySelect(ordered []NutritionItem, w calorieWindow) []int {
	var (
		chosen []int
		total  float64
	)
	for i, item := range ordered {
		if total >= w.lo {
			break
		}
		if total+item.Calories <= w.hi {
			chosen = append(chosen, i)
			total += item.Calories
		}
	}
	return chosen
}

// swapRepair replaces one chosen item with an unused one per pass when that moves the total closer to the target
// without exceeding the upper bound.
func swapRepair(ordered []NutritionItem, chosen []int, w calorieWindow) []int {
	chosen = slices.Clone(chosen)
	for range maxSwapPasses {
		total := totalCalories(ordered, chosen)
		if w.contains(total) {
			break
		}
		bestGap := math.Abs(total - w.target)
		bestOut, bestIn := -1, -1
		for out, ci := range chosen {
			for j, candidate := range ordered {
				if slices.Contains(chosen, j) {
					continue
				}
				next := total - ordered[ci].Calories + candidate.Calories
				if next > w.hi {
					continue
				}
				if gap := math.Abs(next - w.target); gap < bestGap {
					bestGap, bestOut, bestIn = gap, out, j
				}
			}
		}
		if bestOut == -1 {
			break
		}
		chosen[bestOut] = bestIn
	}
	return chosen
}

// closestSubsetSum runs a 0/1 reachability table over whole calories and returns the indices of the subset whose
// total is closest to the target. Items are considered in ranked order, so earlier items are preferred on ties.
func closestSubsetSum(ordered []NutritionItem, w calorieWindow) ([]int, bool) {
	limit := min(int(math.Ceil(2*w.target)), maxSubsetSumCalories)
	if limit <= 0 {
		return nil, false
	}

	// parent[s] is the index of the item that first reached sum s, -1 when unreachable.
	parent := make([]int, limit+1)
	for s := range parent {
		parent[s] = -1
	}
	parent[0] = len(ordered)
	cal := make([]int, len(ordered))
	for i, item := range ordered {
		c := int(math.Round(item.Calories))
		cal[i] = c
		if c <= 0 || c > limit {
			continue
		}
		for s := limit; s >= c; s-- {
			if parent[s] == -1 && parent[s-c] != -1 {
				parent[s] = i
			}
		}
	}

	best := -1
	target := int(math.Round(w.target))
	for d := 0; d <= limit && best == -1; d++ {
		for _, s := range []int{target - d, target + d} {
			if s > 0 && s <= limit && parent[s] != -1 {
				best = s
				break
			}
		}
	}
	if best == -1 {
		return nil, false
	}

	var chosen []int
	for s := best; s > 0; {
		i := parent[s]
		chosen = append(chosen, i)
		s -= cal[i]
	}
	return chosen, true
}

func totalCalories(ordered []NutritionItem, chosen []int) float64 {
	total := 0.0
	for _, i := range chosen {
		total += ordered[i].Calories
	}
	return total
}

// ExerciseSelection is the outcome of drawing exercises from one bucket.
type ExerciseSelection struct {
	Bucket string     `json:"bucket"`
	Items  []Exercise `json:"items"`
}

// SelectExercises shuffles a copy of the candidates and takes the first count whose ids are not in exclude. An empty
// bucket yields an empty selection.
func SelectExercises(rng *rand.Rand, bucket string, candidates []Exercise, count int, exclude map[int]bool) ExerciseSelection {
	selection := ExerciseSelection{Bucket: bucket, Items: []Exercise{}}
	if count <= 0 || len(candidates) == 0 {
		return selection
	}
	shuffled := slices.Clone(candidates)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for _, ex := range shuffled {
		if len(selection.Items) == count {
			break
		}
		if exclude[ex.ID] || slices.ContainsFunc(selection.Items, func(e Exercise) bool { return e.ID == ex.ID }) {
			continue
		}
		selection.Items = append(selection.Items, ex)
	}
	return selection
}
