// Package planreport renders generated plans for people to read.
package planreport

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//nolint:gochecknoglobals // goldmark instances are safe for concurrent use.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

//nolint:gochecknoglobals // constant replacer.
var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "<", "&lt;")

// cell escapes catalog text for a Markdown table cell. Escaping < keeps names that look like HTML readable instead
// of being dropped as raw HTML.
func cell(s string) string {
	return cellEscaper.Replace(s)
}

func title(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Markdown renders g as a Markdown document.
func Markdown(g plan.GeneratedPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %d-week %s plan\n\n", g.DurationWeeks, strings.ReplaceAll(string(g.Split), "_", " "))
	fmt.Fprintf(&b, "Seed `%d`. Confidence %d/100.\n\n", g.Seed, g.ConfidenceScore)

	writeTargets(&b, g)
	writeOutcomes(&b, g.ExpectedOutcomes)
	writeProgression(&b, g.ProgressionSchedule)
	writeTraining(&b, g.PlanStructure)
	writeNutrition(&b, g.NutritionPlan)
	return b.String()
}

// HTML renders g as an HTML fragment. Raw HTML in catalog names is escaped.
func HTML(g plan.GeneratedPlan) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(g)), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark omits raw HTML by default.
}

func writeTargets(b *strings.Builder, g plan.GeneratedPlan) {
	m := g.Metrics
	b.WriteString("## Daily targets\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Calories | %d kcal |\n", m.TargetCalories)
	fmt.Fprintf(b, "| Protein | %d g |\n", m.Macros.ProteinG)
	fmt.Fprintf(b, "| Carbs | %d g |\n", m.Macros.CarbsG)
	fmt.Fprintf(b, "| Fats | %d g |\n", m.Macros.FatsG)
	fmt.Fprintf(b, "| BMI | %.1f |\n", m.BMI)
	fmt.Fprintf(b, "| BMR | %.0f kcal |\n", m.BMR)
	fmt.Fprintf(b, "| TDEE | %.0f kcal |\n\n", m.TDEE)
}

func writeOutcomes(b *strings.Builder, o plan.ExpectedOutcomes) {
	b.WriteString("## Expected outcomes\n\n")
	fmt.Fprintf(b, "- Weight change: %+.2f kg per week, %+.1f kg in total\n", o.WeeklyWeightChangeKg,
		o.TotalWeightChangeKg)
	fmt.Fprintf(b, "- Projected weight: %.1f kg\n", o.ProjectedWeightKg)
	fmt.Fprintf(b, "- Strength gain: %.0f%%\n", o.StrengthGainPercent)
	fmt.Fprintf(b, "- Muscle gain: %.0f%%\n\n", o.MuscleGainPercent)
}

func writeProgression(b *strings.Builder, weeks []plan.ProgressionWeek) {
	b.WriteString("## Progression\n\n")
	b.WriteString("| Week | Phase | Intensity | Volume |\n|---|---|---|---|\n")
	for _, w := range weeks {
		fmt.Fprintf(b, "| %d | %s | %.1f%% | %s |\n", w.Week, title(w.Phase), w.IntensityPercent, w.VolumeTier)
	}
	b.WriteString("\n")
}

func writeTraining(b *strings.Builder, weeks []plan.TrainingWeek) {
	b.WriteString("## Training\n\n")
	for _, week := range weeks {
		fmt.Fprintf(b, "### Week %d\n\n", week.Week)
		for _, day := range week.Days {
			fmt.Fprintf(b, "#### %s: %s\n\n", day.Weekday, title(string(day.Focus)))
			if day.Skipped {
				b.WriteString("Rest day. No exercise in the catalog fits this session.\n\n")
				continue
			}
			fmt.Fprintf(b, "About %d minutes. Warm-up: %s.\n\n", day.EstimatedMinutes,
				strings.Join(day.WarmUp.Steps, ", "))
			b.WriteString("| Exercise | Sets | Reps | Rest |\n|---|---|---|---|\n")
			for _, ex := range day.Exercises {
				name := cell(ex.Name)
				if ex.Finisher {
					name += " (finisher)"
				}
				rest := "-"
				if ex.RestSeconds > 0 {
					rest = fmt.Sprintf("%ds", ex.RestSeconds)
				}
				fmt.Fprintf(b, "| %s | %d | %s | %s |\n", name, ex.Sets, cell(ex.Reps), rest)
			}
			b.WriteString("\n")
			if len(day.UnfilledBuckets) > 0 {
				fmt.Fprintf(b, "Not covered: %s.\n\n", strings.Join(day.UnfilledBuckets, ", "))
			}
			fmt.Fprintf(b, "Cool-down: %s.\n\n", strings.Join(day.CoolDown.Steps, ", "))
		}
	}
}

func writeNutrition(b *strings.Builder, n plan.NutritionPlan) {
	b.WriteString("## Nutrition\n\n")
	for _, day := range n.Days {
		fmt.Fprintf(b, "### %s\n\n", day.Weekday)
		b.WriteString("| Meal | Items | kcal | Target |\n|---|---|---|---|\n")
		for _, meal := range day.Meals {
			names := make([]string, 0, len(meal.Items))
			for _, item := range meal.Items {
				names = append(names, cell(item.Name))
			}
			target := fmt.Sprintf("%.0f", meal.TargetCalories)
			if !meal.WithinTolerance {
				target += " (missed)"
			}
			fmt.Fprintf(b, "| %s | %s | %.0f | %s |\n", title(string(meal.MealType)), strings.Join(names, ", "),
				meal.Totals.Calories, target)
		}
		fmt.Fprintf(b, "\nTotal %.0f of %d kcal (%+.1f%%).\n\n", day.Totals.Calories, day.TargetCalories,
			day.DeviationPercent)
	}
	if len(n.Tips) > 0 {
		b.WriteString("### Tips\n\n")
		for _, tip := range n.Tips {
			fmt.Fprintf(b, "- %s\n", tip)
		}
		b.WriteString("\n")
	}
}
