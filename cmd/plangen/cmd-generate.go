package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/planreport"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	profilePath string
	catalogPath string
	seed        uint64
	format      string
	tolerance   float64
	weeks       int
}

func newGenerateCmd(logger *slog.Logger) *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a plan from a survey profile and a catalog",
		Long: `Generate reads a survey profile and an exercise and nutrition catalog from YAML files and writes the
generated plan to stdout. Passing the seed of an earlier run reproduces its plan exactly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("seed") {
				opts.seed = rand.Uint64() //nolint:gosec // plans need variety, not secrecy.
			}
			return runGenerate(cmd, logger, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.profilePath, "profile", "", "survey profile YAML file")
	flags.StringVar(&opts.catalogPath, "catalog", "", "catalog YAML file with exercises and nutritionItems")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for reproducible plans (random when omitted)")
	flags.StringVarP(&opts.format, "format", "f", "json", "output format: json, markdown or html")
	flags.Float64Var(&opts.tolerance, "tolerance", plan.DefaultTolerancePercent, "accepted per-meal calorie deviation")
	flags.IntVar(&opts.weeks, "weeks", plan.DefaultPlanWeeks, "plan length when the goal does not imply one")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func runGenerate(cmd *cobra.Command, logger *slog.Logger, opts generateOptions) error {
	ctx := cmd.Context()
	switch opts.format {
	case "json", "markdown", "html":
	default:
		return errors.New("unknown format", slog.String("format", opts.format))
	}

	var (
		profile plan.UserSurveyProfile
		catalog catalogFile
	)
	if err := readYAML(opts.profilePath, &profile); err != nil {
		return errors.Wrap(err, "read profile")
	}
	if err := readYAML(opts.catalogPath, &catalog); err != nil {
		return errors.Wrap(err, "read catalog")
	}
	if len(catalog.Exercises) == 0 || len(catalog.NutritionItems) == 0 {
		return errors.New("catalog needs exercises and nutrition items",
			slog.Int("exercises", len(catalog.Exercises)),
			slog.Int("nutritionItems", len(catalog.NutritionItems)))
	}

	start := time.Now()
	engine := plan.NewEngine(plan.Config{TolerancePercent: opts.tolerance, DefaultPlanWeeks: opts.weeks})
	generated, err := engine.Generate(plan.Request{
		Profile:        profile,
		Exercises:      catalog.Exercises,
		NutritionItems: catalog.NutritionItems,
		Seed:           opts.seed,
	})
	if err != nil {
		return errors.Wrap(err, "generate plan", slog.Uint64("seed", opts.seed))
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "generated plan",
		slog.Uint64("seed", opts.seed),
		slog.Duration("duration", time.Since(start)),
		slog.Int("skipped_sessions", generated.SkippedSessions()),
		slog.Int("meals_outside_tolerance", generated.MealsOutsideTolerance()))

	out := cmd.OutOrStdout()
	switch opts.format {
	case "markdown":
		_, err = fmt.Fprint(out, planreport.Markdown(generated))
	case "html":
		var html string
		html, err = renderHTML(generated)
		if err == nil {
			_, err = fmt.Fprint(out, html)
		}
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(generated)
	}
	if err != nil {
		return errors.Wrap(err, "write plan", slog.String("format", opts.format))
	}
	return nil
}

func renderHTML(g plan.GeneratedPlan) (string, error) {
	fragment, err := planreport.HTML(g)
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return string(fragment), nil
}
