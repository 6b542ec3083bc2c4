package coaching

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/sqlite"
	"golang.org/x/sync/errgroup"
)

// Service handles survey storage and plan generation for users.
type Service struct {
	repo   *repository
	engine *plan.Engine
	logger *slog.Logger
}

// NewService creates a new coaching service.
func NewService(db *sqlite.Database, engine *plan.Engine, logger *slog.Logger) *Service {
	return &Service{
		repo:   newRepository(db),
		engine: engine,
		logger: logger,
	}
}

// SaveSurvey stores the survey answers of userID. Answers that no plan can be generated from are rejected with
// plan.ErrInvalidProfile.
func (s *Service) SaveSurvey(ctx context.Context, userID string, p plan.UserSurveyProfile) error {
	if _, err := plan.CalculateMetrics(p); err != nil {
		return fmt.Errorf("validate survey: %w", err)
	}
	if err := s.repo.surveys.Save(ctx, userID, p.Normalized()); err != nil {
		return fmt.Errorf("save survey: %w", err)
	}
	return nil
}

// Survey returns the latest survey of userID.
func (s *Service) Survey(ctx context.Context, userID string) (plan.UserSurveyProfile, error) {
	p, err := s.repo.surveys.Latest(ctx, userID)
	if err != nil {
		return plan.UserSurveyProfile{}, fmt.Errorf("latest survey: %w", err)
	}
	return p, nil
}

// GeneratePlan generates a plan from the latest survey of userID and stores it as the active plan.
//
// A nil seed draws a random one. The seed is stored with the plan so that it can be regenerated.
func (s *Service) GeneratePlan(ctx context.Context, userID string, seed *uint64) (StoredPlan, error) {
	start := time.Now()
	var (
		profile   plan.UserSurveyProfile
		exercises []plan.Exercise
		items     []plan.NutritionItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.repo.surveys.Latest(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		exercises, err = s.repo.exercises.List(gctx, ExerciseFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.nutrition.List(gctx, NutritionFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return StoredPlan{}, errors.Wrap(err, "fetch survey and catalogs", slog.String("user_id", userID))
	}

	// The catalogs are fetched unfiltered so that they need not wait for the survey.
	exerciseFilter := ExerciseFilter{MaxDifficulty: profile.FitnessLevel, Equipment: profile.AvailableEquipment}
	nutritionFilter := NutritionFilter{Diet: profile.DietaryPreference}
	exercises = slices.DeleteFunc(exercises, func(ex plan.Exercise) bool { return !exerciseFilter.matches(ex) })
	items = slices.DeleteFunc(items, func(item plan.NutritionItem) bool { return !nutritionFilter.matches(item) })
	if len(exercises) == 0 || len(items) == 0 {
		return StoredPlan{}, errors.Wrap(ErrEmptyCatalog, "check catalogs",
			slog.Int("exercises", len(exercises)),
			slog.Int("nutrition_items", len(items)))
	}

	req := plan.Request{
		Profile:        profile,
		Exercises:      exercises,
		NutritionItems: items,
		Seed:           rand.Uint64(), //nolint:gosec // seeds plan variety, not security.
	}
	if seed != nil {
		req.Seed = *seed
	}
	generated, err := s.engine.Generate(req)
	if err != nil {
		return StoredPlan{}, errors.Wrap(err, "generate plan", slog.String("user_id", userID))
	}

	stored, err := s.repo.plans.Save(ctx, userID, generated)
	if err != nil {
		return StoredPlan{}, errors.Wrap(err, "save plan", slog.String("user_id", userID))
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated plan",
		slog.String("user_id", userID),
		slog.String("plan_id", stored.ID),
		slog.Uint64("seed", generated.Seed),
		slog.Duration("duration", time.Since(start)),
		slog.Int("confidence", generated.ConfidenceScore),
		slog.Int("skipped_sessions", generated.SkippedSessions()),
		slog.Int("meals_outside_tolerance", generated.MealsOutsideTolerance()))
	return stored, nil
}

// ActivePlan returns the active plan of userID.
func (s *Service) ActivePlan(ctx context.Context, userID string) (StoredPlan, error) {
	stored, err := s.repo.plans.Active(ctx, userID)
	if err != nil {
		return StoredPlan{}, fmt.Errorf("active plan: %w", err)
	}
	return stored, nil
}

// PruneInactivePlans removes old inactive plans.
func (s *Service) PruneInactivePlans(ctx context.Context) error {
	n, err := s.repo.plans.PruneInactive(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("prune inactive plans: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "pruned inactive plans", slog.Int64("deleted", n))
	return nil
}
