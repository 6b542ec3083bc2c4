package coaching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/sqlite"
)

// SurveyRepository stores survey answers. Every save appends a row so that earlier answers stay around.
type SurveyRepository struct {
	baseRepository
}

// NewSurveyRepository creates a new SQLite survey repository.
func NewSurveyRepository(db *sqlite.Database) *SurveyRepository {
	return &SurveyRepository{
		baseRepository: newBaseRepository(db),
	}
}

type surveyLists struct {
	equipment, injuries, disliked, allergies, conditions string
}

func encodeSurveyLists(p plan.UserSurveyProfile) (surveyLists, error) {
	var (
		l    surveyLists
		errs [5]error
	)
	l.equipment, errs[0] = encodeStrings(p.AvailableEquipment)
	l.injuries, errs[1] = encodeStrings(p.Injuries)
	l.disliked, errs[2] = encodeStrings(p.DislikedExercises)
	l.allergies, errs[3] = encodeStrings(p.Allergies)
	l.conditions, errs[4] = encodeStrings(p.MedicalConditions)
	if err := errors.Join(errs[:]...); err != nil {
		return surveyLists{}, err
	}
	return l, nil
}

// Save stores p as the latest survey of userID, creating the user on first save.
func (r *SurveyRepository) Save(ctx context.Context, userID string, p plan.UserSurveyProfile) (err error) {
	lists, err := encodeSurveyLists(p)
	if err != nil {
		return fmt.Errorf("encode survey lists: %w", err)
	}

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
		}
	}()

	if _, err = tx.ExecContext(ctx, `INSERT INTO users (id) VALUES (?) ON CONFLICT (id) DO NOTHING`, userID); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO surveys (user_id, age, gender, height_cm, weight_kg, target_weight_kg, primary_goal, fitness_level,
		                     activity_level, workout_frequency, workout_duration_minutes, available_equipment, injuries,
		                     disliked_exercises, allergies, medical_conditions, dietary_preference, meals_per_day,
		                     daily_calorie_target, experience_years, body_fat_percent, bench_press_max_kg,
		                     squat_max_kg, deadlift_max_kg)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, p.Age, p.Gender, p.HeightCm, p.WeightKg, p.TargetWeightKg, p.PrimaryGoal, p.FitnessLevel,
		p.ActivityLevel, p.WorkoutFrequency, p.WorkoutDurationMinutes, lists.equipment, lists.injuries,
		lists.disliked, lists.allergies, lists.conditions, p.DietaryPreference, p.MealsPerDay,
		p.DailyCalorieTarget, p.ExperienceYears, p.BodyFatPercent, p.BenchPressMaxKg,
		p.SquatMaxKg, p.DeadliftMaxKg)
	if err != nil {
		return fmt.Errorf("insert survey: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Latest returns the most recent survey of userID or ErrNotFound.
func (r *SurveyRepository) Latest(ctx context.Context, userID string) (plan.UserSurveyProfile, error) {
	var (
		p                                                    plan.UserSurveyProfile
		equipment, injuries, disliked, allergies, conditions string
		calorieTarget, experienceYears                       sql.Null[int]
		bodyFat, bench, squat, deadlift                      sql.Null[float64]
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT age, gender, height_cm, weight_kg, target_weight_kg, primary_goal, fitness_level, activity_level,
		       workout_frequency, workout_duration_minutes, available_equipment, injuries, disliked_exercises,
		       allergies, medical_conditions, dietary_preference, meals_per_day, daily_calorie_target,
		       experience_years, body_fat_percent, bench_press_max_kg, squat_max_kg, deadlift_max_kg
		FROM surveys
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT 1`, userID).Scan(
		&p.Age, &p.Gender, &p.HeightCm, &p.WeightKg, &p.TargetWeightKg, &p.PrimaryGoal, &p.FitnessLevel,
		&p.ActivityLevel, &p.WorkoutFrequency, &p.WorkoutDurationMinutes, &equipment, &injuries, &disliked,
		&allergies, &conditions, &p.DietaryPreference, &p.MealsPerDay, &calorieTarget,
		&experienceYears, &bodyFat, &bench, &squat, &deadlift,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return plan.UserSurveyProfile{}, ErrNotFound
	}
	if err != nil {
		return plan.UserSurveyProfile{}, fmt.Errorf("query survey: %w", err)
	}

	var errs [5]error
	p.AvailableEquipment, errs[0] = decodeStrings[string](equipment)
	p.Injuries, errs[1] = decodeStrings[string](injuries)
	p.DislikedExercises, errs[2] = decodeStrings[string](disliked)
	p.Allergies, errs[3] = decodeStrings[string](allergies)
	p.MedicalConditions, errs[4] = decodeStrings[string](conditions)
	if err = errors.Join(errs[:]...); err != nil {
		return plan.UserSurveyProfile{}, fmt.Errorf("decode survey lists: %w", err)
	}

	p.DailyCalorieTarget = nullPtr(calorieTarget)
	p.ExperienceYears = nullPtr(experienceYears)
	p.BodyFatPercent = nullPtr(bodyFat)
	p.BenchPressMaxKg = nullPtr(bench)
	p.SquatMaxKg = nullPtr(squat)
	p.DeadliftMaxKg = nullPtr(deadlift)
	return p, nil
}

func nullPtr[T any](n sql.Null[T]) *T {
	if !n.Valid {
		return nil
	}
	return &n.V
}
