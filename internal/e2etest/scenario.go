package e2etest

import (
	"context"
	"fmt"
	"net/http"
)

// SampleSurvey returns survey answers in the shape a browser client sends them.
func SampleSurvey() map[string]any {
	return map[string]any{
		"age":                    30,
		"gender":                 "Male",
		"heightCm":               170,
		"weightKg":               70,
		"primaryGoal":            "Weight Loss",
		"fitnessLevel":           "intermediate",
		"activityLevel":          "moderately_active",
		"workoutFrequency":       3,
		"workoutDurationMinutes": 60,
		"availableEquipment":     []string{},
		"injuries":               []string{},
		"dislikedExercises":      []string{"burpee"},
		"allergies":              []string{},
		"medicalConditions":      []string{},
		"dietaryPreference":      "none",
		"mealsPerDay":            3,
	}
}

// PlanScenario walks through the main user journey: save a survey, generate a plan, read it back as JSON and open the
// plan page.
func PlanScenario(ctx context.Context, client *Client, userID string) error {
	status, err := client.DoJSON(ctx, http.MethodPut, "/api/users/"+userID+"/survey", SampleSurvey(), nil)
	if err != nil {
		return fmt.Errorf("save survey: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("save survey: status %d", status)
	}

	var created struct {
		ID string `json:"id"`
	}
	if status, err = client.DoJSON(ctx, http.MethodPost, "/api/users/"+userID+"/plans", nil, &created); err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("generate plan: status %d", status)
	}

	var active struct {
		ID string `json:"id"`
	}
	if _, err = client.DoJSON(ctx, http.MethodGet, "/api/users/"+userID+"/plans/active", nil, &active); err != nil {
		return fmt.Errorf("get active plan: %w", err)
	}
	if active.ID != created.ID {
		return fmt.Errorf("active plan %q, want the generated plan %q", active.ID, created.ID)
	}

	doc, err := client.GetDoc(ctx, "/users/"+userID+"/plan")
	if err != nil {
		return fmt.Errorf("get plan page: %w", err)
	}
	if _, err = FindTableAfterHeading(doc, "Daily targets"); err != nil {
		return fmt.Errorf("plan page: %w", err)
	}
	return nil
}
