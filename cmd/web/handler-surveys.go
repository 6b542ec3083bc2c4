package main

import (
	"net/http"

	"github.com/myrjola/fitcoach/internal/coaching"
	"github.com/myrjola/fitcoach/internal/contexthelpers"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/plan"
)

func (app *application) surveyGET(w http.ResponseWriter, r *http.Request) {
	survey, err := app.service.Survey(r.Context(), contexthelpers.UserID(r.Context()))
	if errors.Is(err, coaching.ErrNotFound) {
		app.errorJSON(w, r, http.StatusNotFound, "no survey stored for user")
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, survey)
}

// surveyPUT stores the survey answers and responds with them normalized.
func (app *application) surveyPUT(w http.ResponseWriter, r *http.Request) {
	var survey plan.UserSurveyProfile
	if err := decodeJSON(w, r, &survey); err != nil {
		app.errorJSON(w, r, http.StatusBadRequest, err.Error())
		return
	}
	err := app.service.SaveSurvey(r.Context(), contexthelpers.UserID(r.Context()), survey)
	if errors.Is(err, plan.ErrInvalidProfile) {
		app.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
			Error:     "invalid survey",
			Fields:    plan.InvalidFields(survey),
			RequestID: "",
		})
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, survey.Normalized())
}
