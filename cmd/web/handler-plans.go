package main

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/myrjola/fitcoach/internal/coaching"
	"github.com/myrjola/fitcoach/internal/contexthelpers"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/plan"
	"github.com/myrjola/fitcoach/internal/planreport"
)

// plansPOST generates a plan from the latest survey. The optional seed query parameter replays an earlier plan.
func (app *application) plansPOST(w http.ResponseWriter, r *http.Request) {
	var seed *uint64
	if s := r.URL.Query().Get("seed"); s != "" {
		parsed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			app.errorJSON(w, r, http.StatusBadRequest, "seed must be an unsigned 64-bit integer")
			return
		}
		seed = &parsed
	}

	userID := contexthelpers.UserID(r.Context())
	stored, err := app.service.GeneratePlan(r.Context(), userID, seed)
	switch {
	case errors.Is(err, coaching.ErrNotFound):
		app.errorJSON(w, r, http.StatusNotFound, "no survey stored for user")
		return
	case errors.Is(err, coaching.ErrEmptyCatalog):
		app.errorJSON(w, r, http.StatusUnprocessableEntity, "no catalog items match the survey")
		return
	case errors.Is(err, plan.ErrInvalidProfile):
		app.errorJSON(w, r, http.StatusUnprocessableEntity, "invalid survey")
		return
	case err != nil:
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+userID+"/plans/active")
	app.writeJSON(w, r, http.StatusCreated, stored)
}

func (app *application) activePlanGET(w http.ResponseWriter, r *http.Request) {
	stored, err := app.service.ActivePlan(r.Context(), contexthelpers.UserID(r.Context()))
	if errors.Is(err, coaching.ErrNotFound) {
		app.errorJSON(w, r, http.StatusNotFound, "no active plan")
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, stored)
}

type planTemplateData struct {
	ID      string
	Created time.Time
	Report  template.HTML
}

func (app *application) planPageGET(w http.ResponseWriter, r *http.Request) {
	stored, err := app.service.ActivePlan(r.Context(), contexthelpers.UserID(r.Context()))
	if errors.Is(err, coaching.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	report, err := planreport.HTML(stored.Plan)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "plan", planTemplateData{
		ID:      stored.ID,
		Created: stored.Created.UTC(),
		Report:  report,
	})
}
