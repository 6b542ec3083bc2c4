package main

import (
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()
	api := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(app.recoverPanic(noCache(next)))
		}
		apiRoute = func(next http.Handler) http.Handler {
			return app.crossOriginProtection(app.timeout(next))
		}
		userRoute = func(next http.Handler) http.Handler {
			return apiRoute(app.withUserID(next))
		}
		page = func(next http.Handler) http.Handler {
			return shared(secureHeaders(app.timeout(next)))
		}
	)

	api.Handle("GET /api/healthy", apiRoute(http.HandlerFunc(app.healthy)))
	api.Handle("GET /api/users/{userID}/survey", userRoute(http.HandlerFunc(app.surveyGET)))
	api.Handle("PUT /api/users/{userID}/survey", userRoute(http.HandlerFunc(app.surveyPUT)))
	api.Handle("POST /api/users/{userID}/plans", userRoute(http.HandlerFunc(app.plansPOST)))
	api.Handle("GET /api/users/{userID}/plans/active", userRoute(http.HandlerFunc(app.activePlanGET)))
	api.Handle("/api/", apiRoute(http.HandlerFunc(app.notFound)))
	// CORS wraps the whole subtree so that preflight requests are answered before method matching.
	mux.Handle("/api/", shared(app.cors(api)))

	mux.Handle("GET /users/{userID}/plan", page(app.withUserID(http.HandlerFunc(app.planPageGET))))
	mux.Handle("/", page(http.HandlerFunc(app.notFound)))

	return mux
}
