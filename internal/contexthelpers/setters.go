package contexthelpers

import (
	"context"
	"net/http"
)

func SetRequestID(r *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
	return r.WithContext(ctx)
}

func SetUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
	return r.WithContext(ctx)
}

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, CspNonceContextKey, cspNonce)
	return r.WithContext(ctx)
}
