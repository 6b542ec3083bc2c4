package contexthelpers

type contextKey string

const RequestIDContextKey = contextKey("requestID")
const UserIDContextKey = contextKey("userID")
const CspNonceContextKey = contextKey("cspNonce")
