// go-utils/context_keys.go

package utils

// ctxKey is unexported to prevent collisions.
type ctxKey string

// CtxKeyRequestID stores the id assigned to an inbound request by the
// logging middleware.
const CtxKeyRequestID ctxKey = "requestID"
