// Package middleware provides HTTP middleware for the taskgraph API.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/Strob0t/taskgraph/internal/logger"
)

const headerRequestID = "X-Request-ID"

// clientRequestID limits what a caller may inject into logs and events.
var clientRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID takes X-Request-ID from the request or generates a UUID when it
// is missing or malformed. The ID is stored in the context and echoed on the
// response; it also travels on every NATS event the request triggers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if !clientRequestID.MatchString(id) {
			id = uuid.NewString()
		}

		ctx := logger.WithRequestID(r.Context(), id)
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
