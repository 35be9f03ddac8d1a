package scaffold

import (
	"strings"

	"github.com/schemagen/schemagen/pkg/phase"
)

// renderMiddleware renders src/middleware.go: the request-id middleware
// (grounded on google/uuid the way the IR's default `uuid()` recognition
// already depends on it) and the recover-from-panic middleware every
// generated app mounts ahead of per-model routes.
func (e *Emitter) renderMiddleware(ctx *phase.Context) string {
	var b strings.Builder
	b.WriteString(`package src

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/schemagen/schemagen/gen/reqctx"
)

// RequestID stamps every request with a uuid, readable downstream via
// reqctx.RequestID, and echoes it back as X-Request-Id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := reqctx.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Recoverer turns a panic anywhere downstream into a 500 instead of
// crashing the server, logging the recovered value.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("requestId", reqctx.RequestID(r.Context())).
					Msg("recovered panic")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(` + "`" + `{"error":"internal","message":"internal server error","status":500}` + "`" + `))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
`)
	return b.String()
}
