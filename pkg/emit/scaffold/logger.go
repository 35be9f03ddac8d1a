package scaffold

// renderLogger renders src/logger.go: the structured zerolog logger every
// generated handler and the app bootstrap log through. Grounded on
// agentoven-agentoven/control-plane/cmd/server/main.go's
// zerolog.TimeFieldFormat + log.Output(zerolog.ConsoleWriter{...}) setup,
// switching to plain JSON output outside development the way a deployed
// service needs structured, machine-parseable log lines.
func renderLogger() string {
	return `package src

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger from cfg: a
// human-readable console writer in development, plain JSON otherwise.
func InitLogger(cfg *Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
`
}

// renderRequestLogger renders src/request-logger.go: a per-request
// middleware that logs method/path/status/duration/request-id, redacting
// sensitive headers before anything touches the log line.
func renderRequestLogger() string {
	return `package src

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/schemagen/schemagen/gen/reqctx"
)

// redactedHeaders never appear in a request log line, even at debug
// level.
var redactedHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one structured line per request: method, path,
// status, duration, and the request id stashed by the request-id
// middleware. At debug level it also dumps request headers, skipping
// anything in redactedHeaders.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		evt := log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("requestId", reqctx.RequestID(r.Context()))

		if e := log.Debug(); e.Enabled() {
			dict := zerolog.Dict()
			for name, values := range r.Header {
				if redactedHeaders[strings.ToLower(name)] {
					continue
				}
				dict.Strs(name, values)
			}
			evt = evt.Dict("headers", dict)
		}
		evt.Msg("request")
	})
}
`
}
