package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader is read from requests and echoed on responses.
const RequestIDHeader = "X-Request-Id"

type ctxKey int

const requestIDKey ctxKey = 0

// RequestID tags every request with an id, reusing the caller's when given.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logger logs one entry per request through logger, and panics recovered by
// chi's Recoverer. Handlers get a request scoped entry via LogEntry.
func Logger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return chimiddleware.RequestLogger(&logFormatter{logger: logger})
}

type logFormatter struct {
	logger logrus.FieldLogger
}

func (f *logFormatter) NewLogEntry(r *http.Request) chimiddleware.LogEntry {
	return &requestLogEntry{entry: f.logger.WithFields(logrus.Fields{
		"request_id": GetRequestID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	})}
}

type requestLogEntry struct {
	entry *logrus.Entry
}

func (e *requestLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	entry := e.entry.WithFields(logrus.Fields{
		"status":   status,
		"bytes":    bytes,
		"duration": elapsed,
	})
	if status >= http.StatusInternalServerError {
		entry.Warn("Request failed")
	} else {
		entry.Info("Request served")
	}
}

func (e *requestLogEntry) Panic(v interface{}, stack []byte) {
	e.entry.WithFields(logrus.Fields{
		"panic": fmt.Sprint(v),
		"stack": string(stack),
	}).Error("Request panicked")
}

// LogEntry returns the request scoped entry set up by Logger, falling back to
// the standard logger.
func LogEntry(r *http.Request) *logrus.Entry {
	if e, ok := chimiddleware.GetLogEntry(r).(*requestLogEntry); ok {
		return e.entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
