package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunIDHeader выставляется обработчиком POST /api/research.
const RunIDHeader = "X-Run-ID"

// statusRecorder запоминает код ответа и число записанных байт.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// LoggingMiddleware пишет в лог каждый запрос. Ответы 5xx (в том числе 502 при
// отказе пачки) пишутся с уровнем Warn, к запросам исследования добавляется run_id.
func LoggingMiddleware(logger *zap.Logger) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sr, r)

			fields := []zap.Field{
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("uri", r.RequestURI),
				zap.Int("status", sr.status),
				zap.Int("size", sr.bytes),
				zap.Duration("duration", time.Since(start)),
			}
			if runID := sr.Header().Get(RunIDHeader); runID != "" {
				fields = append(fields, zap.String("run_id", runID))
			}

			level := zapcore.InfoLevel
			if sr.status >= http.StatusInternalServerError {
				level = zapcore.WarnLevel
			}
			logger.Log(level, "HTTP Request", fields...)
		})
	}
}
