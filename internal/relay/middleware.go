package relay

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"cipherchat/internal/logging"
)

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.statusCode == 0 {
		lrw.statusCode = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// Forward the Flusher interface
func (lrw *loggingResponseWriter) Flush() {
	if f, ok := lrw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AccessLog logs one line per request. Websocket upgrades are passed through
// unwrapped so the handler can hijack the connection.
func AccessLog(log *zap.Logger) func(http.Handler) http.Handler {
	log = logging.OrNop(log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Upgrade") == "websocket" {
				log.Info("websocket upgrade", zap.String("remote", remoteAddr(r)), zap.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)

			log.Info("request",
				zap.String("remote", remoteAddr(r)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.RequestURI()),
				zap.String("proto", r.Proto),
				zap.Int("status", lrw.statusCode),
				zap.Int("bytes", lrw.size),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func remoteAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
