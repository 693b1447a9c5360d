// internal/middleware/accesslog.go
//
// Structured access log and panic recovery.
//
// Context
// -------
// AccessLog writes one zap line per request after the handler returns:
// method, path, status, bytes, latency, and the visitor facts that
// requestinfo.Middleware attached, so mount that one first.
//
// Recover turns a handler panic into a 500 and logs the stack.

package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/requestinfo"
)

// AccessLog logs every request at Info (Warn for 5xx).
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("latency", time.Since(start)),
			zap.String("req_id", chimw.GetReqID(r.Context())),
		}
		if info := requestinfo.FromContext(r.Context()); info != nil {
			fields = append(fields,
				zap.Stringer("ip", info.IP),
				zap.String("country", info.Country),
				zap.String("device", info.Device),
				zap.Bool("bot", info.IsBot))
		}
		if status >= 500 {
			zap.L().Warn("http", fields...)
			return
		}
		zap.L().Info("http", fields...)
	})
}

// Recover converts panics into 500 responses.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				zap.L().Error("panic recovered",
					zap.Any("panic", v),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
