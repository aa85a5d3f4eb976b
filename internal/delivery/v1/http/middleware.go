package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/plant-catalog/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger пишет одну запись на запрос: метод, путь, статус, длительность и request id.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				reqLog := log.With(
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
				if status >= http.StatusInternalServerError {
					reqLog.Warnf("request failed")
					return
				}
				reqLog.Infof("request completed")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
