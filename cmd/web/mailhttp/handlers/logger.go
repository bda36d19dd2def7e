package handlers

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	RequestID contextValue = "request_id"
)

type contextValue string

func (cv contextValue) String() string {
	return string(cv)
}

// WithRequestLogger tags every request with an incrementing id, propagates it
// on the context and logs request start and end.
func WithRequestLogger(logger logrus.FieldLogger) HandlerWrapper {

	logger = logger.WithField("middleware", "request_logger")
	return func(handler http.Handler) http.Handler {

		var reqID uint64
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writer := NewCustomResponseWriter(w)
			rid := strconv.FormatUint(atomic.AddUint64(&reqID, 1), 10)

			logger := logger.WithFields(logrus.Fields{
				"request_id": rid,
				"method":     r.Method,
				"uri":        r.RequestURI,
			})

			r = r.WithContext(context.WithValue(r.Context(), RequestID, rid))

			logger.WithFields(logrus.Fields{
				"content_length": r.ContentLength,
			}).Debug("Request start")

			start := time.Now()
			defer func(w *CustomResponseWriter) {
				logger.WithFields(logrus.Fields{
					"time_µs":             time.Since(start).Microseconds(),
					"response_size_bytes": w.BytesWritten,
					"http_status":         w.Status,
				}).Debug("Request end")
			}(writer)

			handler.ServeHTTP(writer, r)
		})
	}
}
