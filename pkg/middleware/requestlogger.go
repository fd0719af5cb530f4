package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Dffarhn/recyle-food-mobile/pkg/logger"
)

// RequestLogger stores a request-scoped logger carrying correlation_id,
// device_id, trace_id and span_id in the context. Handlers fetch it with
// logger.FromContext. Mount after RequestLogging and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if logger.DeviceIDFromContext(ctx) == "" {
				if deviceID := r.Header.Get(HeaderDeviceID); deviceID != "" {
					ctx = logger.WithDeviceID(ctx, deviceID)
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
