package middleware

import (
	"net"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/url-shorten/internal/logging"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request identifier in and out.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an identifier, stores a request-scoped
// logger in the context and logs the outcome once the handler returns.
func RequestLogger(logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		requestID := ctx.Header(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx.SetHeader(RequestIDHeader, requestID)

		reqLogger := logger.With(zap.String("request_id", requestID))
		ctx = huma.WithContext(ctx, logging.WithLogger(ctx.Context(), reqLogger))

		next(ctx)

		u := ctx.URL()

		reqLogger.Info("request",
			zap.String("method", ctx.Method()),
			zap.String("path", u.Path),
			zap.Int("status", ctx.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", clientIP(ctx)),
		)
	}
}

func clientIP(ctx huma.Context) string {
	// X-Forwarded-For may hold a chain; the first entry is the client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}

	return addr
}
