package middleware

import (
	"net"
	"net/http"
	"time"

	"campaign-lab/polystore/internal/common"
	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/logging"
	"campaign-lab/polystore/internal/metrics"
)

// RateLimitMiddleware throttles requests per client IP. When the limiter
// itself fails (for example Redis is unreachable) the request is let
// through.
func RateLimitMiddleware(limiter common.Limiter, metricsReg *metrics.MetricsRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()
			ip := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logging.Warn("Rate limiter unavailable, allowing request",
					"limiter", limiter.Name(),
					"ip", ip,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				metricsReg.RateLimitedTotal.WithLabelValues(limiter.Name()).Inc()
				common.RespondError(w, initTime, nil, constants.MsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
