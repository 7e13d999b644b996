package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"gymbook-promotions/pkg/logger"
	"gymbook-promotions/pkg/utils"

	"github.com/google/uuid"
)

// RequestLogger attaches a request-scoped logger and logs every request with timing and status.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()[:8]
		}

		// The auth middleware runs further in, so the token is read here as well.
		userID := ""
		if claims, err := utils.ExtractClaims(r); err == nil {
			userID = claims.UserID
		}

		baseLogger := logger.WithRequestID(requestID)
		reqLogger := baseLogger
		if userID != "" {
			reqLogger = logger.WithUserID(baseLogger, userID)
		}
		r = r.WithContext(logger.NewContext(r.Context(), &reqLogger))
		w.Header().Set("X-Request-ID", requestID)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		l := baseLogger.With().
			Str("ip", getClientIP(r)).
			Str("user_agent", r.UserAgent()).
			Logger()
		logger.HTTPRequest(&l, r.Method, r.URL.Path, wrapped.statusCode, time.Since(start), userID)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// getClientIP extracts client IP from request.
// Only the last X-Forwarded-For hop is used: it is the one appended by the load balancer,
// while earlier hops are whatever the client sent.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if hop := strings.TrimSpace(xff[strings.LastIndex(xff, ",")+1:]); hop != "" {
			return hop
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
