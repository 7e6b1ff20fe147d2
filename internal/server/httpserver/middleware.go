package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/skywatch/internal/common"
	"github.com/dmitrijs2005/skywatch/internal/logging"
	"github.com/dmitrijs2005/skywatch/internal/server/auth"
	"github.com/google/uuid"
)

type ctxKeySession struct{}

// Session is the authenticated caller, as asserted by a verified token.
type Session struct {
	UserID string
	Email  string
	Role   string
}

// SessionFromContext returns the session attached by requireSession.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKeySession{}).(Session)
	return s, ok
}

type responseRecorder struct {
	b      int
	status int
	w      http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header { return r.w.Header() }

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.w.Write(p)
	r.b += n
	return n, err
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.w.WriteHeader(statusCode)
}

// logRequests tags every request with an id, stores a request-scoped logger
// in the context and logs the outcome.
func (s *HTTPServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		log := s.logger.With(
			"http.req.path", r.URL.Path,
			"http.req.method", r.Method,
			"http.req.id", requestID,
		)

		ctx := logging.WithLogger(r.Context(), log)
		rr := &responseRecorder{w: w}
		start := time.Now()

		log.Debug(ctx, "request started")
		next.ServeHTTP(rr, r.WithContext(ctx))

		log.Info(ctx, "request complete",
			"http.resp.took_ms", time.Since(start).Milliseconds(),
			"http.resp.status", rr.status,
			"http.resp.bytes", rr.b,
		)
	})
}

// requireSession lets the request through only with a valid access_token
// cookie. Any failure is a bare 403.
func (s *HTTPServer) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(common.AccessTokenCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusForbidden, codeForbidden, "Forbidden")
			return
		}

		claims, err := auth.ParseToken(cookie.Value, s.jwtSecret)
		if err != nil {
			logging.FromContext(r.Context(), s.logger).Debug(r.Context(), "session rejected", "reason", err.Error())
			writeError(w, http.StatusForbidden, codeForbidden, "Forbidden")
			return
		}

		sess := Session{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
		ctx := context.WithValue(r.Context(), ctxKeySession{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
