package stubserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/felixgeelhaar/portal/internal/fixtures"
)

type contextKey string

const callerContextKey contextKey = "stub_caller"

// requireAuth validates the bearer token and attaches the caller.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeDetail(w, http.StatusForbidden, "Not authenticated")
			return
		}

		claims, err := s.tokens.Validate(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, errTokenExpired) {
				msg = "Token expired"
			}
			writeDetail(w, http.StatusUnauthorized, msg)
			return
		}

		caller := fixtures.Caller{UserID: claims.UserID, UserType: claims.UserType}
		if u, err := s.state.User(claims.UserID); err == nil {
			caller.Company = u.CompanyName
		}

		ctx := context.WithValue(r.Context(), callerContextKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerFrom(ctx context.Context) fixtures.Caller {
	c, _ := ctx.Value(callerContextKey).(fixtures.Caller)
	return c
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// instrument records request counts by route template and logs each request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		s.metrics.StubRequests.WithLabelValues(r.Method+" "+path, strconv.Itoa(wrapped.statusCode)).Inc()
		s.logger.Debug("stub request",
			"method", r.Method,
			"path", path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
