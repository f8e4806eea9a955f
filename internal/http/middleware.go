package http

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"asceta/portal/internal/access"
	"asceta/portal/internal/apperr"
	"asceta/portal/internal/auth"
)

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writer := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(writer, r)
		log.Printf("request method=%s path=%s status=%d duration_ms=%d request_id=%s",
			r.Method, r.URL.Path, writer.status, time.Since(start).Milliseconds(), middleware.GetReqID(r.Context()))
	})
}

// recoverer turns a panic into the generic 500 body.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("request_id=%s panic: %v\n%s", middleware.GetReqID(r.Context()), rec, debug.Stack())
				writeError(w, http.StatusInternalServerError, "server_error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware resolves the bearer token to a live account and stores both
// the account and its claims on the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, claims, err := s.identity.Authenticate(r.Context(), bearerToken(r.Header.Get("Authorization")))
		if err != nil {
			s.deny(w, r, err)
			return
		}
		ctx := access.WithAccount(r.Context(), account)
		ctx = withClaims(ctx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches the account when a valid token is present and otherwise
// lets the request through anonymously.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		account, claims, err := s.identity.Authenticate(r.Context(), token)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindUnavailable {
				fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		ctx := withClaims(access.WithAccount(r.Context(), account), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRoles(allowed ...access.Role) func(http.Handler) http.Handler {
	return access.Middleware(s.deny, allowed...)
}

func (s *Server) deny(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindAuthentication || kind == apperr.KindAuthorization {
		s.metrics.authFail.WithLabelValues(kind.String()).Inc()
	}
	fail(w, r, err)
}

type claimsKey struct{}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}
