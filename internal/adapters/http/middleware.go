package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/EduardoFATECOU/sistema-login/internal/application"
	"github.com/EduardoFATECOU/sistema-login/internal/domain"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeySession   ctxKey = "session"
)

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpLogger().ErrorContext(r.Context(), "panic recovered",
					"operation", "http_panic_recovery",
					"outcome", "failure",
					"request_id", requestIDFromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(payload)
	r.bytes += n
	return n, err
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		statusCode := recorder.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		outcome := "success"
		if statusCode >= 400 {
			outcome = "failure"
		}

		fields := []any{
			"operation", "http_request",
			"outcome", outcome,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", statusCode,
			"bytes", recorder.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestIDFromContext(r.Context()),
		}
		switch {
		case statusCode >= 500:
			httpLogger().ErrorContext(r.Context(), "http request completed", fields...)
		case statusCode >= 400:
			httpLogger().WarnContext(r.Context(), "http request completed", fields...)
		default:
			httpLogger().InfoContext(r.Context(), "http request completed", fields...)
		}
	})
}

// sessionMiddleware guards routes that require a logged-in user. It validates
// the session cookie, swaps it transparently when the identifier was rotated,
// and falls back to the remember-me cookie when no live session exists.
//
// Failures answer 401 with a redirect hint instead of redirecting directly:
// the routes serve JSON and the client performs the navigation.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.service.Authenticate(r.Context(), cookieValue(r, sessionCookieName))
		if err == nil {
			if sess.Rotated {
				h.setSessionCookie(w, sess.ID)
			}
			next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), sess)))
			return
		}

		if errors.Is(err, domain.ErrSessionExpired) {
			h.clearSessionCookie(w)
			h.setReturnToCookie(w, r.URL.RequestURI())
			writeRedirectError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "session expired", "/login?timeout=1")
			return
		}
		if !errors.Is(err, domain.ErrUnauthorized) {
			writeMappedError(r.Context(), w, "session_check", err)
			return
		}

		// No usable session. A remember-me token may re-establish one.
		if token := cookieValue(r, rememberCookieName); token != "" {
			resumed, resumeErr := h.service.ResumeFromRememberToken(r.Context(), token)
			if resumeErr == nil {
				h.setSessionCookie(w, resumed.SessionID)
				h.setRememberCookie(w, resumed.RememberToken, resumed.RememberExpiresAt)
				sess, err = h.service.Authenticate(r.Context(), resumed.SessionID)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), sess)))
					return
				}
			} else {
				h.clearRememberCookie(w)
			}
		}

		h.clearSessionCookie(w)
		h.setReturnToCookie(w, r.URL.RequestURI())
		writeRedirectError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated", "/login")
	})
}

func contextWithSession(ctx context.Context, sess application.AuthenticatedSession) context.Context {
	return context.WithValue(ctx, ctxKeySession, sess)
}

func sessionFromContext(ctx context.Context) (application.AuthenticatedSession, bool) {
	v := ctx.Value(ctxKeySession)
	sess, ok := v.(application.AuthenticatedSession)
	return sess, ok
}

func requestIDFromContext(ctx context.Context) string {
	v := ctx.Value(ctxKeyRequestID)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, domain.ErrLockedOut):
		return http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrInactiveAccount):
		return http.StatusForbidden, "ACCOUNT_INACTIVE", domain.ErrInactiveAccount.Error()
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "EMAIL_TAKEN", domain.ErrDuplicateEmail.Error()
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, "SESSION_EXPIRED", "session expired"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}
