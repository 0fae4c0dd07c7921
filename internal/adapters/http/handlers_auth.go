package http

import (
	"errors"
	"net/http"

	"github.com/EduardoFATECOU/sistema-login/internal/application"
	"github.com/EduardoFATECOU/sistema-login/internal/domain"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "register", err)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "register", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}

	req.IPAddress = readIP(r)
	req.PriorSessionID = cookieValue(r, sessionCookieName)
	req.Target = cookieValue(r, returnToCookieName)

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}

	h.setSessionCookie(w, res.SessionID)
	if res.RememberToken != "" {
		h.setRememberCookie(w, res.RememberToken, res.RememberExpiresAt)
	}
	h.clearReturnToCookie(w)
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	redirect, err := h.service.Logout(r.Context(),
		cookieValue(r, sessionCookieName),
		cookieValue(r, rememberCookieName),
	)
	if err != nil {
		writeMappedError(r.Context(), w, "logout", err)
		return
	}

	h.clearSessionCookie(w)
	h.clearRememberCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"redirect": redirect,
	})
}

// keepAlive sits outside the session guard so it can report expiry as data
// rather than tripping the guard's redirect handling.
func (h *Handler) keepAlive(w http.ResponseWriter, r *http.Request) {
	sess, deadline, err := h.service.KeepAlive(r.Context(), cookieValue(r, sessionCookieName))
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			h.clearSessionCookie(w)
			writeRedirectError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "session expired", "/login?timeout=1")
			return
		}
		writeMappedError(r.Context(), w, "keep_alive", err)
		return
	}

	if sess.Rotated {
		h.setSessionCookie(w, sess.ID)
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"expires_at": deadline,
	})
}
