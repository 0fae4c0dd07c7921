package http

import (
	"net/http"

	"github.com/EduardoFATECOU/sistema-login/internal/application"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) profileGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
		return
	}

	res, err := h.service.GetProfile(r.Context(), sess.Data)
	if err != nil {
		writeMappedError(r.Context(), w, "profile_get", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) profileUpdate(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
		return
	}

	var req application.UpdateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "profile_update", err)
		return
	}

	res, err := h.service.UpdateProfile(r.Context(), sess.ID, sess.Data, req)
	if err != nil {
		writeMappedError(r.Context(), w, "profile_update", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_users", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"users": items})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
		return
	}

	res, err := h.service.Dashboard(r.Context(), sess.Data)
	if err != nil {
		writeMappedError(r.Context(), w, "dashboard", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
