package http

import (
	"net/http"
	"time"
)

const (
	sessionCookieName  = "session_id"
	rememberCookieName = "remember_token"
	returnToCookieName = "return_to"
)

// baseCookie applies the attributes every cookie in the app carries. Values
// are opaque identifiers, never user data, but they still stay out of reach
// of scripts and cross-site requests.
func (h *Handler) baseCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	// Session lifetime is enforced server-side; the cookie itself stays a
	// browser-session cookie with no Max-Age.
	http.SetCookie(w, h.baseCookie(sessionCookieName, sessionID))
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	c := h.baseCookie(sessionCookieName, "")
	c.Expires = time.Unix(0, 0)
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func (h *Handler) setRememberCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	c := h.baseCookie(rememberCookieName, token)
	c.Expires = expiresAt
	http.SetCookie(w, c)
}

func (h *Handler) clearRememberCookie(w http.ResponseWriter) {
	c := h.baseCookie(rememberCookieName, "")
	c.Expires = time.Unix(0, 0)
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func (h *Handler) setReturnToCookie(w http.ResponseWriter, target string) {
	c := h.baseCookie(returnToCookieName, target)
	c.MaxAge = int((10 * time.Minute).Seconds())
	http.SetCookie(w, c)
}

func (h *Handler) clearReturnToCookie(w http.ResponseWriter) {
	c := h.baseCookie(returnToCookieName, "")
	c.Expires = time.Unix(0, 0)
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
