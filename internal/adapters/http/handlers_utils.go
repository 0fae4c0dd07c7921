package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/EduardoFATECOU/sistema-login/internal/domain"
)

func decodeBody(r *http.Request, dst any) error {
	if isFormRequest(r) {
		return decodeForm(r, dst)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func isFormRequest(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return ct == "application/x-www-form-urlencoded"
}

// decodeForm funnels classic browser form posts through the same request
// structs the JSON path fills, keyed by the json tags.
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	values := map[string]any{}
	for key, vals := range r.PostForm {
		if len(vals) == 0 {
			continue
		}
		raw := vals[0]
		if isCheckboxField(key) {
			switch strings.ToLower(raw) {
			case "on", "true", "1":
				values[key] = true
			default:
				values[key] = false
			}
			continue
		}
		values[key] = raw
	}
	buf, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}

func isCheckboxField(key string) bool {
	return key == "remember"
}

func readIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host := strings.TrimSpace(r.RemoteAddr)
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(err)
	logHTTPOperationError(ctx, operation, status, code, msg, err)

	var locked *domain.LockedOutError
	if errors.As(err, &locked) {
		w.Header().Set("Retry-After", strconv.Itoa(int(locked.RetryAfter.Seconds())))
	}

	var violations domain.ValidationErrors
	if errors.As(err, &violations) {
		writeError(w, status, code, msg, violations...)
		return
	}
	writeError(w, status, code, msg)
}

func writeValidationError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	code := "VALIDATION_ERROR"
	msg := err.Error()
	logHTTPOperationError(ctx, operation, http.StatusBadRequest, code, msg, err)
	writeError(w, http.StatusBadRequest, code, msg)
}

func writeRedirectError(w http.ResponseWriter, statusCode int, code, message, redirect string) {
	writeJSON(w, statusCode, map[string]any{
		"status":   "error",
		"code":     code,
		"message":  message,
		"redirect": redirect,
	})
}
