package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"

	applog "drinkdb/internal/log"
)

const (
	sessionCSRFKey = "csrf:token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
)

// csrfToken returns the session's anti-forgery token, minting one on first use.
func csrfToken(r *http.Request) string {
	if sessionManager == nil {
		return ""
	}
	token := sessionManager.GetString(r.Context(), sessionCSRFKey)
	if token == "" {
		token = uuid.NewString()
		sessionManager.Put(r.Context(), sessionCSRFKey, token)
	}
	return token
}

// RequireCSRF rejects state-changing requests whose anti-forgery token is missing or does not
// match the session's token. The token may arrive in the X-CSRF-Token header or the csrf_token
// form field.
func RequireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		expected := ""
		if sessionManager != nil {
			expected = sessionManager.GetString(r.Context(), sessionCSRFKey)
		}
		submitted := r.Header.Get(csrfHeader)
		if submitted == "" {
			submitted = r.PostFormValue(csrfFormField)
		}

		if expected == "" || submitted == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1 {
			applog.Warn(r.Context(), "rejected request with invalid anti-forgery token",
				"method", r.Method, "path", r.URL.Path, "tokenPresent", submitted != "")
			http.Error(w, "invalid anti-forgery token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
