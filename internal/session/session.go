// internal/session/session.go
//
// Survey – session cookie.
//
// Context
//   A respondent's wizard lives in server memory; the browser only carries
//   an opaque random ID in the “survey_session” cookie.  The cookie holds no
//   personal data, so it is neither encrypted nor signed: guessing a live
//   122-bit UUID is the only way to reach another respondent's session.
//
//   Closing the tab and coming back within the idle window resumes the same
//   page.  Once the entry is evicted the cookie is replaced.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie.
const CookieName = "survey_session"

// setCookie issues the session cookie for id.
func setCookie(w http.ResponseWriter, r *http.Request, id string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl / time.Second),
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// cookieID returns the session ID in r, if it is a well-formed UUID.
func cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}
