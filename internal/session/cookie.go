// Package session reads and writes the bearer token kept in the "token" cookie.
//
// The cookie is written exactly as the HBnB pages always did: path "/", no
// expiry, and neither Secure nor HttpOnly. The token is therefore readable by
// any script on the page. That is a known weakness of the HBnB front end, kept
// so existing pages and scripts continue to work.
package session

import (
	"net/http"
	"strings"
	"time"

	"hbnb_web/internal/domain"
)

const CookieName = "token"

// GetToken scans a raw Cookie header ("a=1; token=xyz") and returns the value
// of the first token entry.
func GetToken(cookies string) (string, bool) {
	if cookies == "" {
		return "", false
	}
	for _, c := range strings.Split(cookies, "; ") {
		name, value, _ := strings.Cut(c, "=")
		if name == CookieName {
			return value, true
		}
	}
	return "", false
}

// FromRequest builds the request's session. An empty token value counts as anonymous.
func FromRequest(r *http.Request) domain.Session {
	tok, _ := GetToken(r.Header.Get("Cookie"))
	return domain.Session{Token: tok}
}

func SetToken(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: value, Path: "/"})
}

// ClearToken overwrites the cookie with an epoch expiry so the browser drops it.
func ClearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    CookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0).UTC(),
	})
}
