package auth

import (
	"net/http"
	"net/url"

	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie name of the browser session.
	SessionName = "praxisflow_session"
	// sessionTokenField is the session value holding the access token.
	sessionTokenField = "access_token"
)

// SessionStore wraps a gorilla cookie store that carries the operator's
// access token for same-site browser requests from the practice UI. API
// clients use the Authorization header instead and never touch the store.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore creates a session store signed with key. Cookie security
// attributes are derived from the deployment base URL: HTTPS deployments
// get Secure cookies, localhost does not.
func NewSessionStore(key string, baseURL string, cookieDomain string) *SessionStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cookieDomain,
		MaxAge:   8 * 60 * 60,
		HttpOnly: true,
		Secure:   isHTTPS(baseURL),
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// TokenFromRequest returns the access token stored in the browser session,
// or empty string when the request carries no usable session.
func (s *SessionStore) TokenFromRequest(r *http.Request) string {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[sessionTokenField].(string)
	return token
}

// SaveToken stores the access token in the browser session.
func (s *SessionStore) SaveToken(w http.ResponseWriter, r *http.Request, token string) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values[sessionTokenField] = token
	return session.Save(r, w)
}

// Clear removes the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// isHTTPS determines if the given base URL uses HTTPS. Returns true for
// empty/invalid URLs (safe default).
func isHTTPS(baseURL string) bool {
	if baseURL == "" {
		return true
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return true
	}
	return parsedURL.Scheme != "http"
}
