// Package auth carries the session pointer between requests in a signed
// cookie.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSession = errors.New("invalid or expired session")
	ErrMissingSession = errors.New("no session cookie")
)

// Flash categories, matching the alert styles in the templates.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Message  string `json:"m"`
	Category string `json:"c"`
}

// Session is the per-browser state: who the user is and which notices are
// waiting to be shown.
type Session struct {
	UserID  string
	Flashes []Flash
}

// AddFlash queues a notice.
func (s *Session) AddFlash(message, category string) {
	s.Flashes = append(s.Flashes, Flash{Message: message, Category: category})
}

// PopFlashes returns queued notices and empties the queue.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// Clear forgets the user and drops pending notices.
func (s *Session) Clear() {
	s.UserID = ""
	s.Flashes = nil
}

func (s *Session) empty() bool {
	return s.UserID == "" && len(s.Flashes) == 0
}

// Claims represents the JWT claims stored in the session cookie.
type Claims struct {
	UserID  string  `json:"uid,omitempty"`
	Flashes []Flash `json:"fl,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager signs and verifies session cookies.
type SessionManager struct {
	secretKey  []byte
	cookieName string
	secure     bool
	maxAge     time.Duration
	now        func() time.Time
}

// NewSessionManager creates a manager. secretKey should be a strong random
// string; maxAge bounds how long a cookie stays valid.
func NewSessionManager(secretKey, cookieName string, secure bool, maxAge time.Duration) *SessionManager {
	return &SessionManager{
		secretKey:  []byte(secretKey),
		cookieName: cookieName,
		secure:     secure,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Encode signs the session into a token string.
func (m *SessionManager) Encode(sess *Session) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:  sess.UserID,
		Flashes: sess.Flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return tokenString, nil
}

// Decode verifies a token string and returns the session it carries.
func (m *SessionManager) Decode(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	return &Session{UserID: claims.UserID, Flashes: claims.Flashes}, nil
}

// Load reads the session from the request cookie. A missing or tampered
// cookie yields an empty session alongside the reason, so callers can carry
// on with a fresh session.
func (m *SessionManager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return &Session{}, ErrMissingSession
	}
	sess, err := m.Decode(cookie.Value)
	if err != nil {
		return &Session{}, err
	}
	return sess, nil
}

// Save writes the session cookie, or expires it when the session is empty.
// It must be called before the response header is written.
func (m *SessionManager) Save(w http.ResponseWriter, sess *Session) error {
	if sess.empty() {
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
		return nil
	}

	value, err := m.Encode(sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
