package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jorge11BYU/project3/internal/models"
)

// CookieName is the name of the session cookie.
const CookieName = "condo_session"

var errInvalidToken = errors.New("invalid session token")

type entry struct {
	user      *models.User
	expiresAt time.Time
}

// Store holds authenticated sessions in process memory, keyed by a random
// session id. Each session carries a snapshot of the user row taken at login;
// it is not refreshed if the underlying row changes.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry
	secret   []byte
	ttl      time.Duration
}

// NewStore creates a session store. The secret signs the cookie token, ttl
// bounds each session's lifetime.
func NewStore(secret string, ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]entry),
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create registers a new session for the user and returns its id.
func (s *Store) Create(user *models.User) string {
	id := uuid.New().String()

	s.mu.Lock()
	s.sessions[id] = entry{user: user, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return id
}

// Get returns the user held by a live session. Expired or unknown sessions
// are a miss.
func (s *Store) Get(id string) (*models.User, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.user, true
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// PruneExpired drops all expired sessions and reports how many were removed.
func (s *Store) PruneExpired() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// SignToken wraps a session id in an HS256 token for the cookie value, so a
// forged or tampered cookie fails verification before any store lookup.
func (s *Store) SignToken(id string) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sid": id,
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies a cookie token and returns the session id it carries.
func (s *Store) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errInvalidToken
	}

	return sid, nil
}
