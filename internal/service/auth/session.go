// Package auth is a login stub: it accepts credentials, issues an opaque
// session token and keeps each session's application state. It does not
// authenticate against any identity provider.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/backoffice/internal/config"
	"github.com/mamadbah2/backoffice/internal/domain/models"
	"github.com/mamadbah2/backoffice/internal/service/appstate"
)

// ErrInvalidCredentials is returned when the stub rejects a login.
var ErrInvalidCredentials = models.NewError(models.KindUnauthorized, http.StatusUnauthorized, "Invalid email or password", nil)

// Session is one logged-in admin.
type Session struct {
	Token     string
	Email     string
	CreatedAt time.Time
	State     *appstate.Store
}

// SessionManager handles admin sessions.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	cfg      config.AuthConfig
	now      func() time.Time
	onClear  []func(token string)
}

// NewSessionManager creates a new session manager.
func NewSessionManager(cfg config.AuthConfig) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Login opens a session. When admin credentials are configured they must
// match; otherwise any non-blank email and password are accepted.
func (sm *SessionManager) Login(email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if sm.cfg.AdminEmail != "" && (!strings.EqualFold(email, sm.cfg.AdminEmail) || !sm.passwordMatches(password)) {
		return nil, ErrInvalidCredentials
	}

	session := &Session{
		Token:     uuid.NewString(),
		Email:     email,
		CreatedAt: sm.now(),
		State:     appstate.NewStore(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[session.Token] = session
	return session, nil
}

// passwordMatches accepts ADMIN_PASSWORD either as a bcrypt hash or in clear.
func (sm *SessionManager) passwordMatches(password string) bool {
	if strings.HasPrefix(sm.cfg.AdminPassword, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(sm.cfg.AdminPassword), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(sm.cfg.AdminPassword), []byte(password)) == 1
}

// GetSession retrieves a session by token.
func (sm *SessionManager) GetSession(token string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, ok := sm.sessions[token]
	return session, ok
}

// OnClear registers fn to run after a session is removed.
func (sm *SessionManager) OnClear(fn func(token string)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onClear = append(sm.onClear, fn)
}

// ClearSession removes a session. Unknown tokens are an error so a double
// logout is visible.
func (sm *SessionManager) ClearSession(token string) error {
	sm.mu.Lock()
	if _, ok := sm.sessions[token]; !ok {
		sm.mu.Unlock()
		return errors.New("unknown session")
	}
	delete(sm.sessions, token)
	hooks := slices.Clone(sm.onClear)
	sm.mu.Unlock()

	for _, fn := range hooks {
		fn(token)
	}
	return nil
}
