package catalog

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

// Source resolves the catalog serving one session.
type Source interface {
	For(session string) *Service
}

// For returns s itself: every session shares the one cache.
func (s *Service) For(string) *Service { return s }

// Scopes keeps a separate catalog per session over shared gateways. It is
// used when the backend authorises each admin with their own token, so
// records fetched for one session are never served to another.
type Scopes struct {
	articles Gateway[models.Article]
	clients  Gateway[models.Client]
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Service
}

// NewScopes creates an empty per-session registry.
func NewScopes(articles Gateway[models.Article], clients Gateway[models.Client], logger *zap.Logger) *Scopes {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scopes{
		articles: articles,
		clients:  clients,
		logger:   logger,
		sessions: make(map[string]*Service),
	}
}

// For returns the session's catalog, creating it on first use.
func (s *Scopes) For(session string) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.sessions[session]
	if !ok {
		svc = NewService(s.articles, s.clients, s.logger)
		s.sessions[session] = svc
		s.logger.Debug("session catalog opened", zap.Int("sessions", len(s.sessions)))
	}
	return svc
}

// Release drops the session's cached records.
func (s *Scopes) Release(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, session)
}

// Len reports how many sessions hold a catalog.
func (s *Scopes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
