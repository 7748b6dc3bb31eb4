package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"idreview/internal/domain"
	"idreview/internal/history"
	"idreview/internal/port"
	"idreview/internal/session"
)

// SessionServiceConfig holds per-session settings.
type SessionServiceConfig struct {
	HistoryLimit int
	MaxFileBytes int64
}

// Session is one open editor session.
type Session struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Controller *session.Controller

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen returns when the session was last looked up.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// SessionService defines the editor session registry contract.
type SessionService interface {
	Create(ctx context.Context) (*Session, error)
	Get(id uuid.UUID) (*Session, error)
	Close(id uuid.UUID) error
	CloseIdle(idle time.Duration) int
	CloseAll()
	Count() int
}

type sessionService struct {
	gateway  port.RemoteGateway
	previews port.PreviewStore
	observer port.SessionRegistryObserver
	cfg      SessionServiceConfig
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewSessionService creates a new SessionService implementation. observer may be nil.
func NewSessionService(
	gateway port.RemoteGateway,
	previews port.PreviewStore,
	observer port.SessionRegistryObserver,
	cfg SessionServiceConfig,
) SessionService {
	return newSessionService(gateway, previews, observer, cfg, time.Now)
}

// NewSessionServiceWithClock is NewSessionService with an injectable clock.
func NewSessionServiceWithClock(
	gateway port.RemoteGateway,
	previews port.PreviewStore,
	observer port.SessionRegistryObserver,
	cfg SessionServiceConfig,
	now func() time.Time,
) SessionService {
	return newSessionService(gateway, previews, observer, cfg, now)
}

func newSessionService(
	gateway port.RemoteGateway,
	previews port.PreviewStore,
	observer port.SessionRegistryObserver,
	cfg SessionServiceConfig,
	now func() time.Time,
) *sessionService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = history.DefaultLimit
	}
	return &sessionService{
		gateway:  gateway,
		previews: previews,
		observer: observer,
		cfg:      cfg,
		now:      now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create opens a session and runs its start callback. A history failure is recorded in the
// session state and does not fail creation.
func (s *sessionService) Create(ctx context.Context) (*Session, error) {
	opts := session.Options{MaxFileBytes: s.cfg.MaxFileBytes}
	if s.observer != nil {
		opts.Observer = s.observer
	}
	ctrl := session.NewController(s.gateway, history.NewCache(s.gateway, s.cfg.HistoryLimit), s.previews, opts)

	now := s.now()
	sess := &Session{
		ID:         uuid.New(),
		CreatedAt:  now,
		Controller: ctrl,
		lastSeen:   now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	if s.observer != nil {
		s.observer.SessionOpened()
	}

	if err := ctrl.Start(ctx); err != nil {
		log.Printf("sessionService.Create: session %s started without history: %v", sess.ID, err)
	}
	return sess, nil
}

func (s *sessionService) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *sessionService) Close(id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.closeSession(sess)
	return nil
}

// CloseIdle closes every session not looked up within idle and returns how many were closed.
func (s *sessionService) CloseIdle(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	var expired []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		log.Printf("sessionService.CloseIdle: closing session %s (last seen %s)", sess.ID, sess.LastSeen().Format(time.RFC3339))
		s.closeSession(sess)
	}
	return len(expired)
}

func (s *sessionService) CloseAll() {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		all = append(all, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range all {
		s.closeSession(sess)
	}
}

func (s *sessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *sessionService) closeSession(sess *Session) {
	sess.Controller.Close()
	if s.observer != nil {
		s.observer.SessionClosed()
	}
}
