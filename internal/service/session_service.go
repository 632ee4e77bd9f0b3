package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/user-directory/internal/models"
	"github.com/user-directory/internal/session"
)

// sessionService is the concrete implementation of SessionService
type sessionService struct {
	manager *session.Manager
	log     zerolog.Logger
}

func newSessionService(manager *session.Manager, log zerolog.Logger) *sessionService {
	return &sessionService{
		manager: manager,
		log:     log.With().Str("service", "session").Logger(),
	}
}

// CreateSession starts a session and seeds its directory
func (s *sessionService) CreateSession(ctx context.Context) (*models.Session, error) {
	sess, dir, err := s.manager.Create(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		ID:        sess.ID,
		Count:     len(dir),
		CreatedAt: sess.CreatedAt,
	}, nil
}

// EndSession discards a session
func (s *sessionService) EndSession(ctx context.Context, sessionID string) error {
	return s.manager.End(sessionID)
}

func (s *sessionService) ActiveSessions() int {
	return s.manager.Count()
}

func (s *sessionService) StartReaper(ctx context.Context) {
	s.manager.StartReaper(ctx)
}

func (s *sessionService) StopReaper() {
	s.manager.StopReaper()
}
