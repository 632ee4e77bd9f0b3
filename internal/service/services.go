package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/user-directory/internal/config"
	"github.com/user-directory/internal/directory"
	"github.com/user-directory/internal/metrics"
	"github.com/user-directory/internal/models"
	"github.com/user-directory/internal/session"
)

// DirectoryService defines the per-session directory operations
type DirectoryService interface {
	Search(ctx context.Context, sessionID, term string, fields []models.Field) (*models.SearchResponse, error)
	Insert(ctx context.Context, sessionID, name, email string) (*models.InsertResponse, error)
}

// SessionService defines session lifecycle operations
type SessionService interface {
	CreateSession(ctx context.Context) (*models.Session, error)
	EndSession(ctx context.Context, sessionID string) error
	ActiveSessions() int
	StartReaper(ctx context.Context)
	StopReaper()
}

// Services holds all service interfaces
type Services struct {
	Directory DirectoryService
	Session   SessionService
}

// NewServices creates all services. Every session is seeded from source.
func NewServices(source directory.Source, cfg *config.Config, rec metrics.Recorder, log zerolog.Logger) *Services {
	if rec == nil {
		rec = metrics.Nop{}
	}

	manager := session.NewManager(source, cfg.Session, rec, log)

	return &Services{
		Directory: newDirectoryService(manager, rec, log),
		Session:   newSessionService(manager, log),
	}
}
