package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/user-directory/internal/directory"
	"github.com/user-directory/internal/models"
	"github.com/user-directory/internal/service"
	"github.com/user-directory/internal/session"
)

// MockDirectoryService is a mock implementation of DirectoryService
type MockDirectoryService struct {
	Directories map[string]directory.Directory
	SearchFunc  func(ctx context.Context, sessionID, term string, fields []models.Field) (*models.SearchResponse, error)
	InsertFunc  func(ctx context.Context, sessionID, name, email string) (*models.InsertResponse, error)
	LastFields  []models.Field
	LastTerm    string
}

// Verify interface compliance
var _ service.DirectoryService = (*MockDirectoryService)(nil)

func NewMockDirectoryService() *MockDirectoryService {
	return &MockDirectoryService{
		Directories: make(map[string]directory.Directory),
	}
}

func (m *MockDirectoryService) Search(ctx context.Context, sessionID, term string, fields []models.Field) (*models.SearchResponse, error) {
	m.LastTerm = term
	m.LastFields = fields
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, sessionID, term, fields)
	}
	dir, ok := m.Directories[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	users := directory.Search(dir, term, fields)
	return &models.SearchResponse{Users: users, Matches: len(users), Total: len(dir)}, nil
}

func (m *MockDirectoryService) Insert(ctx context.Context, sessionID, name, email string) (*models.InsertResponse, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, sessionID, name, email)
	}
	dir, ok := m.Directories[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	user := models.User{Name: name, Email: email}
	m.Directories[sessionID] = append(dir, user)
	return &models.InsertResponse{User: user, Count: len(dir) + 1}, nil
}

// MockSessionService is a mock implementation of SessionService
type MockSessionService struct {
	CreateFunc   func(ctx context.Context) (*models.Session, error)
	Directory    *MockDirectoryService
	Ended        []string
	ReaperActive bool
}

// Verify interface compliance
var _ service.SessionService = (*MockSessionService)(nil)

// NewMockSessionService creates sessions inside dirs, seeded with SeedUsers
func NewMockSessionService(dirs *MockDirectoryService) *MockSessionService {
	return &MockSessionService{Directory: dirs}
}

func (m *MockSessionService) CreateSession(ctx context.Context) (*models.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx)
	}
	id := uuid.New().String()
	m.Directory.Directories[id] = SeedUsers()
	return &models.Session{ID: id, Count: len(m.Directory.Directories[id]), CreatedAt: time.Now()}, nil
}

func (m *MockSessionService) EndSession(ctx context.Context, sessionID string) error {
	if _, ok := m.Directory.Directories[sessionID]; !ok {
		return session.ErrSessionNotFound
	}
	delete(m.Directory.Directories, sessionID)
	m.Ended = append(m.Ended, sessionID)
	return nil
}

func (m *MockSessionService) ActiveSessions() int {
	return len(m.Directory.Directories)
}

func (m *MockSessionService) StartReaper(ctx context.Context) {
	m.ReaperActive = true
}

func (m *MockSessionService) StopReaper() {
	m.ReaperActive = false
}
