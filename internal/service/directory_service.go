package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/user-directory/internal/directory"
	"github.com/user-directory/internal/metrics"
	"github.com/user-directory/internal/models"
	"github.com/user-directory/internal/session"
)

// directoryService is the concrete implementation of DirectoryService
type directoryService struct {
	manager *session.Manager
	metrics metrics.Recorder
	log     zerolog.Logger
}

func newDirectoryService(manager *session.Manager, rec metrics.Recorder, log zerolog.Logger) *directoryService {
	return &directoryService{
		manager: manager,
		metrics: rec,
		log:     log.With().Str("service", "directory").Logger(),
	}
}

// Search filters the session's directory
func (s *directoryService) Search(ctx context.Context, sessionID, term string, fields []models.Field) (*models.SearchResponse, error) {
	sess, err := s.manager.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var resp *models.SearchResponse
	sess.Do(func(store *directory.Store) error {
		users := store.Search(term, fields)
		resp = &models.SearchResponse{
			Users:   users,
			Matches: len(users),
			Total:   store.Len(),
		}
		return nil
	})

	s.metrics.RecordSearch(resp.Matches)

	return resp, nil
}

// Insert validates and appends a user to the session's directory. A
// rejected input is returned as *directory.ValidationError.
func (s *directoryService) Insert(ctx context.Context, sessionID, name, email string) (*models.InsertResponse, error) {
	sess, err := s.manager.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var dir directory.Directory
	err = sess.Do(func(store *directory.Store) error {
		var err error
		dir, err = store.Insert(name, email)
		return err
	})

	var verr *directory.ValidationError
	if errors.As(err, &verr) {
		s.metrics.RecordInsert(false)
		s.log.Info().
			Str("session_id", sessionID).
			Strs("fields", verr.FieldNames()).
			Msg("User rejected")
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInsert(true)
	s.log.Info().
		Str("session_id", sessionID).
		Int("count", len(dir)).
		Msg("User added")

	return &models.InsertResponse{
		User:  dir[len(dir)-1],
		Count: len(dir),
	}, nil
}
