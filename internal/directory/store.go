// Package directory holds the per-session user directory: an append-only,
// ordered list of users seeded once from an external source.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/user-directory/internal/models"
	"github.com/user-directory/internal/validation"
)

// Directory is an ordered sequence of users. Insertion order is display order.
type Directory []models.User

// Source produces the initial directory contents
type Source interface {
	Fetch(ctx context.Context) ([]models.User, error)
}

// Store owns one session's directory. It is not safe for concurrent use;
// callers serialise access per session.
type Store struct {
	source    Source
	validator *validation.Validator
	log       zerolog.Logger

	records Directory
	seeded  bool
}

// NewStore creates an unseeded store backed by source
func NewStore(source Source, log zerolog.Logger) *Store {
	return &Store{
		source:    source,
		validator: validation.NewValidator(),
		log:       log.With().Str("component", "directory").Logger(),
	}
}

// Seed populates the store from its source on the first call and returns
// the directory. Later calls return the cached directory without touching
// the source. On failure the store stays unseeded and the returned error
// wraps ErrSourceUnavailable.
func (s *Store) Seed(ctx context.Context) (Directory, error) {
	if s.seeded {
		return s.Records(), nil
	}

	users, err := s.source.Fetch(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Seed fetch failed")
		if errors.Is(err, ErrSourceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	s.records = make(Directory, len(users))
	copy(s.records, users)
	s.seeded = true

	s.log.Info().Int("count", len(s.records)).Msg("Directory seeded")

	return s.Records(), nil
}

// Seeded reports whether Seed has succeeded
func (s *Store) Seeded() bool {
	return s.seeded
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of the directory
func (s *Store) Records() Directory {
	out := make(Directory, len(s.records))
	copy(out, s.records)
	return out
}

// Search filters the directory, see Search
func (s *Store) Search(term string, fields []models.Field) []models.User {
	return Search(s.records, term, fields)
}

// Insert validates name and email and appends a new record. On rejection it
// returns a *ValidationError and the directory is unchanged.
func (s *Store) Insert(name, email string) (Directory, error) {
	if !s.seeded {
		return nil, ErrNotSeeded
	}

	if errs := s.validator.ValidateUser(name, email); len(errs) > 0 {
		verr := newValidationError(errs)
		s.log.Debug().Strs("fields", verr.FieldNames()).Msg("Insert rejected")
		return nil, verr
	}

	s.records = append(s.records, models.User{Name: name, Email: email})

	s.log.Debug().Int("count", len(s.records)).Msg("User added")

	return s.Records(), nil
}
