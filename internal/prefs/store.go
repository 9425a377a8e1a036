package prefs

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/snaplocation/internal/logging"
	"github.com/dmitrijs2005/snaplocation/internal/repositories/metadata"
)

// Store reads and writes Preferences through a metadata repository.
// It keeps the last loaded values in memory; callers use Current for reads.
type Store struct {
	repo    metadata.Repository
	logger  logging.Logger
	current Preferences
}

func NewStore(repo metadata.Repository, logger logging.Logger) *Store {
	return &Store{repo: repo, logger: logger, current: Defaults()}
}

// Current returns the in-memory preferences.
func (s *Store) Current() Preferences {
	return s.current
}

// Load reads every schema key. Missing keys keep their default; stored
// values that fail validation are replaced by the default with a warning.
// A repository failure leaves all defaults in place.
func (s *Store) Load(ctx context.Context) Preferences {
	p := Defaults()

	stored, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to load preferences, using defaults", "error", err)
		s.current = p
		return p
	}

	for _, f := range Schema {
		raw, ok := stored[f.Name]
		if !ok {
			continue
		}
		if err := f.Apply(&p, string(raw)); err != nil {
			s.logger.Warn(ctx, "ignoring stored preference", "name", f.Name, "error", err)
		}
	}

	s.current = p
	return p
}

// Set validates and persists one preference.
func (s *Store) Set(ctx context.Context, name, value string) error {
	f, err := Lookup(name)
	if err != nil {
		return err
	}

	next := s.current
	if err := f.Apply(&next, value); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, f.Name, []byte(f.Format(next))); err != nil {
		return err
	}
	s.current = next
	return nil
}

// Reset removes every stored preference and returns to defaults.
func (s *Store) Reset(ctx context.Context) error {
	var errs []error
	for _, f := range Schema {
		if err := s.repo.Delete(ctx, f.Name); err != nil {
			errs = append(errs, err)
		}
	}
	s.current = Defaults()
	return errors.Join(errs...)
}
