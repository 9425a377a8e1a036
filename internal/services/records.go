// Package services contains application services for SnapLocation.
// This file defines the record store: the history of captured locations,
// keyed by an auto-incrementing id and iterated in ascending id order.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/snaplocation/internal/common"
	"github.com/dmitrijs2005/snaplocation/internal/dbx"
	"github.com/dmitrijs2005/snaplocation/internal/logging"
	"github.com/dmitrijs2005/snaplocation/internal/models"
	"github.com/dmitrijs2005/snaplocation/internal/storage"
)

// RecordStore manages captured LocationRecords.
//
// Contract:
//   - NextID: max(existing ids)+1, or 0 when empty; recomputed on every call.
//   - Add: assigns NextID and persists; reports the id and whether it was saved.
//   - RemoveAt / GetAt: positional access over the current ascending-id order;
//     out-of-range indices yield ok=false.
//   - GetByID: primary-key lookup.
//   - ClearAll: removes every record.
//   - AllPhotoReferences: every non-empty photo reference.
//
// Storage failures are logged and reported as ok=false (or zero values),
// never returned as errors.
type RecordStore interface {
	NextID(ctx context.Context) int64
	Add(ctx context.Context, r models.LocationRecord) (int64, bool)
	RemoveAt(ctx context.Context, index int) (models.LocationRecord, bool)
	GetAt(ctx context.Context, index int) (models.LocationRecord, bool)
	GetByID(ctx context.Context, id int64) (models.LocationRecord, bool)
	Count(ctx context.Context) int
	ClearAll(ctx context.Context) bool
	AllPhotoReferences(ctx context.Context) []string
	List(ctx context.Context) []models.LocationRecord
}

// Database is satisfied by *sql.DB.
type Database interface {
	dbx.DBTX
	dbx.TxBeginner
}

type recordStore struct {
	db      Database
	manager storage.RepositoryManager
	logger  logging.Logger
}

// NewRecordStore constructs a RecordStore over db using the repositories
// vended by manager.
func NewRecordStore(db Database, manager storage.RepositoryManager, logger logging.Logger) RecordStore {
	return &recordStore{db: db, manager: manager, logger: logger}
}

func nextID(ctx context.Context, tx dbx.DBTX, m storage.RepositoryManager) (int64, error) {
	last, ok, err := m.Records(tx).MaxID(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return last + 1, nil
}

func (s *recordStore) NextID(ctx context.Context) int64 {
	id, err := nextID(ctx, s.db, s.manager)
	if err != nil {
		s.logger.Error(ctx, "failed to compute next record id", "error", err)
		return 0
	}
	return id
}

func (s *recordStore) Add(ctx context.Context, r models.LocationRecord) (int64, bool) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := nextID(ctx, tx, s.manager)
		if err != nil {
			return err
		}
		r.ID = id
		return s.manager.Records(tx).Insert(ctx, &r)
	})
	if err != nil {
		s.logger.Error(ctx, "failed to save location record", "error", err)
		return 0, false
	}
	s.logger.Debug(ctx, "location record saved", "id", r.ID, "photo", r.PhotoReference)
	return r.ID, true
}

func (s *recordStore) RemoveAt(ctx context.Context, index int) (models.LocationRecord, bool) {
	if index < 0 {
		return models.LocationRecord{}, false
	}

	var removed models.LocationRecord
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.manager.Records(tx)
		r, err := repo.GetAt(ctx, index)
		if err != nil {
			return err
		}
		removed = *r
		return repo.DeleteByID(ctx, r.ID)
	})
	if errors.Is(err, common.ErrorNotFound) {
		return models.LocationRecord{}, false
	}
	if err != nil {
		s.logger.Error(ctx, "failed to remove location record", "index", index, "error", err)
		return models.LocationRecord{}, false
	}
	return removed, true
}

func (s *recordStore) GetAt(ctx context.Context, index int) (models.LocationRecord, bool) {
	if index < 0 {
		return models.LocationRecord{}, false
	}
	r, err := s.manager.Records(s.db).GetAt(ctx, index)
	return s.found(ctx, r, err, "index", index)
}

func (s *recordStore) GetByID(ctx context.Context, id int64) (models.LocationRecord, bool) {
	r, err := s.manager.Records(s.db).GetByID(ctx, id)
	return s.found(ctx, r, err, "id", id)
}

func (s *recordStore) found(ctx context.Context, r *models.LocationRecord, err error, key string, val any) (models.LocationRecord, bool) {
	if errors.Is(err, common.ErrorNotFound) {
		return models.LocationRecord{}, false
	}
	if err != nil {
		s.logger.Error(ctx, "failed to read location record", key, val, "error", err)
		return models.LocationRecord{}, false
	}
	return *r, true
}

func (s *recordStore) Count(ctx context.Context) int {
	n, err := s.manager.Records(s.db).Count(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to count location records", "error", err)
		return 0
	}
	return n
}

func (s *recordStore) ClearAll(ctx context.Context) bool {
	if err := s.manager.Records(s.db).DeleteAll(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear location records", "error", err)
		return false
	}
	return true
}

func (s *recordStore) AllPhotoReferences(ctx context.Context) []string {
	refs, err := s.manager.Records(s.db).PhotoReferences(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list photo references", "error", err)
		return nil
	}
	return refs
}

func (s *recordStore) List(ctx context.Context) []models.LocationRecord {
	list, err := s.manager.Records(s.db).List(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list location records", "error", err)
		return nil
	}
	return list
}
