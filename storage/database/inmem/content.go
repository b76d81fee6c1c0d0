package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/content"
)

type contentRepository struct {
	db *contentTable
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{db: db.content}
}

func (repo *contentRepository) CreateContent(_ context.Context, rec content.Record) (content.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if rec.ID == "" {
		rec.ID = core.NewID()
	}
	stored := rec
	repo.db.table[rec.ID] = &stored
	return rec, nil
}

func (repo *contentRepository) QueryContents(_ context.Context, filter content.QueryFilter) ([]content.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]content.Record, 0)
	for _, rec := range repo.db.table {
		if rec.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		recs = append(recs, *rec)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID > recs[j].ID // ObjectIDs grow with time
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

func (repo *contentRepository) GetContent(_ context.Context, id string) (content.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rec, ok := repo.db.table[id]; ok {
		return *rec, nil
	}
	return content.Record{}, content.ErrNotFound
}

func (repo *contentRepository) DeleteContent(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return content.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *contentRepository) UpdateContentStatus(_ context.Context, id, status string, updatedAt time.Time) (content.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rec, ok := repo.db.table[id]
	if !ok {
		return content.Record{}, content.ErrNotFound
	}
	rec.Status = status
	rec.UpdatedAt = updatedAt
	return *rec, nil
}

func (repo *contentRepository) IncrementContentCounter(_ context.Context, id string, counter content.Counter) (content.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rec, ok := repo.db.table[id]
	if !ok {
		return content.Record{}, content.ErrNotFound
	}
	switch counter {
	case content.CounterViews:
		rec.Views++
	case content.CounterDownloads:
		rec.Downloads++
	}
	return *rec, nil
}
