package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/Mohan-b-dev/std-dash/core/student"
)

type studentRepository struct {
	db *studentTable
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

// query must be called with the table lock held.
func (repo *studentRepository) query(match func(student.Record) bool) []student.Record {
	recs := make([]student.Record, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		if rec := repo.db.table[id]; match == nil || match(*rec) {
			recs = append(recs, *rec)
		}
	}
	return recs
}

func (repo *studentRepository) ListAll(_ context.Context) ([]student.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(nil), nil
}

func (repo *studentRepository) QueryByField(_ context.Context, field, value string) ([]student.Record, error) {
	if !student.IsField(field) {
		return nil, student.ErrUnknownField
	}

	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(func(rec student.Record) bool { return rec.Value(field) == value }), nil
}

func (repo *studentRepository) GetByID(_ context.Context, id string) (student.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rec, ok := repo.db.table[id]; ok {
		return *rec, nil
	}
	return student.Record{}, student.ErrNotFound
}

func (repo *studentRepository) Create(_ context.Context, rec student.Record) (student.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rec.ID = uuid.New().String()
	repo.db.table[rec.ID] = &rec
	repo.db.order = append(repo.db.order, rec.ID)
	return rec, nil
}

func (repo *studentRepository) UpdateByID(_ context.Context, id string, fields student.Fields) error {
	if !fields.Valid() {
		return student.ErrUnknownField
	}

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rec, ok := repo.db.table[id]
	if !ok {
		return student.ErrNotFound
	}
	merged := fields.Merge(*rec)
	repo.db.table[id] = &merged
	return nil
}

func (repo *studentRepository) DeleteByID(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.table, id)
	for i, oid := range repo.db.order {
		if oid == id {
			repo.db.order = append(repo.db.order[:i], repo.db.order[i+1:]...)
			break
		}
	}
	return nil
}
