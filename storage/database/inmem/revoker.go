package inmemdb

import (
	"context"
	"time"

	"github.com/Mohan-b-dev/std-dash/core/session"
)

type revoker struct {
	db  *revokedTable
	now func() time.Time // mockable
}

func NewRevoker(db *DB) session.Revoker {
	return &revoker{db: db.revoked, now: time.Now}
}

func (r *revoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	// drop entries whose tokens have expired anyway
	now := r.now()
	for id, exp := range r.db.table {
		if !exp.After(now) {
			delete(r.db.table, id)
		}
	}
	if until.After(now) {
		r.db.table[tokenID] = until
	}
	return nil
}

func (r *revoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	exp, ok := r.db.table[tokenID]
	return ok && exp.After(r.now()), nil
}
