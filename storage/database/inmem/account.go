package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Mohan-b-dev/std-dash/core/session"
)

type accountRepository struct {
	db *accountTable
}

func NewAccountRepository(db *DB) session.Repository {
	return &accountRepository{db: db.account}
}

func (repo *accountRepository) query() []session.Account {
	accs := make([]session.Account, 0, len(repo.db.table))
	for _, acc := range repo.db.table {
		accs = append(accs, *acc)
	}
	sort.Slice(accs, func(i, j int) bool { return accs[i].CreatedAt.Before(accs[j].CreatedAt) })
	return accs
}

func (repo *accountRepository) CreateAccount(_ context.Context, acc session.Account) (session.Account, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, a := range repo.db.table {
		if a.Email == acc.Email {
			return session.Account{}, session.ErrEmailExists
		}
	}
	acc.UID = uuid.New().String()
	repo.db.table[acc.UID] = &acc
	return acc, nil
}

func (repo *accountRepository) GetAccountByUID(_ context.Context, uid string) (session.Account, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if acc, ok := repo.db.table[uid]; ok {
		return *acc, nil
	}
	return session.Account{}, session.ErrNotFound
}

func (repo *accountRepository) GetAccountByEmail(_ context.Context, email string) (session.Account, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, acc := range repo.query() {
		if acc.Email == email {
			return acc, nil
		}
	}
	return session.Account{}, session.ErrNotFound
}

func (repo *accountRepository) UpdateAccount(_ context.Context, acc session.Account) (session.Account, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	orig, ok := repo.db.table[acc.UID]
	if !ok {
		return session.Account{}, session.ErrNotFound
	}
	if acc.PasswordHash != nil {
		orig.PasswordHash = acc.PasswordHash
	}
	if acc.Role.Valid() {
		orig.Role = acc.Role
	}
	if !acc.LastLogin.IsZero() {
		orig.LastLogin = acc.LastLogin
	}
	if !acc.UpdatedAt.IsZero() {
		orig.UpdatedAt = acc.UpdatedAt
	}
	return *orig, nil
}
