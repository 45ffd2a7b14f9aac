package sqlxdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Mohan-b-dev/std-dash/core/session"
)

const uniqueViolation = "23505"

type accountRow struct {
	UID          string    `db:"uid"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    null.Time `db:"last_login"`
}

func (r accountRow) account() session.Account {
	return session.Account{
		UID:          r.UID,
		Email:        r.Email,
		Role:         session.Role(r.Role),
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastLogin:    r.LastLogin.Time.UTC(),
	}
}

func newAccountRow(acc session.Account) accountRow {
	return accountRow{
		UID:          acc.UID,
		Email:        acc.Email,
		Role:         string(acc.Role),
		PasswordHash: acc.PasswordHash,
		CreatedAt:    acc.CreatedAt,
		UpdatedAt:    acc.UpdatedAt,
		LastLogin:    null.NewTime(acc.LastLogin, !acc.LastLogin.IsZero()),
	}
}

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) session.Repository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) CreateAccount(ctx context.Context, acc session.Account) (session.Account, error) {
	acc.UID = uuid.New().String()
	if !acc.Role.Valid() {
		acc.Role = session.RoleStudent
	}
	q := `INSERT INTO "account" (uid, email, role, password_hash, created_at, updated_at, last_login)
		VALUES (:uid, :email, :role, :password_hash, :created_at, :updated_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, q, newAccountRow(acc)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return session.Account{}, session.ErrEmailExists
		}
		return session.Account{}, errors.Wrap(err, "inserting account")
	}
	return acc, nil
}

func (repo *accountRepository) get(ctx context.Context, where string, arg interface{}) (session.Account, error) {
	var row accountRow
	q := `SELECT uid, email, role, password_hash, created_at, updated_at, last_login FROM "account" WHERE ` + where
	if err := repo.db.GetContext(ctx, &row, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Account{}, session.ErrNotFound
		}
		return session.Account{}, errors.Wrap(err, "selecting account")
	}
	return row.account(), nil
}

func (repo *accountRepository) GetAccountByUID(ctx context.Context, uid string) (session.Account, error) {
	if _, err := uuid.Parse(uid); err != nil {
		return session.Account{}, session.ErrNotFound
	}
	return repo.get(ctx, "uid = $1", uid)
}

func (repo *accountRepository) GetAccountByEmail(ctx context.Context, email string) (session.Account, error) {
	return repo.get(ctx, "email = $1", email)
}

func (repo *accountRepository) UpdateAccount(ctx context.Context, acc session.Account) (session.Account, error) {
	orig, err := repo.GetAccountByUID(ctx, acc.UID)
	if err != nil {
		return session.Account{}, err
	}

	// only save set fields
	if acc.PasswordHash != nil {
		orig.PasswordHash = acc.PasswordHash
	}
	if acc.Role.Valid() {
		orig.Role = acc.Role
	}
	if !acc.LastLogin.IsZero() {
		orig.LastLogin = acc.LastLogin
	}
	orig.UpdatedAt = time.Now().UTC()
	if !acc.UpdatedAt.IsZero() {
		orig.UpdatedAt = acc.UpdatedAt
	}

	q := `UPDATE "account" SET role = :role, password_hash = :password_hash, updated_at = :updated_at,
		last_login = :last_login WHERE uid = :uid`
	if _, err = repo.db.NamedExecContext(ctx, q, newAccountRow(orig)); err != nil {
		return session.Account{}, errors.Wrap(err, "updating account")
	}
	return orig, nil
}
