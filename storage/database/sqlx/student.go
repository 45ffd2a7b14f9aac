package sqlxdb

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Mohan-b-dev/std-dash/core/student"
)

type studentRow struct {
	ID         string      `db:"id"`
	UID        null.String `db:"uid"`
	Name       string      `db:"name"`
	Email      string      `db:"email"`
	Degree     null.String `db:"degree"`
	Department null.String `db:"department"`
	Year       null.String `db:"year"`
	Course     null.String `db:"course"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

func (r studentRow) record() student.Record {
	return student.Record{
		ID:         r.ID,
		UID:        r.UID.String,
		Name:       r.Name,
		Email:      r.Email,
		Degree:     r.Degree.String,
		Department: r.Department.String,
		Year:       r.Year.String,
		Course:     r.Course.String,
	}
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

const studentColumns = "id, uid, name, email, degree, department, year, course, created_at, updated_at"

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) selectRecords(ctx context.Context, where string, args ...interface{}) ([]student.Record, error) {
	q := `SELECT ` + studentColumns + ` FROM "student"`
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY created_at, id"

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	recs := make([]student.Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.record())
	}
	return recs, nil
}

func (repo *studentRepository) ListAll(ctx context.Context) ([]student.Record, error) {
	return repo.selectRecords(ctx, "")
}

func (repo *studentRepository) QueryByField(ctx context.Context, field, value string) ([]student.Record, error) {
	if !student.IsField(field) { // field names are whitelisted before reaching the query
		return nil, student.ErrUnknownField
	}
	return repo.selectRecords(ctx, field+" = $1", value)
}

func (repo *studentRepository) GetByID(ctx context.Context, id string) (student.Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Record{}, student.ErrNotFound
	}
	var row studentRow
	q := `SELECT ` + studentColumns + ` FROM "student" WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return student.Record{}, student.ErrNotFound
		}
		return student.Record{}, errors.Wrap(err, "selecting student")
	}
	return row.record(), nil
}

func (repo *studentRepository) Create(ctx context.Context, rec student.Record) (student.Record, error) {
	now := time.Now().UTC()
	rec.ID = uuid.New().String()
	row := studentRow{
		ID:         rec.ID,
		UID:        nullString(rec.UID),
		Name:       rec.Name,
		Email:      rec.Email,
		Degree:     nullString(rec.Degree),
		Department: nullString(rec.Department),
		Year:       nullString(rec.Year),
		Course:     nullString(rec.Course),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	q := `INSERT INTO "student" (` + studentColumns + `)
		VALUES (:id, :uid, :name, :email, :degree, :department, :year, :course, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return student.Record{}, errors.Wrap(err, "inserting student")
	}
	return rec, nil
}

func (repo *studentRepository) UpdateByID(ctx context.Context, id string, fields student.Fields) error {
	if !fields.Valid() {
		return student.ErrUnknownField
	}
	if _, err := uuid.Parse(id); err != nil {
		return student.ErrNotFound
	}

	// deterministic column order
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := map[string]interface{}{"id": id, "updated_at": time.Now().UTC()}
	for _, k := range keys {
		sets = append(sets, k+" = :"+k)
		if k == student.FieldName || k == student.FieldEmail {
			args[k] = fields[k]
		} else {
			args[k] = nullString(fields[k])
		}
	}
	sets = append(sets, "updated_at = :updated_at")

	q := `UPDATE "student" SET ` + strings.Join(sets, ", ") + ` WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, args)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return checkAffected(res, student.ErrNotFound)
}

func (repo *studentRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return student.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM "student" WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return checkAffected(res, student.ErrNotFound)
}

func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
