package sqlxdb

import (
	"testing"

	testutil "github.com/Mohan-b-dev/std-dash/tests"
)

func TestStudentRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.StudentRepositoryContract(t, NewStudentRepository(db))
}

func TestAccountRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.AccountRepositoryContract(t, NewAccountRepository(db))
}
