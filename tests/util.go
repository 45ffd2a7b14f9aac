package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/session"
	"github.com/Mohan-b-dev/std-dash/core/student"
)

// NewValidator returns a validator with every package rule registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	session.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	return validate, translator
}

func CreateAccount(
	t *testing.T,
	repo session.Repository,
	email, pwd string,
	role session.Role,
	createdAt ...time.Time,
) session.Account {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	acc := session.Account{
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := acc.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAccount() failed: %v", err)
		}
	}
	acc, err := repo.CreateAccount(context.Background(), acc)
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return acc
}

func CreateRecord(t *testing.T, repo student.Repository, uid, name, course string) student.Record {
	rec, err := repo.Create(context.Background(), student.Record{
		UID:        uid,
		Name:       name,
		Email:      strings.ReplaceAll(core.CleanString(name, true /* lower */), " ", ".") + "@test.test",
		Degree:     "BSc",
		Department: "CS",
		Year:       "2",
		Course:     course,
	})
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
