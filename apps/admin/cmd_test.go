package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohan-b-dev/std-dash/core/session"
	inmemdb "github.com/Mohan-b-dev/std-dash/storage/database/inmem"
	testutil "github.com/Mohan-b-dev/std-dash/tests"
)

var accounts session.Repository

func setup() *commandLine {
	accounts = inmemdb.NewAccountRepository(inmemdb.Open())
	return &commandLine{accounts: accounts}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

type extra struct {
	pwd string
}

func mockReadPassword(tt cliTest) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if extra, ok := tt.extra.(extra); ok {
			return []byte(extra.pwd), nil
		}
		return nil, nil
	}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Equal(t, tt.wantErrStr, err.Error())
		}
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup()

	runMigrationsFunc = func(db *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "course_index", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup()
	ctx := context.Background()

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"adduser", "-email", "new@test.test"}, wantErr: errHelp},
		{name: "invalid email", args: []string{"adduser", "-email", "lol"}, extra: extra{pwd: "Pass@123"}, wantErr: errInvalidEmail},
		{name: "student", args: []string{"adduser", "-email", "Stud@Test.test"}, extra: extra{pwd: "Pass@123"}},
		{name: "admin", args: []string{"adduser", "-email", "admin@test.test", "-admin"}, extra: extra{pwd: "Pass@123"}},
		{name: "promote existing", args: []string{"adduser", "-email", "stud@test.test", "-admin"}, extra: extra{pwd: "NewPass@1"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockReadPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	admin, err := accounts.GetAccountByEmail(ctx, "admin@test.test")
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, admin.Role)
	assert.NoError(t, admin.CheckPassword("Pass@123"))

	stud, err := accounts.GetAccountByEmail(ctx, "stud@test.test")
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, stud.Role)
	assert.NoError(t, stud.CheckPassword("NewPass@1"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup()
	acc := testutil.CreateAccount(t, accounts, "awe@test.cd", "mdr123", session.RoleStudent)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "account not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, extra: extra{pwd: "lol"}, wantErr: session.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", acc.Email}, extra: extra{pwd: "lmao123"}},
		{name: "reset with mixed case email", args: []string{"resetpassword", "-email", "AWE@test.cd"}, extra: extra{pwd: "lmao456"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockReadPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			checkErr(t, tt, err)
			if err == nil {
				refreshed, err := accounts.GetAccountByUID(context.Background(), acc.UID)
				require.NoError(t, err)
				assert.False(t, bytes.Equal(refreshed.PasswordHash, acc.PasswordHash), "failed to update new password")
			}
		})
	}
}
