package main

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/session"
)

var errInvalidEmail = errors.New("enter a valid email address")

// addUser updates or creates a session.Account
func (cli *commandLine) addUser(email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	if err := validator.New().Var(email, "required,email"); err != nil {
		return errInvalidEmail
	}

	now := time.Now().UTC()
	acc, err := cli.accounts.GetAccountByEmail(ctx, email)
	exists := err == nil
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		acc = session.Account{
			Email:     email,
			Role:      session.RoleStudent,
			CreatedAt: now,
		}
	}
	if isAdmin {
		acc.Role = session.RoleAdmin
	}
	acc.UpdatedAt = now
	if err = acc.SetPassword(pwd); err != nil {
		return err
	}

	if exists {
		_, err = cli.accounts.UpdateAccount(ctx, acc)
	} else {
		_, err = cli.accounts.CreateAccount(ctx, acc)
	}
	return err
}
