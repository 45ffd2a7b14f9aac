package main

import (
	"context"
	"time"

	"github.com/Mohan-b-dev/std-dash/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	acc, err := cli.accounts.GetAccountByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err := acc.SetPassword(pwd); err != nil {
		return err
	}
	acc.UpdatedAt = time.Now().UTC()
	if _, err := cli.accounts.UpdateAccount(ctx, acc); err != nil {
		return err
	}
	return nil
}
