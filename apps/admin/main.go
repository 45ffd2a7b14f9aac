package main

import (
	"context"
	"log"
	"os"

	"github.com/Mohan-b-dev/std-dash/core"
	logsvc "github.com/Mohan-b-dev/std-dash/services/logger"
	"github.com/Mohan-b-dev/std-dash/storage/database"
	sqlxdb "github.com/Mohan-b-dev/std-dash/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	// accounts live in Postgres whatever the record storage
	db, err := database.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	// start CLI
	cli := commandLine{
		db:       db,
		accounts: sqlxdb.NewAccountRepository(db),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("command failed: "+err.Error(), err)
		}
		os.Exit(1)
	}
}
