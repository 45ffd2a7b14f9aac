package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/storage/database"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// OpenDB connects to the migrated test database, or skips the test when TEST_DBHOST is unset.
func OpenDB(t *testing.T) *sqlx.DB {
	host := os.Getenv("TEST_DBHOST")
	if host == "" {
		t.Skip("TEST_DBHOST not set")
	}

	conf := core.NewTestConfig()
	conf.Database = core.DatabaseConfig{
		Engine:     "postgres",
		Host:       host,
		Port:       getenv("TEST_DBPORT", "5432"),
		Name:       getenv("TEST_DBNAME", "stddash_test"),
		User:       getenv("TEST_DBUSER", "postgres"),
		Password:   getenv("TEST_DBPASSWORD", "postgres"),
		DisableTLS: true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := database.Open(ctx, conf)
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	ResetDB(t, db)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ResetDB empties every table.
func ResetDB(t *testing.T, db *sqlx.DB) {
	if _, err := db.Exec(`TRUNCATE TABLE "student", "account"`); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}
