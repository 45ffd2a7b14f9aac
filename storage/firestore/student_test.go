package firestoredb

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/Mohan-b-dev/std-dash/core"
	testutil "github.com/Mohan-b-dev/std-dash/tests"
)

// Runs against the Firestore emulator only.
func TestStudentRepository(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	conf := core.NewTestConfig()
	conf.Firestore.ProjectID = "std-dash-test"
	ctx := context.Background()
	client, err := Open(ctx, conf)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer func() { _ = client.Close() }()

	// a fresh collection per run keeps the repository empty
	testutil.StudentRepositoryContract(t, NewStudentRepository(client, "users-"+uuid.New().String()))
}
