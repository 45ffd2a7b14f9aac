package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/session"
	"github.com/Mohan-b-dev/std-dash/core/student"
)

// StudentRepositoryContract checks the behaviour every student.Repository must share.
// repo must start empty.
func StudentRepositoryContract(t *testing.T, repo student.Repository) {
	ctx := context.Background()

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	john := CreateRecord(t, repo, "u1", "John Doe", "Full Stack")
	jane := CreateRecord(t, repo, "u2", "Jane Roe", "Front-end")
	anon := CreateRecord(t, repo, "", "Walk In", "Solana")
	assert.NotEmpty(t, john.ID)
	assert.NotEqual(t, john.ID, jane.ID)

	all, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []student.Record{john, jane, anon}, all)

	t.Run("QueryByField", func(t *testing.T) {
		got, err := repo.QueryByField(ctx, student.FieldUID, "u1")
		require.NoError(t, err)
		assert.Equal(t, []student.Record{john}, got)

		got, err = repo.QueryByField(ctx, student.FieldUID, "nobody")
		require.NoError(t, err)
		assert.Empty(t, got)

		_, err = repo.QueryByField(ctx, "password", "x")
		assert.True(t, core.IsValidationError(err))
	})

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, jane.ID)
		require.NoError(t, err)
		assert.Equal(t, jane, got)

		_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("UpdateByID", func(t *testing.T) {
		require.NoError(t, repo.UpdateByID(ctx, jane.ID, student.Fields{student.FieldName: "Jane Doe", student.FieldCourse: "Solana"}))
		got, err := repo.GetByID(ctx, jane.ID)
		require.NoError(t, err)
		jane.Name, jane.Course = "Jane Doe", "Solana"
		assert.Equal(t, jane, got)

		err = repo.UpdateByID(ctx, "00000000-0000-0000-0000-000000000000", student.Fields{student.FieldName: "X"})
		assert.True(t, core.IsNotFound(err))
		err = repo.UpdateByID(ctx, jane.ID, student.Fields{"password": "x"})
		assert.True(t, core.IsValidationError(err))
	})

	t.Run("DeleteByID", func(t *testing.T) {
		require.NoError(t, repo.DeleteByID(ctx, anon.ID))
		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []student.Record{john, jane}, all)

		assert.True(t, core.IsNotFound(repo.DeleteByID(ctx, anon.ID)))
	})
}

// AccountRepositoryContract checks the behaviour every session.Repository must share.
func AccountRepositoryContract(t *testing.T, repo session.Repository) {
	ctx := context.Background()

	acc := CreateAccount(t, repo, "t@test.test", "Pass@123", session.RoleStudent)
	assert.NotEmpty(t, acc.UID)

	_, err := repo.CreateAccount(ctx, session.Account{Email: "t@test.test", Role: session.RoleStudent, PasswordHash: []byte("x")})
	assert.Equal(t, session.ErrEmailExists, err)

	got, err := repo.GetAccountByEmail(ctx, "t@test.test")
	require.NoError(t, err)
	assert.Equal(t, acc.UID, got.UID)
	assert.NoError(t, got.CheckPassword("Pass@123"))

	_, err = repo.GetAccountByEmail(ctx, "nobody@test.test")
	assert.True(t, core.IsNotFound(err))
	_, err = repo.GetAccountByUID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.True(t, core.IsNotFound(err))

	upd := session.Account{UID: acc.UID, Role: session.RoleAdmin}
	require.NoError(t, upd.SetPassword("NewPass@1"))
	_, err = repo.UpdateAccount(ctx, upd)
	require.NoError(t, err)

	got, err = repo.GetAccountByUID(ctx, acc.UID)
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, got.Role)
	assert.Equal(t, "t@test.test", got.Email)
	assert.NoError(t, got.CheckPassword("NewPass@1"))

	_, err = repo.UpdateAccount(ctx, session.Account{UID: "00000000-0000-0000-0000-000000000000"})
	assert.True(t, core.IsNotFound(err))
}
