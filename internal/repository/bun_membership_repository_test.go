package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argo-platform/program-service/internal/db/models"
)

func TestBunMembershipRepository(t *testing.T) {
	db := setupTestDB(t)
	programs := NewBunProgramRepository(db)
	repo := NewBunMembershipRepository(db)
	ctx := context.Background()

	p := newProgram("TEST-MEM")
	require.NoError(t, programs.Create(ctx, p, Links{}, nil))

	t.Run("add normalises email", func(t *testing.T) {
		m := &models.ProgramMembership{ProgramID: p.ID, Email: " Jane@Example.org ", UserID: "u-jane", Role: "SUBMITTER"}
		require.NoError(t, repo.Add(ctx, m))
		assert.Equal(t, "jane@example.org", m.Email)

		got, err := repo.Get(ctx, p.ID, "JANE@example.org")
		require.NoError(t, err)
		assert.Equal(t, "SUBMITTER", got.Role)
	})

	t.Run("one role per program", func(t *testing.T) {
		err := repo.Add(ctx, &models.ProgramMembership{ProgramID: p.ID, Email: "jane@example.org", UserID: "u-jane", Role: "ADMIN"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAlreadyExists))
	})

	t.Run("invalid email", func(t *testing.T) {
		err := repo.Add(ctx, &models.ProgramMembership{ProgramID: p.ID, Email: "not-an-email", UserID: "u", Role: "ADMIN"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("update role", func(t *testing.T) {
		require.NoError(t, repo.UpdateRole(ctx, p.ID, "jane@example.org", "CURATOR"))
		got, err := repo.Get(ctx, p.ID, "jane@example.org")
		require.NoError(t, err)
		assert.Equal(t, "CURATOR", got.Role)

		err = repo.UpdateRole(ctx, p.ID, "nobody@example.org", "ADMIN")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("list and remove", func(t *testing.T) {
		require.NoError(t, repo.Add(ctx, &models.ProgramMembership{ProgramID: p.ID, Email: "abe@example.org", UserID: "u-abe", Role: "ADMIN"}))

		list, err := repo.List(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "abe@example.org", list[0].Email)

		require.NoError(t, repo.Remove(ctx, p.ID, "abe@example.org"))
		err = repo.Remove(ctx, p.ID, "abe@example.org")
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = repo.Get(ctx, p.ID, "abe@example.org")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
