package repositories_test

import (
	"context"
	"testing"

	"inventory/internal/database"
	"inventory/internal/models"
	"inventory/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRepositories(t *testing.T) map[string]repositories.UserRepository {
	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return map[string]repositories.UserRepository{
		"gorm":   repositories.NewGORMUserRepository(db),
		"memory": repositories.NewMemoryUserRepository(),
	}
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	for name, repo := range userRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
			require.NoError(t, repo.Create(ctx, user))
			_, err := uuid.Parse(user.ID)
			assert.NoError(t, err)

			byName, err := repo.GetByUsername(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byName.ID)

			byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, byEmail.ID)

			byID, err := repo.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "alice", byID.Username)
		})
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	for name, repo := range userRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := repo.GetByUsername(ctx, "nobody")
			assert.ErrorIs(t, err, repositories.ErrUserNotFound)
			_, err = repo.GetByEmail(ctx, "nobody@example.com")
			assert.ErrorIs(t, err, repositories.ErrUserNotFound)
			_, err = repo.GetByID(ctx, uuid.NewString())
			assert.ErrorIs(t, err, repositories.ErrUserNotFound)
		})
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	for name, repo := range userRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Create(ctx, &models.User{Username: "bob", Email: "bob@example.com", Password: "hash"}))
			err := repo.Create(ctx, &models.User{Username: "bob", Email: "other@example.com", Password: "hash"})
			assert.Error(t, err)
		})
	}
}
