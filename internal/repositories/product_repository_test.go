package repositories_test

import (
	"context"
	"testing"

	"inventory/internal/database"
	"inventory/internal/models"
	"inventory/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGORMProductRepository(t *testing.T) repositories.ProductRepository {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return repositories.NewGORMProductRepository(db)
}

func productRepositories(t *testing.T) map[string]repositories.ProductRepository {
	return map[string]repositories.ProductRepository{
		"gorm":   newGORMProductRepository(t),
		"memory": repositories.NewMemoryProductRepository(),
	}
}

func product(name string, price string, quantity int, category string) *models.Product {
	return &models.Product{Name: name, Price: decimal.RequireFromString(price), Quantity: quantity, Category: category}
}

func add(t *testing.T, repo repositories.ProductRepository, p *models.Product) {
	t.Helper()
	changes := repo.Changes(context.Background())
	changes.Add(p)
	require.NoError(t, changes.Commit())
}

func assertSameProduct(t *testing.T, want, got *models.Product) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.True(t, want.Price.Equal(got.Price), "price %s != %s", want.Price, got.Price)
	assert.Equal(t, want.Quantity, got.Quantity)
	assert.Equal(t, want.Category, got.Category)
}

func TestProductRepository_AddAssignsIDOnCommit(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := product("Widget", "9.99", 5, "Tools")

			changes := repo.Changes(ctx)
			changes.Add(p)

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all, "nothing is written before Commit")

			require.NoError(t, changes.Commit())
			assert.GreaterOrEqual(t, p.ID, uint(1))

			all, err = repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assertSameProduct(t, p, &all[0])
		})
	}
}

func TestProductRepository_GetByIDMissingIsNotAnError(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			p, err := repo.GetByID(context.Background(), 999)
			assert.NoError(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestProductRepository_UpdateReplacesRecord(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := product("Old", "20", 1, "A")
			add(t, repo, p)

			updated := product("Updated", "30.50", 2, "B")
			updated.ID = p.ID
			changes := repo.Changes(ctx)
			changes.Update(updated)
			require.NoError(t, changes.Commit())

			got, err := repo.GetByID(ctx, p.ID)
			require.NoError(t, err)
			assertSameProduct(t, updated, got)
		})
	}
}

func TestProductRepository_UpdateUnknownIDWritesRecord(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := product("Ghost", "1", 0, "X")
			p.ID = 42

			changes := repo.Changes(ctx)
			changes.Update(p)
			require.NoError(t, changes.Commit())

			got, err := repo.GetByID(ctx, 42)
			require.NoError(t, err)
			assertSameProduct(t, p, got)
		})
	}
}

func TestProductRepository_RemoveLeavesOthers(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			keep := product("Keep", "1", 1, "A")
			drop := product("Drop", "2", 2, "B")
			add(t, repo, keep)
			add(t, repo, drop)

			changes := repo.Changes(ctx)
			changes.Remove(drop)
			require.NoError(t, changes.Commit())

			all, err := repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assertSameProduct(t, keep, &all[0])

			gone, err := repo.GetByID(ctx, drop.ID)
			assert.NoError(t, err)
			assert.Nil(t, gone)
		})
	}
}

func TestProductRepository_GetAllOrderedByID(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			for _, n := range []string{"A", "B", "C"} {
				add(t, repo, product(n, "1", 0, "X"))
			}

			all, err := repo.GetAll(context.Background())
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Less(t, all[0].ID, all[1].ID)
			assert.Less(t, all[1].ID, all[2].ID)
		})
	}
}

func TestProductRepository_EmptyCommit(t *testing.T) {
	for name, repo := range productRepositories(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, repo.Changes(context.Background()).Commit())
		})
	}
}

func TestGORMProductRepository_CommitFailurePropagates(t *testing.T) {
	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	repo := repositories.NewGORMProductRepository(db)
	require.NoError(t, database.Close(db))

	changes := repo.Changes(context.Background())
	changes.Add(product("Widget", "1", 1, "Tools"))
	assert.Error(t, changes.Commit())
}
