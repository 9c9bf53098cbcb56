package repositories

import (
	"context"

	"inventory/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Reads go straight to the store. Writes are staged on a ChangeSet and only
// reach the store when the ChangeSet is committed.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	// GetByID returns nil and a nil error when no product has the given id.
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Changes(ctx context.Context) ChangeSet
}

// ChangeSet collects product writes and applies them together on Commit.
type ChangeSet interface {
	// Add stages an insert. The store assigns the id on Commit and writes it
	// back into product.
	Add(product *models.Product)
	// Update stages a full replacement of the record with product.ID. An id
	// with no stored record is written as a new record.
	Update(product *models.Product)
	// Remove stages deletion of the record with product.ID.
	Remove(product *models.Product)
	// Commit applies the staged writes atomically.
	Commit() error
}
