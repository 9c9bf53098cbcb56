package repositories

import (
	"context"
	"errors"
	"fmt"

	"inventory/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database ordered by id.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Changes starts a change set bound to ctx.
func (r *GORMProductRepository) Changes(ctx context.Context) ChangeSet {
	return &gormChangeSet{db: r.db.WithContext(ctx)}
}

type gormChangeSet struct {
	db  *gorm.DB
	ops []func(tx *gorm.DB) error
}

func (c *gormChangeSet) Add(product *models.Product) {
	c.ops = append(c.ops, func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
}

func (c *gormChangeSet) Update(product *models.Product) {
	c.ops = append(c.ops, func(tx *gorm.DB) error {
		// Save writes every column and inserts when no row matched the id.
		if err := tx.Save(product).Error; err != nil {
			return fmt.Errorf("failed to update product %d: %w", product.ID, err)
		}
		return nil
	})
}

func (c *gormChangeSet) Remove(product *models.Product) {
	id := product.ID
	c.ops = append(c.ops, func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete product %d: %w", id, err)
		}
		return nil
	})
}

func (c *gormChangeSet) Commit() error {
	if len(c.ops) == 0 {
		return nil
	}
	ops := c.ops
	c.ops = nil
	return c.db.Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
}
