package repositories

import (
	"context"
	"sort"
	"sync"

	"inventory/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products ordered by id.
func (r *MemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// GetByID returns a product by its ID, or nil when it does not exist.
func (r *MemoryProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// Changes starts a change set against the in-memory store.
func (r *MemoryProductRepository) Changes(_ context.Context) ChangeSet {
	return &memoryChangeSet{repo: r}
}

type memoryChangeSet struct {
	repo *MemoryProductRepository
	ops  []func()
}

func (c *memoryChangeSet) Add(product *models.Product) {
	c.ops = append(c.ops, func() {
		product.ID = c.repo.nextID
		c.repo.nextID++
		c.repo.products[product.ID] = *product
	})
}

func (c *memoryChangeSet) Update(product *models.Product) {
	c.ops = append(c.ops, func() {
		if product.ID == 0 {
			product.ID = c.repo.nextID
		}
		if product.ID >= c.repo.nextID {
			c.repo.nextID = product.ID + 1
		}
		c.repo.products[product.ID] = *product
	})
}

func (c *memoryChangeSet) Remove(product *models.Product) {
	id := product.ID
	c.ops = append(c.ops, func() {
		delete(c.repo.products, id)
	})
}

func (c *memoryChangeSet) Commit() error {
	c.repo.mu.Lock()
	defer c.repo.mu.Unlock()

	for _, op := range c.ops {
		op()
	}
	c.ops = nil
	return nil
}
