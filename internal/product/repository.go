package product

import (
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned by DecrementStock when the remaining
	// stock cannot cover the requested quantity. The check and the write
	// happen as one operation so stock never goes negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnavailable is always wrapped with the product name, e.g.
	// "Product Banana is no longer available".
	ErrUnavailable = errors.New("is no longer available")
)

type Repository interface {
	// ListAvailable returns purchasable products only.
	ListAvailable() []Product
	// ListAll includes unavailable products (admin view).
	ListAll() []Product
	GetByID(id int) (Product, error)
	// ListByIDs returns the products matching ids, ordered as given.
	// Missing ids are skipped.
	ListByIDs(ids []int) ([]Product, error)
	Create(p Product) (Product, error)
	Update(id int, patch Patch, updatedAt string) (Product, error)
	Delete(id int) error
	// DecrementStock performs the atomic conditional decrement: stock is
	// reduced by qty only if at least qty remains, otherwise
	// ErrInsufficientStock and no mutation.
	DecrementStock(id int, qty int, updatedAt string) error
}

// InMemoryRepository is a mutex-guarded implementation used by tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
	nextID  int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Product, 0, len(seed)),
		nextID:  1,
	}

	maxID := 0
	for _, p := range seed {
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) ListAvailable() []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if p.Available {
			out = append(out, p)
		}
	}
	return out
}

func (r *InMemoryRepository) ListAll() []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.storage))
	copy(out, r.storage)
	return out
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range r.storage {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.storage = append(r.storage, p)
	return p, nil
}

func (r *InMemoryRepository) Update(id int, patch Patch, updatedAt string) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			updated := patch.Apply(r.storage[i])
			updated.UpdatedAt = updatedAt
			r.storage[i] = updated
			return updated, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) DecrementStock(id int, qty int, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			if r.storage[i].Stock < qty {
				return ErrInsufficientStock
			}
			r.storage[i].Stock -= qty
			if updatedAt != "" {
				r.storage[i].UpdatedAt = updatedAt
			}
			return nil
		}
	}
	return ErrNotFound
}
