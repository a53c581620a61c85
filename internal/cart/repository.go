package cart

import (
	"errors"
	"sync"
)

var (
	ErrNotFound     = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

type Repository interface {
	// Get returns the stored cart, creating an empty one on first access.
	Get(userID int) (Cart, error)
	// Fetch returns the stored cart without creating one; ErrNotFound when
	// no cart document exists yet.
	Fetch(userID int) (Cart, error)
	// SaveItems replaces the stored line items, creating the cart if needed.
	SaveItems(userID int, items []Item, updatedAt string) error
	// Clear empties an existing cart; ErrNotFound when none exists yet.
	Clear(userID int, updatedAt string) error
	// ListAll returns every cart, most recently updated first.
	ListAll() ([]Cart, error)
}

// InMemoryRepository is a mutex-guarded implementation used by tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts []Cart
}

func NewInMemoryRepository(seed []Cart) *InMemoryRepository {
	r := &InMemoryRepository{carts: make([]Cart, 0, len(seed))}
	r.carts = append(r.carts, seed...)
	return r
}

func (r *InMemoryRepository) Get(userID int) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.carts {
		if c.UserID == userID {
			return copyCart(c), nil
		}
	}
	created := Cart{UserID: userID, Items: []Item{}}
	r.carts = append(r.carts, created)
	return copyCart(created), nil
}

func (r *InMemoryRepository) Fetch(userID int) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.carts {
		if c.UserID == userID {
			return copyCart(c), nil
		}
	}
	return Cart{}, ErrNotFound
}

func (r *InMemoryRepository) SaveItems(userID int, items []Item, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].UserID == userID {
			r.carts[i].Items = copyItems(items)
			r.carts[i].UpdatedAt = updatedAt
			return nil
		}
	}
	r.carts = append(r.carts, Cart{UserID: userID, Items: copyItems(items), CreatedAt: updatedAt, UpdatedAt: updatedAt})
	return nil
}

func (r *InMemoryRepository) Clear(userID int, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].UserID == userID {
			r.carts[i].Items = []Item{}
			r.carts[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) ListAll() ([]Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Cart, 0, len(r.carts))
	for _, c := range r.carts {
		out = append(out, copyCart(c))
	}
	return out, nil
}

func copyCart(c Cart) Cart {
	c.Items = copyItems(c.Items)
	return c
}

func copyItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
