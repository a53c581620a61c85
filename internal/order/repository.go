package order

import (
	"errors"
	"sync"

	"github.com/freshcart/fruit-shop-backend/internal/cart"
	"github.com/freshcart/fruit-shop-backend/internal/product"
)

var (
	ErrNotFound             = errors.New("order not found")
	ErrForbidden            = errors.New("access denied")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrAddressRequired      = errors.New("delivery address is required")
)

// Repository defines persistence operations for orders.
type Repository interface {
	// Begin opens the unit of work for a placement. Stock decrements, the
	// order insert and the cart clear all happen inside it; nothing is
	// visible to other callers until Commit.
	Begin() (Tx, error)
	GetByID(id int) (Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(userID int) ([]Order, error)
	// ListAll returns every order, newest first.
	ListAll() ([]Order, error)
	UpdateStatus(id int, status string, updatedAt string) (Order, error)
}

// Tx is the order-placement unit of work. Rollback after Commit is a no-op,
// so callers can defer it unconditionally.
type Tx interface {
	// ProductForUpdate re-fetches the product fresh, claiming it for the
	// rest of the unit of work.
	ProductForUpdate(id int) (product.Product, error)
	// DecrementStock applies the atomic conditional decrement inside the
	// unit of work; ErrInsufficientStock aborts without partial effect.
	DecrementStock(id int, qty int, updatedAt string) error
	InsertOrder(o Order) (Order, error)
	ClearCart(userID int, updatedAt string) error
	Commit() error
	Rollback() error
}

// InMemoryRepository implements Repository over the in-memory product and
// cart stores. Transactions stage their writes and apply them on Commit, so
// an aborted placement leaves stock and cart untouched.
type InMemoryRepository struct {
	mu       sync.RWMutex
	orders   []Order
	nextID   int
	products product.Repository
	carts    cart.Repository
}

func NewInMemoryRepository(products product.Repository, carts cart.Repository) *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, products: products, carts: carts}
}

func (r *InMemoryRepository) Begin() (Tx, error) {
	return &memTx{repo: r, staged: map[int]int{}}, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	// IDs ascend with insertion, so reverse iteration is newest first
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListAll() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0; i-- {
		out = append(out, r.orders[i])
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id int, status string, updatedAt string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].Status = status
			r.orders[i].UpdatedAt = updatedAt
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}

// memTx stages decrements and the insert, applying them only on Commit.
type memTx struct {
	repo      *InMemoryRepository
	staged    map[int]int // productID -> quantity claimed so far
	order     *Order
	clearUser int
	clearAt   string
	done      bool
}

func (t *memTx) ProductForUpdate(id int) (product.Product, error) {
	p, err := t.repo.products.GetByID(id)
	if err != nil {
		return product.Product{}, err
	}
	p.Stock -= t.staged[id]
	return p, nil
}

func (t *memTx) DecrementStock(id int, qty int, updatedAt string) error {
	p, err := t.ProductForUpdate(id)
	if err != nil {
		return err
	}
	if p.Stock < qty {
		return product.ErrInsufficientStock
	}
	t.staged[id] += qty
	return nil
}

func (t *memTx) InsertOrder(o Order) (Order, error) {
	t.repo.mu.Lock()
	o.ID = t.repo.nextID
	t.repo.nextID++
	t.repo.mu.Unlock()
	t.order = &o
	return o, nil
}

func (t *memTx) ClearCart(userID int, updatedAt string) error {
	t.clearUser = userID
	t.clearAt = updatedAt
	return nil
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true

	for id, qty := range t.staged {
		if err := t.repo.products.DecrementStock(id, qty, t.clearAt); err != nil {
			return err
		}
	}
	if t.order != nil {
		t.repo.mu.Lock()
		t.repo.orders = append(t.repo.orders, *t.order)
		t.repo.mu.Unlock()
	}
	if t.clearUser != 0 {
		if err := t.repo.carts.Clear(t.clearUser, t.clearAt); err != nil {
			return err
		}
	}
	return nil
}

func (t *memTx) Rollback() error {
	// staged writes were never applied, so there is nothing to undo
	t.done = true
	return nil
}
