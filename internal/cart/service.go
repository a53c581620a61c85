package cart

import (
	"fmt"
	"time"

	"github.com/freshcart/fruit-shop-backend/internal/product"
)

// ServiceInterface is implemented by *Service; the order workflow reads
// carts through it.
type ServiceInterface interface {
	Get(userID int) (Cart, error)
	Add(userID, productID, quantity int) (Cart, error)
	Update(userID, productID, quantity int) (Cart, error)
	Remove(userID, productID int) (Cart, error)
	Clear(userID int) (Cart, error)
	ListAll() ([]Cart, error)
}

type Service struct {
	repo     Repository
	products product.ServiceInterface
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

var _ ServiceInterface = (*Service)(nil)

// Get returns the caller's cart, creating an empty one on first access, with
// product details resolved.
func (s *Service) Get(userID int) (Cart, error) {
	c, err := s.repo.Get(userID)
	if err != nil {
		return Cart{}, err
	}
	return s.resolve(c)
}

// Add merges quantity into an existing line or appends a new one. Stock is
// checked against the combined quantity so the cart never holds more of a
// product than the catalog could supply at add time.
func (s *Service) Add(userID, productID, quantity int) (Cart, error) {
	p, err := s.products.GetByID(productID)
	if err != nil {
		return Cart{}, err
	}
	if !p.Available {
		return Cart{}, fmt.Errorf("Product %s %w", p.Name, product.ErrUnavailable)
	}

	c, err := s.repo.Get(userID)
	if err != nil {
		return Cart{}, err
	}

	merged := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			newQuantity := c.Items[i].Quantity + quantity
			if p.Stock < newQuantity {
				return Cart{}, fmt.Errorf("%w for %s", product.ErrInsufficientStock, p.Name)
			}
			c.Items[i].Quantity = newQuantity
			merged = true
			break
		}
	}
	if !merged {
		if p.Stock < quantity {
			return Cart{}, fmt.Errorf("%w for %s", product.ErrInsufficientStock, p.Name)
		}
		c.Items = append(c.Items, Item{ProductID: productID, Quantity: quantity})
	}

	return s.save(userID, c)
}

// Update replaces a line's quantity with the given absolute value.
func (s *Service) Update(userID, productID, quantity int) (Cart, error) {
	p, err := s.products.GetByID(productID)
	if err != nil {
		return Cart{}, err
	}
	if p.Stock < quantity {
		return Cart{}, fmt.Errorf("%w for %s", product.ErrInsufficientStock, p.Name)
	}

	c, err := s.repo.Get(userID)
	if err != nil {
		return Cart{}, err
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return Cart{}, ErrItemNotFound
	}

	return s.save(userID, c)
}

// Remove drops the matching line. A missing line is a no-op; a missing cart
// document is ErrNotFound (removal never creates the cart).
func (s *Service) Remove(userID, productID int) (Cart, error) {
	c, err := s.repo.Fetch(userID)
	if err != nil {
		return Cart{}, err
	}

	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept

	return s.save(userID, c)
}

// Clear empties the cart. ErrNotFound only when no cart exists yet.
func (s *Service) Clear(userID int) (Cart, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.repo.Clear(userID, now); err != nil {
		return Cart{}, err
	}
	return s.repo.Get(userID)
}

// ListAll returns every cart with product details resolved (admin view).
func (s *Service) ListAll() ([]Cart, error) {
	carts, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}
	for i := range carts {
		resolved, err := s.resolve(carts[i])
		if err != nil {
			return nil, err
		}
		carts[i] = resolved
	}
	return carts, nil
}

func (s *Service) save(userID int, c Cart) (Cart, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.repo.SaveItems(userID, c.Items, now); err != nil {
		return Cart{}, err
	}
	refreshed, err := s.repo.Get(userID)
	if err != nil {
		return Cart{}, err
	}
	return s.resolve(refreshed)
}

// resolve attaches catalog details to each line. Lines whose product has
// been deleted keep a nil Product; the order workflow re-validates existence
// at checkout.
func (s *Service) resolve(c Cart) (Cart, error) {
	if len(c.Items) == 0 {
		return c, nil
	}

	ids := make([]int, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}

	prods, err := s.products.ListByIDs(ids)
	if err != nil {
		return Cart{}, err
	}
	byID := make(map[int]product.Product, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
	}

	for i := range c.Items {
		if p, ok := byID[c.Items[i].ProductID]; ok {
			resolved := p
			c.Items[i].Product = &resolved
		}
	}
	return c, nil
}
