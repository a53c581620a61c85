package order

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/freshcart/fruit-shop-backend/internal/cart"
	"github.com/freshcart/fruit-shop-backend/internal/product"
	"github.com/freshcart/fruit-shop-backend/internal/user"
)

// Service runs the order workflow against the cart and catalog stores.
type Service struct {
	repo  Repository
	carts cart.ServiceInterface
}

func NewService(repo Repository, carts cart.ServiceInterface) *Service {
	return &Service{repo: repo, carts: carts}
}

// Place turns the caller's cart into an order. Each line is re-validated
// against a fresh product read (the cart's cached copy is never trusted),
// stock is claimed with the atomic conditional decrement, and the order
// insert plus cart clear commit together with the decrements. Any failing
// line aborts the whole placement: no order, no stock change, cart intact.
func (s *Service) Place(userID int, deliveryAddress, paymentMethod string) (Order, error) {
	if deliveryAddress == "" {
		return Order{}, ErrAddressRequired
	}
	if !ValidPaymentMethod(paymentMethod) {
		return Order{}, ErrInvalidPaymentMethod
	}

	crt, err := s.carts.Get(userID)
	if err != nil {
		return Order{}, err
	}
	if len(crt.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	tx, err := s.repo.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	items := make([]OrderItem, 0, len(crt.Items))
	totalAmount := 0.0

	for _, line := range crt.Items {
		p, err := tx.ProductForUpdate(line.ProductID)
		if errors.Is(err, product.ErrNotFound) {
			return Order{}, fmt.Errorf("Product %s %w", lineName(line), product.ErrUnavailable)
		}
		if err != nil {
			return Order{}, err
		}
		if !p.Available {
			return Order{}, fmt.Errorf("Product %s %w", p.Name, product.ErrUnavailable)
		}
		if p.Stock < line.Quantity {
			return Order{}, fmt.Errorf("%w for %s", product.ErrInsufficientStock, p.Name)
		}

		if err := tx.DecrementStock(p.ID, line.Quantity, now); err != nil {
			if errors.Is(err, product.ErrInsufficientStock) {
				return Order{}, fmt.Errorf("%w for %s", product.ErrInsufficientStock, p.Name)
			}
			return Order{}, err
		}

		items = append(items, OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
		})
		totalAmount += p.Price * float64(line.Quantity)
	}

	created, err := tx.InsertOrder(Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     totalAmount,
		DeliveryAddress: deliveryAddress,
		PaymentMethod:   paymentMethod,
		Status:          StatusPlaced,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return Order{}, err
	}

	if err := tx.ClearCart(userID, now); err != nil {
		return Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return created, nil
}

// Get returns the order when the caller owns it or is an admin.
func (s *Service) Get(id int, callerID int, callerRole string) (Order, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != callerID && callerRole != user.RoleAdmin {
		return Order{}, ErrForbidden
	}
	return o, nil
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) ListAll() ([]Order, error) {
	return s.repo.ListAll()
}

// UpdateStatus replaces the status with any member of the enumerated set;
// there is no transition graph.
func (s *Service) UpdateStatus(id int, status string) (Order, error) {
	if !ValidStatus(status) {
		return Order{}, ErrInvalidStatus
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return s.repo.UpdateStatus(id, status, now)
}

// lineName names a cart line for error messages even when the product row
// has been deleted since the item was added.
func lineName(line cart.Item) string {
	if line.Product != nil && line.Product.Name != "" {
		return line.Product.Name
	}
	return "#" + strconv.Itoa(line.ProductID)
}
