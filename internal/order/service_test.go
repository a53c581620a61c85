package order

import (
	"errors"
	"testing"

	"github.com/freshcart/fruit-shop-backend/internal/cart"
	"github.com/freshcart/fruit-shop-backend/internal/product"
	"github.com/freshcart/fruit-shop-backend/internal/user"
)

type fixture struct {
	products *product.InMemoryRepository
	carts    *cart.Service
	orders   *InMemoryRepository
	service  *Service
}

func newFixture(seed []product.Product) *fixture {
	products := product.NewInMemoryRepository(seed)
	cartRepo := cart.NewInMemoryRepository(nil)
	carts := cart.NewService(cartRepo, product.NewService(products))
	orders := NewInMemoryRepository(products, cartRepo)
	return &fixture{
		products: products,
		carts:    carts,
		orders:   orders,
		service:  NewService(orders, carts),
	}
}

func TestPlace_Success(t *testing.T) {
	f := newFixture([]product.Product{
		{ID: 1, Name: "Banana", Price: 20, Stock: 10, Available: true},
	})
	if _, err := f.carts.Add(7, 1, 2); err != nil {
		t.Fatal(err)
	}

	ord, err := f.service.Place(7, "12 Orchard Lane", PaymentCashOnDelivery)
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	if ord.Status != StatusPlaced {
		t.Fatalf("expected status Placed, got %q", ord.Status)
	}
	if ord.TotalAmount != 40 {
		t.Fatalf("expected totalAmount 40, got %v", ord.TotalAmount)
	}
	if len(ord.Items) != 1 || ord.Items[0].Name != "Banana" || ord.Items[0].Price != 20 || ord.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", ord.Items)
	}

	p, _ := f.products.GetByID(1)
	if p.Stock != 8 {
		t.Fatalf("expected stock 8 after placement, got %d", p.Stock)
	}

	crt, _ := f.carts.Get(7)
	if len(crt.Items) != 0 {
		t.Fatalf("expected cart emptied after placement, got %+v", crt.Items)
	}
}

func TestPlace_EmptyCart(t *testing.T) {
	f := newFixture([]product.Product{
		{ID: 1, Name: "Banana", Price: 20, Stock: 10, Available: true},
	})

	_, err := f.service.Place(7, "12 Orchard Lane", PaymentMockCard)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if all, _ := f.orders.ListAll(); len(all) != 0 {
		t.Fatalf("no order should exist after empty-cart placement")
	}
}

func TestPlace_InvalidInput(t *testing.T) {
	f := newFixture(nil)

	if _, err := f.service.Place(7, "", PaymentMockCard); !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
	if _, err := f.service.Place(7, "12 Orchard Lane", "Wire Transfer"); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}

// A failing line aborts the whole placement: earlier lines' decrements are
// rolled back, the cart keeps its items and no order is created.
func TestPlace_FailingLineLeavesStateIntact(t *testing.T) {
	f := newFixture([]product.Product{
		{ID: 1, Name: "Apple", Price: 10, Stock: 5, Available: true},
		{ID: 2, Name: "Beetroot", Price: 3, Stock: 4, Available: true},
	})
	if _, err := f.carts.Add(7, 1, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := f.carts.Add(7, 2, 4); err != nil {
		t.Fatal(err)
	}

	// stock for the second line vanishes between add and checkout
	if err := f.products.DecrementStock(2, 4, ""); err != nil {
		t.Fatal(err)
	}

	_, err := f.service.Place(7, "12 Orchard Lane", PaymentCashOnDelivery)
	if !errors.Is(err, product.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	// the first line's decrement must not survive the abort
	a, _ := f.products.GetByID(1)
	if a.Stock != 5 {
		t.Fatalf("expected Apple stock 5 after abort, got %d", a.Stock)
	}
	crt, _ := f.carts.Get(7)
	if len(crt.Items) != 2 {
		t.Fatalf("expected cart unchanged after abort, got %+v", crt.Items)
	}
	if all, _ := f.orders.ListAll(); len(all) != 0 {
		t.Fatalf("no order should exist after aborted placement")
	}
}

func TestPlace_UnavailableProductAborts(t *testing.T) {
	f := newFixture([]product.Product{
		{ID: 1, Name: "Apple", Price: 10, Stock: 5, Available: true},
	})
	if _, err := f.carts.Add(7, 1, 1); err != nil {
		t.Fatal(err)
	}

	// product pulled from sale after it was carted
	if _, err := f.products.Update(1, product.Patch{Available: boolPtr(false)}, ""); err != nil {
		t.Fatal(err)
	}

	_, err := f.service.Place(7, "12 Orchard Lane", PaymentCashOnDelivery)
	if !errors.Is(err, product.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if err.Error() != "Product Apple is no longer available" {
		t.Fatalf("unexpected failure message %q", err.Error())
	}
	p, _ := f.products.GetByID(1)
	if p.Stock != 5 {
		t.Fatalf("stock must be unchanged, got %d", p.Stock)
	}
}

func TestPlace_DeletedProductAborts(t *testing.T) {
	f := newFixture([]product.Product{
		{ID: 1, Name: "Apple", Price: 10, Stock: 5, Available: true},
	})
	if _, err := f.carts.Add(7, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := f.products.Delete(1); err != nil {
		t.Fatal(err)
	}

	_, err := f.service.Place(7, "12 Orchard Lane", PaymentCashOnDelivery)
	if !errors.Is(err, product.ErrUnavailable) {
		t.Fatalf("expected unavailable error for deleted product, got %v", err)
	}
}

// Snapshots freeze name and price at placement; later catalog edits must not
// change the stored order.
func TestPlace_SnapshotsAreFrozen(t *testing.T) {
	f := newFixture([]product.Product{
		{ID: 1, Name: "Banana", Price: 20, Stock: 10, Available: true},
	})
	if _, err := f.carts.Add(7, 1, 2); err != nil {
		t.Fatal(err)
	}

	ord, err := f.service.Place(7, "12 Orchard Lane", PaymentMockCard)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.products.Update(1, product.Patch{Price: floatPtr(99), Name: strPtr("Golden Banana")}, ""); err != nil {
		t.Fatal(err)
	}

	stored, err := f.orders.GetByID(ord.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.TotalAmount != 40 {
		t.Fatalf("totalAmount must not be recomputed, got %v", stored.TotalAmount)
	}
	if stored.Items[0].Price != 20 || stored.Items[0].Name != "Banana" {
		t.Fatalf("snapshot changed after catalog edit: %+v", stored.Items[0])
	}
}

func TestGet_OwnerOrAdminOnly(t *testing.T) {
	f := newFixture([]product.Product{
		{ID: 1, Name: "Banana", Price: 20, Stock: 10, Available: true},
	})
	f.carts.Add(7, 1, 1)
	ord, err := f.service.Place(7, "12 Orchard Lane", PaymentCashOnDelivery)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.service.Get(ord.ID, 7, user.RoleCustomer); err != nil {
		t.Fatalf("owner must read own order: %v", err)
	}
	if _, err := f.service.Get(ord.ID, 8, user.RoleAdmin); err != nil {
		t.Fatalf("admin must read any order: %v", err)
	}
	if _, err := f.service.Get(ord.ID, 8, user.RoleCustomer); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if _, err := f.service.Get(999, 7, user.RoleCustomer); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture([]product.Product{
		{ID: 1, Name: "Banana", Price: 20, Stock: 10, Available: true},
	})
	f.carts.Add(7, 1, 1)
	ord, err := f.service.Place(7, "12 Orchard Lane", PaymentCashOnDelivery)
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.service.UpdateStatus(ord.ID, StatusDelivered)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != StatusDelivered {
		t.Fatalf("expected Delivered, got %q", updated.Status)
	}

	// no transition graph: any status may replace any other
	if _, err := f.service.UpdateStatus(ord.ID, StatusPlaced); err != nil {
		t.Fatalf("backwards transition should be allowed: %v", err)
	}

	if _, err := f.service.UpdateStatus(ord.ID, "Shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := f.service.UpdateStatus(999, StatusDelivered); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByUser_NewestFirst(t *testing.T) {
	f := newFixture([]product.Product{
		{ID: 1, Name: "Banana", Price: 20, Stock: 10, Available: true},
	})

	f.carts.Add(7, 1, 1)
	first, _ := f.service.Place(7, "12 Orchard Lane", PaymentCashOnDelivery)
	f.carts.Add(7, 1, 1)
	second, _ := f.service.Place(7, "12 Orchard Lane", PaymentCashOnDelivery)

	orders, err := f.service.ListByUser(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Fatalf("expected newest first, got %d then %d", orders[0].ID, orders[1].ID)
	}
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }
