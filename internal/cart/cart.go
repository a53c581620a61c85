package cart

import (
	"github.com/freshcart/fruit-shop-backend/internal/product"
	"github.com/freshcart/fruit-shop-backend/internal/user"
)

// Cart is the per-user line-item collection. Items keep insertion order and
// hold at most one line per product (adds merge into the existing line).
// User carries the resolved owner summary on the admin listing and is not
// persisted.
type Cart struct {
	UserID    int           `json:"userId"`
	Items     []Item        `json:"items"`
	CreatedAt string        `json:"createdAt,omitempty"`
	UpdatedAt string        `json:"updatedAt,omitempty"`
	User      *user.Summary `json:"user,omitempty"`
}

// Item pairs a product reference with a quantity. Product carries the
// resolved catalog details on responses and is not persisted.
type Item struct {
	ProductID int              `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *product.Product `json:"product,omitempty"`
}
