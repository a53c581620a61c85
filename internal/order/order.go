package order

import (
	"github.com/freshcart/fruit-shop-backend/internal/product"
	"github.com/freshcart/fruit-shop-backend/internal/user"
)

const (
	StatusPlaced     = "Placed"
	StatusProcessing = "Processing"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"

	PaymentCashOnDelivery = "Cash on Delivery"
	PaymentMockCard       = "Mock Card"
)

var (
	Statuses       = []string{StatusPlaced, StatusProcessing, StatusDelivered, StatusCancelled}
	PaymentMethods = []string{PaymentCashOnDelivery, PaymentMockCard}
)

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// OrderItem is a frozen copy of the product's name and price at placement
// time. Catalog edits after the order never touch these values. Product
// carries the current catalog record on responses and is not persisted.
type OrderItem struct {
	ProductID int              `json:"productId"`
	Name      string           `json:"name"`
	Price     float64          `json:"price"`
	Quantity  int              `json:"quantity"`
	Product   *product.Product `json:"product,omitempty"`
}

// Order is immutable once created except for Status. TotalAmount is computed
// at creation and never recomputed. User carries the resolved owner summary
// on admin responses and is not persisted.
type Order struct {
	ID              int           `json:"orderId"`
	UserID          int           `json:"userId"`
	Items           []OrderItem   `json:"items"`
	TotalAmount     float64       `json:"totalAmount"`
	DeliveryAddress string        `json:"deliveryAddress"`
	PaymentMethod   string        `json:"paymentMethod"`
	Status          string        `json:"status"`
	CreatedAt       string        `json:"createdAt"`
	UpdatedAt       string        `json:"updatedAt"`
	User            *user.Summary `json:"user,omitempty"`
}
