package cart

import (
	"errors"
	"strconv"

	"github.com/freshcart/fruit-shop-backend/internal/product"
	"github.com/freshcart/fruit-shop-backend/internal/user"
	"github.com/gofiber/fiber/v2"
)

// Handler keeps cart-specific HTTP routing isolated. The user service is
// only needed to resolve owner summaries on the admin listing.
type Handler struct {
	service ServiceInterface
	users   user.ServiceInterface
}

func NewHandler(service ServiceInterface, users user.ServiceInterface) *Handler {
	return &Handler{service: service, users: users}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/cart/all", user.RequireAdmin, h.listAll)
	app.Get("/cart", h.getCart)
	app.Post("/cart/add", h.addItem)
	app.Put("/cart/update", h.updateItem)
	app.Delete("/cart/remove/:productId<int>", h.removeItem)
	app.Delete("/cart/clear", h.clearCart)
}

type itemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	crt, err := h.service.Get(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(crt)
}

func (h *Handler) listAll(c *fiber.Ctx) error {
	carts, err := h.service.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	h.resolveUsers(carts)
	return c.JSON(carts)
}

// resolveUsers attaches owner summaries in place.
func (h *Handler) resolveUsers(carts []Cart) {
	if h.users == nil {
		return
	}
	cache := map[int]*user.Summary{}
	for i := range carts {
		summary, ok := cache[carts[i].UserID]
		if !ok {
			if u, err := h.users.GetByID(carts[i].UserID); err == nil {
				s := u.Summary()
				summary = &s
			}
			cache[carts[i].UserID] = summary
		}
		carts[i].User = summary
	}
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Product ID and quantity are required"})
	}
	if payload.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Quantity must be at least 1"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	crt, err := h.service.Add(userID, payload.ProductID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Item added to cart",
		"cart":    crt,
	})
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Product ID and quantity are required"})
	}
	if payload.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Quantity must be at least 1"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	crt, err := h.service.Update(userID, payload.ProductID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Cart updated",
		"cart":    crt,
	})
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	crt, err := h.service.Remove(userID, productID)
	if err != nil {
		return cartError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Item removed from cart",
		"cart":    crt,
	})
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	crt, err := h.service.Clear(userID)
	if err != nil {
		return cartError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Cart cleared",
		"cart":    crt,
	})
}

func cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, product.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	case errors.Is(err, ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Item not found in cart"})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Cart not found"})
	case errors.Is(err, product.ErrUnavailable):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Product is not available"})
	case errors.Is(err, product.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
