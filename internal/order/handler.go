package order

import (
	"errors"
	"strconv"

	"github.com/freshcart/fruit-shop-backend/internal/product"
	"github.com/freshcart/fruit-shop-backend/internal/user"
	"github.com/gofiber/fiber/v2"
)

// Handler delegates order operations to the order service. It also needs the
// user and product services to resolve references on responses.
type Handler struct {
	service        *Service
	userService    user.ServiceInterface
	productService product.ServiceInterface
}

func NewHandler(s *Service, us user.ServiceInterface, ps product.ServiceInterface) *Handler {
	return &Handler{service: s, userService: us, productService: ps}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/orders/all", user.RequireAdmin, h.listAll)
	app.Get("/orders", h.listMine)
	app.Get("/orders/:id<int>", h.getOrder)
	app.Post("/orders", h.placeOrder)
	app.Put("/orders/:id<int>/status", user.RequireAdmin, h.updateStatus)
}

type placeOrderRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	payload := new(placeOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.DeliveryAddress == "" || payload.PaymentMethod == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Delivery address and payment method are required"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	created, err := h.service.Place(userID, payload.DeliveryAddress, payload.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, ErrAddressRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Delivery address is required"})
		case errors.Is(err, ErrInvalidPaymentMethod):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid payment method"})
		case errors.Is(err, ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cart is empty"})
		case errors.Is(err, product.ErrUnavailable), errors.Is(err, product.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	h.resolveProducts([]Order{created})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"order":   created,
	})
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	o, err := h.service.Get(id, userID, user.GetRoleFromCtx(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
		case errors.Is(err, ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Access denied"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	orders := []Order{o}
	h.resolveUsers(orders)
	h.resolveProducts(orders)
	return c.JSON(orders[0])
}

func (h *Handler) listMine(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	h.resolveProducts(orders)
	return c.JSON(orders)
}

func (h *Handler) listAll(c *fiber.Ctx) error {
	orders, err := h.service.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	h.resolveUsers(orders)
	h.resolveProducts(orders)
	return c.JSON(orders)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.UpdateStatus(id, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid status"})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	orders := []Order{updated}
	h.resolveUsers(orders)
	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"order":   orders[0],
	})
}

// resolveUsers attaches owner summaries in place.
func (h *Handler) resolveUsers(orders []Order) {
	if h.userService == nil {
		return
	}
	cache := map[int]*user.Summary{}
	for i := range orders {
		summary, ok := cache[orders[i].UserID]
		if !ok {
			if u, err := h.userService.GetByID(orders[i].UserID); err == nil {
				s := u.Summary()
				summary = &s
			}
			cache[orders[i].UserID] = summary
		}
		orders[i].User = summary
	}
}

// resolveProducts attaches current catalog records to the item snapshots.
// Items whose product has since been deleted keep a nil Product; the frozen
// name and price still describe the purchase.
func (h *Handler) resolveProducts(orders []Order) {
	if h.productService == nil {
		return
	}

	idSet := map[int]struct{}{}
	for _, o := range orders {
		for _, it := range o.Items {
			idSet[it.ProductID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return
	}

	ids := make([]int, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	prods, err := h.productService.ListByIDs(ids)
	if err != nil {
		return
	}
	byID := make(map[int]product.Product, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
	}

	for i := range orders {
		for j := range orders[i].Items {
			if p, ok := byID[orders[i].Items[j].ProductID]; ok {
				resolved := p
				orders[i].Items[j].Product = &resolved
			}
		}
	}
}
