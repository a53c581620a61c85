package product

import (
	"strconv"
	"time"

	"github.com/freshcart/fruit-shop-backend/internal/user"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/products", h.listAvailable)
	// the int constraint keeps /products/all out of this route
	app.Get("/products/:id<int>", h.getProduct)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/products/all", user.RequireAdmin, h.listAll)
	app.Post("/products", user.RequireAdmin, h.createProduct)
	app.Put("/products/:id<int>", user.RequireAdmin, h.updateProduct)
	app.Delete("/products/:id<int>", user.RequireAdmin, h.deleteProduct)
}

func (h *Handler) listAvailable(c *fiber.Ctx) error {
	return c.JSON(h.service.ListAvailable())
}

func (h *Handler) listAll(c *fiber.Ctx) error {
	return c.JSON(h.service.ListAll())
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}
	return c.JSON(p)
}

type createProductRequest struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Available   *bool    `json:"available"`
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	payload := new(createProductRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if payload.Name == "" || payload.Price == nil || payload.Stock == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Name, price, and stock are required"})
	}
	if *payload.Price < 0 || *payload.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Price and stock cannot be negative"})
	}

	available := true
	if payload.Available != nil {
		available = *payload.Available
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Create(Product{
		Name:        payload.Name,
		Price:       *payload.Price,
		Stock:       *payload.Stock,
		Image:       payload.Image,
		Description: payload.Description,
		Available:   available,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": created,
	})
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	patch := new(Patch)
	if err := c.BodyParser(patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	// validate only the supplied fields
	if patch.Price != nil && *patch.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Price cannot be negative"})
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Stock cannot be negative"})
	}
	if patch.Name != nil && *patch.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Name cannot be empty"})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	updated, err := h.service.Update(id, *patch, now)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": updated,
	})
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
