package user

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Handler struct {
	service ServiceInterface
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/auth/sign-up", h.signUp)
	app.Post("/auth/sign-in", h.signIn)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/auth/profile", h.getProfile)
}

func (h *Handler) signUp(c *fiber.Ctx) error {
	payload := new(signUpRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Name, email and password are required"})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Register(User{
		Name:      payload.Name,
		Email:     payload.Email,
		Password:  payload.Password,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if err == ErrEmailExists {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created",
		"user":    sanitizeUser(created),
	})
}

func (h *Handler) signIn(c *fiber.Ctx) error {
	payload := new(signInRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	u, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
	}

	claims := jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    u.Role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    sanitizeUser(u),
		"token":   signed,
	})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	u, err := h.service.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}

	return c.JSON(sanitizeUser(u))
}

func sanitizeUser(u User) User {
	u.Password = ""
	return u
}
