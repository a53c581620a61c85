package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GetUserIDFromCtx extracts the user_id claim from the JWT token that the
// auth middleware stored in the request locals.
func GetUserIDFromCtx(c *fiber.Ctx) (int, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return 0, err
	}
	raw, ok := claims["user_id"]
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, fiber.ErrUnauthorized
		}
		return id, nil
	default:
		return 0, fiber.ErrUnauthorized
	}
}

// GetRoleFromCtx returns the role claim, defaulting to customer when the
// token predates roles.
func GetRoleFromCtx(c *fiber.Ctx) string {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return ""
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		return role
	}
	return RoleCustomer
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// It assumes the JWT middleware already ran.
func RequireAdmin(c *fiber.Ctx) error {
	if _, err := GetUserIDFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if GetRoleFromCtx(c) != RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Access denied"})
	}
	return c.Next()
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	u := c.Locals("user")
	if u == nil {
		return nil, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}
