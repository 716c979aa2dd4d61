package auth

import (
	"fmt"
	"strings"

	"replate-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey    = "user_id"
	CtxUserRoleKey  = "user_role"
	CtxCanteenIDKey = "canteen_id"
	CtxNGOIDKey     = "ngo_id"
)

func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok || claims.UserID == uuid.Nil {
			return fiber.NewError(fiber.StatusUnauthorized, "malformed token claims")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxCanteenIDKey, claims.CanteenID)
		c.Locals(CtxNGOIDKey, claims.NGOID)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.Role)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "no role in session")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "not allowed for role "+string(role))
	}
}

// Identity is what the token says about the caller.
type Identity struct {
	UserID    uuid.UUID
	Role      models.Role
	CanteenID *uuid.UUID
	NGOID     *uuid.UUID
}

// CurrentIdentity reads the Locals set by JWTMiddleware.
func CurrentIdentity(c *fiber.Ctx) (Identity, error) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return Identity{}, fiber.NewError(fiber.StatusUnauthorized, "not signed in")
	}
	role, _ := c.Locals(CtxUserRoleKey).(models.Role)
	canteenID, _ := c.Locals(CtxCanteenIDKey).(*uuid.UUID)
	ngoID, _ := c.Locals(CtxNGOIDKey).(*uuid.UUID)
	return Identity{UserID: id, Role: role, CanteenID: canteenID, NGOID: ngoID}, nil
}
