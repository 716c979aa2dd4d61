// Package apierror turns store errors into HTTP errors and renders them.
package apierror

import (
	"errors"

	"replate-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SignInPath is where the client is sent after a 401 or 403.
const SignInPath = "/auth/login"

// FromStore maps a store sentinel onto a fiber error. Unknown errors pass
// through and end up as a 500.
func FromStore(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrDuplicateEmail), errors.Is(err, store.ErrDuplicateName):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrSaleClosed),
		errors.Is(err, store.ErrInsufficientQuantity):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidPrice):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// Handler renders every error as {"error": msg}. 401 and 403 also carry a
// redirect to sign-in.
func Handler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			body := fiber.Map{"error": fe.Message}
			if fe.Code == fiber.StatusUnauthorized || fe.Code == fiber.StatusForbidden {
				body["redirect"] = SignInPath
			}
			return c.Status(fe.Code).JSON(body)
		}
		log.Error("unexpected error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unexpected server error",
		})
	}
}
