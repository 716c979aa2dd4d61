package dashboard

import (
	"context"
	"errors"

	"replate-backend/internal/auth"
	"replate-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	Assembler *Assembler
}

func NewHandler(a *Assembler) *Handler {
	return &Handler{Assembler: a}
}

func toFiberError(err error) error {
	if errors.Is(err, ErrUnauthorized) {
		return fiber.NewError(fiber.StatusUnauthorized, "sign in again to view this dashboard")
	}
	return err
}

func serve[T any](build func(context.Context, uuid.UUID) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}
		data, err := build(c.UserContext(), id.UserID)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(data)
	}
}

// GET /api/admin/dashboard
func (h *Handler) Admin() fiber.Handler { return serve(h.Assembler.Admin) }

// GET /api/staff/dashboard
func (h *Handler) Staff() fiber.Handler { return serve(h.Assembler.Staff) }

// GET /api/student/dashboard
func (h *Handler) Student() fiber.Handler { return serve(h.Assembler.Student) }

// GET /api/volunteer/dashboard
func (h *Handler) Volunteer() fiber.Handler { return serve(h.Assembler.Volunteer) }

// GET /api/dashboard
// Picks the dashboard from the role in the token.
func (h *Handler) Dispatch() fiber.Handler {
	admin, staff, student, volunteer := h.Admin(), h.Staff(), h.Student(), h.Volunteer()
	return func(c *fiber.Ctx) error {
		id, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}
		switch id.Role {
		case models.RoleAdmin:
			return admin(c)
		case models.RoleStaff:
			return staff(c)
		case models.RoleStudent:
			return student(c)
		case models.RoleVolunteer:
			return volunteer(c)
		}
		return fiber.NewError(fiber.StatusUnauthorized, "unknown role")
	}
}
