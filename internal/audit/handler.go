// Package audit exposes the write history kept by the store.
package audit

import (
	"context"
	"strconv"

	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Store interface {
	ListAuditLogs(ctx context.Context, f store.AuditFilter) ([]models.AuditLog, error)
}

type Handler struct {
	Store Store
}

func NewHandler(s Store) *Handler {
	return &Handler{Store: s}
}

func optionalUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+key)
	}
	return &id, nil
}

// GET /api/admin/audit-logs?entity_type=donation&entity_id=...&actor_id=...&limit=50
func (h *Handler) List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := store.AuditFilter{
			EntityType: c.Query("entity_type"),
			Limit:      defaultLimit,
		}
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
			}
			f.Limit = min(n, maxLimit)
		}

		var err error
		if f.EntityID, err = optionalUUID(c, "entity_id"); err != nil {
			return err
		}
		if f.ActorID, err = optionalUUID(c, "actor_id"); err != nil {
			return err
		}

		logs, err := h.Store.ListAuditLogs(c.UserContext(), f)
		if err != nil {
			return err
		}
		if logs == nil {
			logs = []models.AuditLog{}
		}
		return c.JSON(logs)
	}
}
