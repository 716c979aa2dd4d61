// Package donation holds the volunteer pickup workflow.
package donation

import (
	"context"
	"time"

	"replate-backend/internal/apierror"
	"replate-backend/internal/auth"
	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Store interface {
	AdvanceDonation(ctx context.Context, p store.AdvanceParams) (*models.Donation, error)
}

type Handler struct {
	Store Store
	Log   *zap.Logger
	Now   func() time.Time
}

func NewHandler(s Store, logger *zap.Logger) *Handler {
	return &Handler{Store: s, Log: logger, Now: time.Now}
}

type ScheduleRequest struct {
	PickupTime time.Time `json:"pickup_time"`
}

func volunteerNGO(c *fiber.Ctx) (auth.Identity, uuid.UUID, error) {
	id, err := auth.CurrentIdentity(c)
	if err != nil {
		return id, uuid.Nil, err
	}
	if id.NGOID == nil {
		return id, uuid.Nil, fiber.NewError(fiber.StatusForbidden, "volunteer account has no ngo")
	}
	return id, *id.NGOID, nil
}

func (h *Handler) advance(c *fiber.Ctx, to models.DonationStatus, pickup *time.Time) error {
	id, ngoID, err := volunteerNGO(c)
	if err != nil {
		return err
	}
	donationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	d, err := h.Store.AdvanceDonation(c.UserContext(), store.AdvanceParams{
		DonationID: donationID,
		NGOID:      ngoID,
		ActorID:    id.UserID,
		To:         to,
		PickupTime: pickup,
		Now:        h.Now(),
	})
	if err != nil {
		return apierror.FromStore(err)
	}

	h.Log.Info("donation advanced",
		zap.String("donation_id", d.ID.String()),
		zap.String("status", string(d.Status)))
	return c.JSON(d)
}

// POST /api/volunteer/donations/:id/schedule
func (h *Handler) Schedule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ScheduleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.PickupTime.IsZero() {
			return fiber.NewError(fiber.StatusBadRequest, "pickup_time is required")
		}
		if body.PickupTime.Before(h.Now()) {
			return fiber.NewError(fiber.StatusBadRequest, "pickup_time cannot be in the past")
		}
		return h.advance(c, models.DonationScheduled, &body.PickupTime)
	}
}

// POST /api/volunteer/donations/:id/complete
func (h *Handler) Complete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.advance(c, models.DonationCompleted, nil)
	}
}
