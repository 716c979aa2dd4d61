// Package surplus holds the staff and student write paths: logging
// surplus food, opening flash sales, donating, and claiming.
package surplus

import (
	"context"
	"strings"
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
	CreateFoodItem(ctx context.Context, item *models.FoodItem) error
	StartFlashSale(ctx context.Context, p store.FlashSaleParams) (*models.FlashSale, error)
	DonateFoodItem(ctx context.Context, p store.DonateParams) (*models.Donation, error)
	ClaimFlashSale(ctx context.Context, p store.ClaimParams) (*models.Claim, error)
}

type Handler struct {
	Store Store
	Log   *zap.Logger
	Now   func() time.Time
}

func NewHandler(s Store, logger *zap.Logger) *Handler {
	return &Handler{Store: s, Log: logger, Now: time.Now}
}

type CreateFoodItemRequest struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Quantity      int       `json:"quantity"`
	OriginalPrice *float64  `json:"original_price"`
	ExpiryTime    time.Time `json:"expiry_time"`
	ImageURL      string    `json:"image_url"`
}

type FlashSaleRequest struct {
	DiscountedPrice float64 `json:"discounted_price"`
	DurationMinutes int     `json:"duration_minutes"`
}

type DonateRequest struct {
	NGOID uuid.UUID `json:"ngo_id"`
}

type ClaimRequest struct {
	Quantity int `json:"quantity"`
}

const maxSaleMinutes = 24 * 60

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// staffCanteen returns the caller and the canteen they work at.
func staffCanteen(c *fiber.Ctx) (auth.Identity, uuid.UUID, error) {
	id, err := auth.CurrentIdentity(c)
	if err != nil {
		return id, uuid.Nil, err
	}
	if id.CanteenID == nil {
		return id, uuid.Nil, fiber.NewError(fiber.StatusForbidden, "staff account has no canteen")
	}
	return id, *id.CanteenID, nil
}

// POST /api/staff/food-items
func (h *Handler) CreateFoodItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, canteenID, err := staffCanteen(c)
		if err != nil {
			return err
		}

		var body CreateFoodItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		body.Category = strings.TrimSpace(body.Category)
		if body.Name == "" || body.Category == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and category are required")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
		}
		if body.OriginalPrice != nil && *body.OriginalPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "original_price cannot be negative")
		}
		if !body.ExpiryTime.After(h.Now()) {
			return fiber.NewError(fiber.StatusBadRequest, "expiry_time must be in the future")
		}

		item := &models.FoodItem{
			CanteenID:       canteenID,
			StaffID:         id.UserID,
			Name:            body.Name,
			Description:     optional(body.Description),
			Category:        body.Category,
			Quantity:        body.Quantity,
			InitialQuantity: body.Quantity,
			OriginalPrice:   body.OriginalPrice,
			ExpiryTime:      body.ExpiryTime,
			Status:          models.FoodAvailable,
			ImageURL:        optional(body.ImageURL),
		}
		if err := h.Store.CreateFoodItem(c.UserContext(), item); err != nil {
			return apierror.FromStore(err)
		}

		h.Log.Info("food item logged",
			zap.String("food_item_id", item.ID.String()),
			zap.String("canteen_id", canteenID.String()),
			zap.Int("quantity", item.Quantity))
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// POST /api/staff/food-items/:id/flash-sale
func (h *Handler) StartFlashSale() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, canteenID, err := staffCanteen(c)
		if err != nil {
			return err
		}
		itemID, err := paramID(c)
		if err != nil {
			return err
		}

		var body FlashSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.DiscountedPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "discounted_price cannot be negative")
		}
		if body.DurationMinutes <= 0 || body.DurationMinutes > maxSaleMinutes {
			return fiber.NewError(fiber.StatusBadRequest, "duration_minutes must be between 1 and 1440")
		}

		start := h.Now()
		sale, err := h.Store.StartFlashSale(c.UserContext(), store.FlashSaleParams{
			FoodItemID:      itemID,
			CanteenID:       canteenID,
			ActorID:         id.UserID,
			DiscountedPrice: body.DiscountedPrice,
			Start:           start,
			End:             start.Add(time.Duration(body.DurationMinutes) * time.Minute),
		})
		if err != nil {
			return apierror.FromStore(err)
		}

		h.Log.Info("flash sale started",
			zap.String("flash_sale_id", sale.ID.String()),
			zap.String("food_item_id", itemID.String()))
		return c.Status(fiber.StatusCreated).JSON(sale)
	}
}

// POST /api/staff/food-items/:id/donate
func (h *Handler) Donate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, canteenID, err := staffCanteen(c)
		if err != nil {
			return err
		}
		itemID, err := paramID(c)
		if err != nil {
			return err
		}

		var body DonateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.NGOID == uuid.Nil {
			return fiber.NewError(fiber.StatusBadRequest, "ngo_id is required")
		}

		d, err := h.Store.DonateFoodItem(c.UserContext(), store.DonateParams{
			FoodItemID: itemID,
			CanteenID:  canteenID,
			NGOID:      body.NGOID,
			ActorID:    id.UserID,
		})
		if err != nil {
			return apierror.FromStore(err)
		}

		h.Log.Info("food item donated",
			zap.String("donation_id", d.ID.String()),
			zap.String("ngo_id", body.NGOID.String()))
		return c.Status(fiber.StatusCreated).JSON(d)
	}
}

// POST /api/student/flash-sales/:id/claim
func (h *Handler) Claim() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := auth.CurrentIdentity(c)
		if err != nil {
			return err
		}
		saleID, err := paramID(c)
		if err != nil {
			return err
		}

		var body ClaimRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
		}

		claim, err := h.Store.ClaimFlashSale(c.UserContext(), store.ClaimParams{
			FlashSaleID: saleID,
			StudentID:   id.UserID,
			Quantity:    body.Quantity,
			Now:         h.Now(),
		})
		if err != nil {
			return apierror.FromStore(err)
		}

		h.Log.Info("flash sale claimed",
			zap.String("claim_id", claim.ID.String()),
			zap.Int("quantity", claim.Quantity))
		return c.Status(fiber.StatusCreated).JSON(claim)
	}
}
