// Package admin manages the canteens and NGOs profiles attach to.
package admin

import (
	"context"
	"strings"

	"replate-backend/internal/apierror"
	"replate-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Store interface {
	ListCanteens(ctx context.Context) ([]models.Canteen, error)
	GetCanteen(ctx context.Context, id uuid.UUID) (*models.Canteen, error)
	CreateCanteen(ctx context.Context, c *models.Canteen) error
	UpdateCanteen(ctx context.Context, c *models.Canteen) error
	ListNGOs(ctx context.Context) ([]models.NGO, error)
	GetNGO(ctx context.Context, id uuid.UUID) (*models.NGO, error)
	CreateNGO(ctx context.Context, n *models.NGO) error
	UpdateNGO(ctx context.Context, n *models.NGO) error
}

type Handler struct {
	Store Store
	Log   *zap.Logger
}

func NewHandler(s Store, logger *zap.Logger) *Handler {
	return &Handler{Store: s, Log: logger}
}

// PartnerRequest is shared by canteens and NGOs. Location is the canteen's
// place on campus; Address is where an NGO receives pickups.
type PartnerRequest struct {
	Name         *string `json:"name"`
	Location     *string `json:"location"`
	Address      *string `json:"address"`
	ContactPhone *string `json:"contact_phone"`
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, create bool) (PartnerRequest, error) {
	var body PartnerRequest
	if err := c.BodyParser(&body); err != nil {
		return body, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if (create || body.Name != nil) && trimmed(body.Name) == "" {
		return body, fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
	}
	return body, nil
}

// ----------------------------------------
// Canteens
// ----------------------------------------

// GET /api/canteens
func (h *Handler) ListCanteens() fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.Store.ListCanteens(c.UserContext())
		if err != nil {
			return err
		}
		if out == nil {
			out = []models.Canteen{}
		}
		return c.JSON(out)
	}
}

// POST /api/admin/canteens
func (h *Handler) CreateCanteen() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := parseBody(c, true)
		if err != nil {
			return err
		}
		canteen := &models.Canteen{
			Name:         trimmed(body.Name),
			Location:     trimmed(body.Location),
			ContactPhone: trimmed(body.ContactPhone),
		}
		if err := h.Store.CreateCanteen(c.UserContext(), canteen); err != nil {
			return apierror.FromStore(err)
		}
		h.Log.Info("canteen created", zap.String("canteen_id", canteen.ID.String()), zap.String("name", canteen.Name))
		return c.Status(fiber.StatusCreated).JSON(canteen)
	}
}

// PUT /api/admin/canteens/:id
// Only the fields present in the body change.
func (h *Handler) UpdateCanteen() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		body, err := parseBody(c, false)
		if err != nil {
			return err
		}
		canteen, err := h.Store.GetCanteen(c.UserContext(), id)
		if err != nil {
			return apierror.FromStore(err)
		}
		if body.Name != nil {
			canteen.Name = trimmed(body.Name)
		}
		if body.Location != nil {
			canteen.Location = trimmed(body.Location)
		}
		if body.ContactPhone != nil {
			canteen.ContactPhone = trimmed(body.ContactPhone)
		}
		if err := h.Store.UpdateCanteen(c.UserContext(), canteen); err != nil {
			return apierror.FromStore(err)
		}
		return c.JSON(canteen)
	}
}

// ----------------------------------------
// NGOs
// ----------------------------------------

// GET /api/ngos
func (h *Handler) ListNGOs() fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.Store.ListNGOs(c.UserContext())
		if err != nil {
			return err
		}
		if out == nil {
			out = []models.NGO{}
		}
		return c.JSON(out)
	}
}

// POST /api/admin/ngos
func (h *Handler) CreateNGO() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := parseBody(c, true)
		if err != nil {
			return err
		}
		ngo := &models.NGO{
			Name:         trimmed(body.Name),
			Address:      trimmed(body.Address),
			ContactPhone: trimmed(body.ContactPhone),
		}
		if err := h.Store.CreateNGO(c.UserContext(), ngo); err != nil {
			return apierror.FromStore(err)
		}
		h.Log.Info("ngo created", zap.String("ngo_id", ngo.ID.String()), zap.String("name", ngo.Name))
		return c.Status(fiber.StatusCreated).JSON(ngo)
	}
}

// PUT /api/admin/ngos/:id
func (h *Handler) UpdateNGO() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		body, err := parseBody(c, false)
		if err != nil {
			return err
		}
		ngo, err := h.Store.GetNGO(c.UserContext(), id)
		if err != nil {
			return apierror.FromStore(err)
		}
		if body.Name != nil {
			ngo.Name = trimmed(body.Name)
		}
		if body.Address != nil {
			ngo.Address = trimmed(body.Address)
		}
		if body.ContactPhone != nil {
			ngo.ContactPhone = trimmed(body.ContactPhone)
		}
		if err := h.Store.UpdateNGO(c.UserContext(), ngo); err != nil {
			return apierror.FromStore(err)
		}
		return c.JSON(ngo)
	}
}
