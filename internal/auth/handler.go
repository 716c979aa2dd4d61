package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Profiles is the slice of the store the identity endpoints use.
type Profiles interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	CreateProfile(ctx context.Context, p *models.Profile) error
	CountProfilesByRole(ctx context.Context, role models.Role) (int64, error)
}

type Handler struct {
	Profiles Profiles
	Secret   string
	TokenTTL time.Duration
	Log      *zap.Logger
}

func NewHandler(profiles Profiles, secret string, ttl time.Duration, logger *zap.Logger) *Handler {
	return &Handler{Profiles: profiles, Secret: secret, TokenTTL: ttl, Log: logger}
}

type SignUpRequest struct {
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	Phone     string     `json:"phone"`
	StudentID string     `json:"student_id"`
	CanteenID *uuid.UUID `json:"canteen_id"`
	NGOID     *uuid.UUID `json:"ngo_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const minPasswordLen = 8

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (h *Handler) sessionResponse(c *fiber.Ctx, status int, p *models.Profile) error {
	token, err := GenerateToken(h.Secret, h.TokenTTL, p)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{
		"token":    token,
		"profile":  p,
		"redirect": p.Role.HomePath(),
	})
}

func (h *Handler) createProfile(c *fiber.Ctx, body SignUpRequest, role models.Role) error {
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || !strings.Contains(body.Email, "@") {
		return fiber.NewError(fiber.StatusBadRequest, "valid email is required")
	}
	if len(body.Password) < minPasswordLen {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
	}
	if role == models.RoleStaff && body.CanteenID == nil {
		return fiber.NewError(fiber.StatusBadRequest, "canteen_id is required for staff")
	}
	if role == models.RoleVolunteer && body.NGOID == nil {
		return fiber.NewError(fiber.StatusBadRequest, "ngo_id is required for volunteers")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p := &models.Profile{
		Email:        body.Email,
		PasswordHash: string(hash),
		FullName:     optional(body.FullName),
		Role:         role,
		Phone:        optional(body.Phone),
		StudentID:    optional(body.StudentID),
	}
	switch role {
	case models.RoleStaff:
		p.CanteenID = body.CanteenID
	case models.RoleVolunteer:
		p.NGOID = body.NGOID
	}

	if err := h.Profiles.CreateProfile(c.UserContext(), p); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}
		return err
	}

	h.Log.Info("profile created", zap.String("profile_id", p.ID.String()), zap.String("role", string(role)))
	return h.sessionResponse(c, fiber.StatusCreated, p)
}

// POST /api/auth/sign-up
// Role defaults to student. Admin accounts cannot be self-registered.
func (h *Handler) SignUp() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SignUpRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		role := models.RoleStudent
		if strings.TrimSpace(body.Role) != "" {
			r, ok := models.ParseRole(body.Role)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "unknown role")
			}
			role = r
		}
		if role == models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin accounts cannot be self-registered")
		}

		return h.createProfile(c, body, role)
	}
}

// POST /api/auth/register-admin
// Only works while no admin exists.
func (h *Handler) RegisterAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SignUpRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		count, err := h.Profiles.CountProfilesByRole(c.UserContext(), models.RoleAdmin)
		if err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "an admin already exists")
		}

		return h.createProfile(c, body, models.RoleAdmin)
	}
}

// POST /api/auth/login
func (h *Handler) Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		email := strings.TrimSpace(strings.ToLower(body.Email))
		p, err := h.Profiles.GetProfileByEmail(c.UserContext(), email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
			}
			return err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
		}

		return h.sessionResponse(c, fiber.StatusOK, p)
	}
}

// GET /api/auth/me
func (h *Handler) Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := CurrentIdentity(c)
		if err != nil {
			return err
		}
		p, err := h.Profiles.GetProfile(c.UserContext(), id.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "profile not found")
			}
			return err
		}
		return c.JSON(fiber.Map{
			"profile":  p,
			"redirect": p.Role.HomePath(),
		})
	}
}

// GET /api/home
// Tells the client which dashboard the signed-in user belongs on.
func (h *Handler) Home() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := CurrentIdentity(c)
		if err != nil {
			return err
		}
		p, err := h.Profiles.GetProfile(c.UserContext(), id.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "profile not found")
			}
			return err
		}
		return c.JSON(fiber.Map{"redirect": p.Role.HomePath()})
	}
}
