package auth

import (
	"time"

	"replate-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTCustomClaims struct {
	UserID    uuid.UUID   `json:"user_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CanteenID *uuid.UUID  `json:"canteen_id,omitempty"`
	NGOID     *uuid.UUID  `json:"ngo_id,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, ttl time.Duration, p *models.Profile) (string, error) {
	now := time.Now()
	claims := &JWTCustomClaims{
		UserID:    p.ID,
		Email:     p.Email,
		Role:      p.Role,
		CanteenID: p.CanteenID,
		NGOID:     p.NGOID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
