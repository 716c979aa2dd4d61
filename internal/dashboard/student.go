package dashboard

import (
	"context"

	"replate-backend/internal/analytics"
	"replate-backend/internal/models"

	"github.com/google/uuid"
)

type StudentData struct {
	Profile    *models.Profile    `json:"profile"`
	FlashSales []models.FlashSale `json:"flash_sales"`
	Impact     analytics.Impact   `json:"impact"`
}

func (a *Assembler) Student(ctx context.Context, userID uuid.UUID) (*StudentData, error) {
	profile, err := a.profileFor(ctx, userID, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	now := a.Now()

	var (
		sales  []models.FlashSale
		claims []models.Claim
	)
	g := newGroup()
	fetch(ctx, g, a.Log, "active_flash_sales", &sales, func(ctx context.Context) ([]models.FlashSale, error) {
		return a.Store.ListActiveFlashSales(ctx, now)
	})
	fetch(ctx, g, a.Log, "student_claims", &claims, func(ctx context.Context) ([]models.Claim, error) {
		return a.Store.ListClaimsByStudent(ctx, profile.ID)
	})
	_ = g.Wait()

	return &StudentData{
		Profile:    profile,
		FlashSales: emptyIfNil(sales),
		Impact:     analytics.StudentImpact(claims),
	}, nil
}
