package dashboard

import (
	"context"
	"time"

	"replate-backend/internal/analytics"
	"replate-backend/internal/models"
	"replate-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VolunteerData struct {
	Profile            *models.Profile       `json:"profile"`
	NGO                *models.NGO           `json:"ngo"`
	AvailableDonations []models.Donation     `json:"available_donations"`
	ScheduledDonations []models.Donation     `json:"scheduled_donations"`
	CompletedDonations []models.Donation     `json:"completed_donations"`
	WeeklyStats        analytics.WeeklyStats `json:"weekly_stats"`
}

func (a *Assembler) Volunteer(ctx context.Context, userID uuid.UUID) (*VolunteerData, error) {
	profile, err := a.profileFor(ctx, userID, models.RoleVolunteer)
	if err != nil {
		return nil, err
	}
	out := &VolunteerData{
		Profile:            profile,
		AvailableDonations: []models.Donation{},
		ScheduledDonations: []models.Donation{},
		CompletedDonations: []models.Donation{},
	}
	if profile.NGOID == nil {
		a.Log.Warn("volunteer profile has no ngo", zap.String("profile_id", profile.ID.String()))
		return out, nil
	}
	ngoID := *profile.NGOID
	now := a.Now()
	monthAgo := now.AddDate(0, 0, -completedWindowDays)
	weekAgo := now.AddDate(0, 0, -weeklyWindowDays)

	var available, scheduled, completed, weekly []models.Donation
	list := func(status models.DonationStatus, since *time.Time, order store.DonationOrder) func(context.Context) ([]models.Donation, error) {
		return func(ctx context.Context) ([]models.Donation, error) {
			return a.Store.ListDonations(ctx, store.DonationFilter{NGOID: ngoID, Status: status, Since: since, Order: order})
		}
	}

	g := newGroup()
	fetch(ctx, g, a.Log, "ngo", &out.NGO, func(ctx context.Context) (*models.NGO, error) {
		return a.Store.GetNGO(ctx, ngoID)
	})
	fetch(ctx, g, a.Log, "available_donations", &available, list(models.DonationAvailable, nil, store.NewestFirst))
	fetch(ctx, g, a.Log, "scheduled_donations", &scheduled, list(models.DonationScheduled, nil, store.PickupSoonestFirst))
	fetch(ctx, g, a.Log, "completed_donations", &completed, list(models.DonationCompleted, &monthAgo, store.NewestFirst))
	fetch(ctx, g, a.Log, "weekly_donations", &weekly, list(models.DonationCompleted, &weekAgo, store.NewestFirst))
	_ = g.Wait()

	out.AvailableDonations = emptyIfNil(available)
	out.ScheduledDonations = emptyIfNil(scheduled)
	out.CompletedDonations = emptyIfNil(completed)
	out.WeeklyStats = analytics.VolunteerWeeklyStats(weekly)
	return out, nil
}
