package store

import (
	"time"

	"replate-backend/internal/models"

	"github.com/google/uuid"
)

// The Plan* functions hold the state-machine rules for every write. They
// mutate the rows handed to them and return the new rows to insert, so the
// gorm store and in-memory fakes share one implementation.

type FlashSaleParams struct {
	FoodItemID      uuid.UUID
	CanteenID       uuid.UUID
	ActorID         uuid.UUID
	DiscountedPrice float64
	Start           time.Time
	End             time.Time
}

func PlanFlashSale(item *models.FoodItem, p FlashSaleParams) (*models.FlashSale, error) {
	if item.CanteenID != p.CanteenID {
		return nil, ErrForbidden
	}
	if !item.Status.CanTransitionTo(models.FoodFlashSale) || !item.ExpiryTime.After(p.Start) {
		return nil, ErrInvalidTransition
	}
	if p.DiscountedPrice < 0 || (item.OriginalPrice != nil && p.DiscountedPrice > *item.OriginalPrice) {
		return nil, ErrInvalidPrice
	}

	price := p.DiscountedPrice
	item.DiscountedPrice = &price
	item.Status = models.FoodFlashSale

	// a sale never outlives the food
	end := p.End
	if end.After(item.ExpiryTime) {
		end = item.ExpiryTime
	}

	return &models.FlashSale{
		FoodItemID: item.ID,
		IsActive:   true,
		StartTime:  p.Start,
		EndTime:    end,
	}, nil
}

type ClaimParams struct {
	FlashSaleID uuid.UUID
	StudentID   uuid.UUID
	Quantity    int
	Now         time.Time
}

// PlanClaim takes quantity out of the item. Emptying the item closes the
// sale and marks the item claimed.
func PlanClaim(sale *models.FlashSale, item *models.FoodItem, p ClaimParams) (*models.Claim, error) {
	if !sale.ActiveAt(p.Now) || item.Status != models.FoodFlashSale || !item.ExpiryTime.After(p.Now) {
		return nil, ErrSaleClosed
	}
	if p.Quantity <= 0 || p.Quantity > item.Quantity {
		return nil, ErrInsufficientQuantity
	}

	var unit float64
	switch {
	case item.DiscountedPrice != nil:
		unit = *item.DiscountedPrice
	case item.OriginalPrice != nil:
		unit = *item.OriginalPrice
	}

	item.Quantity -= p.Quantity
	if item.Quantity == 0 {
		item.Status = models.FoodClaimed
		sale.IsActive = false
	}

	return &models.Claim{
		FlashSaleID: sale.ID,
		FoodItemID:  item.ID,
		StudentID:   p.StudentID,
		Quantity:    p.Quantity,
		AmountPaid:  unit * float64(p.Quantity),
	}, nil
}

type DonateParams struct {
	FoodItemID uuid.UUID
	CanteenID  uuid.UUID
	NGOID      uuid.UUID
	ActorID    uuid.UUID
}

// PlanDonation hands the whole remaining quantity to an NGO. Any open
// flash sales on the item must be closed by the caller.
func PlanDonation(item *models.FoodItem, p DonateParams) (*models.Donation, error) {
	if item.CanteenID != p.CanteenID {
		return nil, ErrForbidden
	}
	if !item.Status.CanTransitionTo(models.FoodDonated) {
		return nil, ErrInvalidTransition
	}
	if item.Quantity <= 0 {
		return nil, ErrInsufficientQuantity
	}

	item.Status = models.FoodDonated
	return &models.Donation{
		FoodItemID: item.ID,
		NGOID:      p.NGOID,
		Quantity:   item.Quantity,
		Status:     models.DonationAvailable,
	}, nil
}

type AdvanceParams struct {
	DonationID uuid.UUID
	NGOID      uuid.UUID
	ActorID    uuid.UUID
	To         models.DonationStatus
	PickupTime *time.Time
	Now        time.Time
}

// PlanAdvance moves a donation one step: available -> scheduled needs a
// pickup time, scheduled -> completed stamps CompletedAt.
func PlanAdvance(d *models.Donation, p AdvanceParams) error {
	if d.NGOID != p.NGOID {
		return ErrForbidden
	}
	next, ok := d.Status.Next()
	if !ok || next != p.To {
		return ErrInvalidTransition
	}

	switch next {
	case models.DonationScheduled:
		if p.PickupTime == nil {
			return ErrInvalidTransition
		}
		t := *p.PickupTime
		d.PickupTime = &t
	case models.DonationCompleted:
		now := p.Now
		d.CompletedAt = &now
	}
	d.Status = next
	return nil
}

// Expirable reports whether the sweeper should expire item at now.
func Expirable(item models.FoodItem, now time.Time) bool {
	return item.Status.CanTransitionTo(models.FoodExpired) && !item.ExpiryTime.After(now)
}
