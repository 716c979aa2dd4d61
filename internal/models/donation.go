package models

import (
	"time"

	"github.com/google/uuid"
)

type DonationStatus string

const (
	DonationAvailable DonationStatus = "available"
	DonationScheduled DonationStatus = "scheduled"
	DonationCompleted DonationStatus = "completed"
)

// Next returns the only status s may move to. ok is false once completed
// or for an unknown status.
func (s DonationStatus) Next() (DonationStatus, bool) {
	switch s {
	case DonationAvailable:
		return DonationScheduled, true
	case DonationScheduled:
		return DonationCompleted, true
	}
	return "", false
}

type Donation struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FoodItemID  uuid.UUID      `gorm:"type:uuid;index;not null" json:"food_item_id"`
	FoodItem    *FoodItem      `json:"food_item,omitempty"`
	NGOID       uuid.UUID      `gorm:"column:ngo_id;type:uuid;index;not null" json:"ngo_id"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	Status      DonationStatus `gorm:"size:20;index;not null;default:available" json:"status"`
	PickupTime  *time.Time     `json:"pickup_time"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
