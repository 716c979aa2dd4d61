package models

import (
	"time"

	"github.com/google/uuid"
)

type FoodStatus string

const (
	FoodAvailable FoodStatus = "available"
	FoodFlashSale FoodStatus = "flash_sale"
	FoodDonated   FoodStatus = "donated"
	FoodClaimed   FoodStatus = "claimed"
	FoodExpired   FoodStatus = "expired"
)

// Terminal reports whether s can no longer change.
func (s FoodStatus) Terminal() bool {
	switch s {
	case FoodDonated, FoodClaimed, FoodExpired:
		return true
	}
	return false
}

// CanTransitionTo: status only moves forward, toward a terminal state.
func (s FoodStatus) CanTransitionTo(next FoodStatus) bool {
	switch s {
	case FoodAvailable:
		return next == FoodFlashSale || next.Terminal()
	case FoodFlashSale:
		return next.Terminal()
	}
	return false
}

type FoodItem struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CanteenID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"canteen_id"`
	Canteen         *Canteen   `json:"canteen,omitempty"`
	StaffID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"staff_id"`
	Staff           *Profile   `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Name            string     `gorm:"size:150;not null" json:"name"`
	Description     *string    `gorm:"size:500" json:"description"`
	Category        string     `gorm:"size:50;index;not null" json:"category"`
	Quantity        int        `gorm:"not null" json:"quantity"`
	InitialQuantity int        `gorm:"not null;default:0" json:"initial_quantity"`
	OriginalPrice   *float64   `gorm:"type:numeric(10,2)" json:"original_price"`
	DiscountedPrice *float64   `gorm:"type:numeric(10,2)" json:"discounted_price"`
	ExpiryTime      time.Time  `gorm:"index;not null" json:"expiry_time"`
	Status          FoodStatus `gorm:"size:20;index;not null;default:available" json:"status"`
	ImageURL        *string    `gorm:"size:500" json:"image_url"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	FlashSales []FlashSale `json:"flash_sales,omitempty"`
}

type FlashSale struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FoodItemID uuid.UUID `gorm:"type:uuid;index;not null" json:"food_item_id"`
	FoodItem   *FoodItem `json:"food_item,omitempty"`
	IsActive   bool      `gorm:"index;not null;default:true" json:"is_active"`
	StartTime  time.Time `gorm:"not null" json:"start_time"`
	EndTime    time.Time `gorm:"index;not null" json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LoggedQuantity is what staff logged, before any claims. Rows written
// before InitialQuantity existed fall back to the current quantity.
func (f FoodItem) LoggedQuantity() int {
	if f.InitialQuantity > 0 {
		return f.InitialQuantity
	}
	return f.Quantity
}

// ActiveAt: a sale is live only while flagged active and not yet ended.
func (s FlashSale) ActiveAt(now time.Time) bool {
	return s.IsActive && s.EndTime.After(now)
}

// Claim is one student purchase out of a flash sale.
type Claim struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FlashSaleID uuid.UUID `gorm:"type:uuid;index;not null" json:"flash_sale_id"`
	FoodItemID  uuid.UUID `gorm:"type:uuid;index;not null" json:"food_item_id"`
	FoodItem    *FoodItem `json:"food_item,omitempty"`
	StudentID   uuid.UUID `gorm:"type:uuid;index;not null" json:"student_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	AmountPaid  float64   `gorm:"type:numeric(10,2);not null" json:"amount_paid"`
	CreatedAt   time.Time `json:"created_at"`
}
