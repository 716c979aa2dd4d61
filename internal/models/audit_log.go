package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditActionCreate     AuditAction = "create"
	AuditActionTransition AuditAction = "transition"
)

// AuditLog records every write that changes a food item or donation.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	ActorID uuid.UUID `gorm:"type:uuid;index" json:"actor_id"`

	// "food_item", "flash_sale", "claim", "donation"
	EntityType string    `gorm:"size:50;index" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;index" json:"entity_id"`

	Action     AuditAction `gorm:"size:20" json:"action"`
	FromStatus string      `gorm:"size:20" json:"from_status"`
	ToStatus   string      `gorm:"size:20" json:"to_status"`

	Note string `gorm:"size:255" json:"note"`
}
