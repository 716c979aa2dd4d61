package models

import (
	"time"

	"github.com/google/uuid"
)

type Canteen struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null;unique" json:"name"`
	Location     string    `gorm:"size:255" json:"location"`
	ContactPhone string    `gorm:"size:50" json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type NGO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null;unique" json:"name"`
	Address      string    `gorm:"size:255" json:"address"`
	ContactPhone string    `gorm:"size:50" json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (NGO) TableName() string { return "ngos" }
