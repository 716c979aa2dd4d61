package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     *string    `gorm:"size:255" json:"full_name"`
	Role         Role       `gorm:"size:20;index;not null;default:student" json:"role"`
	Phone        *string    `gorm:"size:50" json:"phone"`
	StudentID    *string    `gorm:"size:50" json:"student_id"` // university roll number, not a uuid
	CanteenID    *uuid.UUID `gorm:"type:uuid;index" json:"canteen_id"`
	NGOID        *uuid.UUID `gorm:"column:ngo_id;type:uuid;index" json:"ngo_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
