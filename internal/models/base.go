package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID fills a zero uuid before insert so callers never have to.
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (p *Profile) BeforeCreate(*gorm.DB) error        { newID(&p.ID); return nil }
func (c *Canteen) BeforeCreate(*gorm.DB) error        { newID(&c.ID); return nil }
func (n *NGO) BeforeCreate(*gorm.DB) error            { newID(&n.ID); return nil }
func (f *FoodItem) BeforeCreate(*gorm.DB) error       { newID(&f.ID); return nil }
func (s *FlashSale) BeforeCreate(*gorm.DB) error      { newID(&s.ID); return nil }
func (c *Claim) BeforeCreate(*gorm.DB) error          { newID(&c.ID); return nil }
func (d *Donation) BeforeCreate(*gorm.DB) error       { newID(&d.ID); return nil }
func (a *AnalyticsDaily) BeforeCreate(*gorm.DB) error { newID(&a.ID); return nil }
func (a *AuditLog) BeforeCreate(*gorm.DB) error       { newID(&a.ID); return nil }
