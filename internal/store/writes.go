package store

import (
	"context"
	"fmt"
	"time"

	"replate-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func audit(tx *gorm.DB, entry models.AuditLog) error {
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func lockFoodItem(tx *gorm.DB, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// CreateFoodItem logs a new surplus item.
func (s *Store) CreateFoodItem(ctx context.Context, item *models.FoodItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if item.Status == "" {
			item.Status = models.FoodAvailable
		}
		if item.InitialQuantity == 0 {
			item.InitialQuantity = item.Quantity
		}
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("create food item: %w", err)
		}
		return audit(tx, models.AuditLog{
			ActorID:    item.StaffID,
			EntityType: "food_item",
			EntityID:   item.ID,
			Action:     models.AuditActionCreate,
			ToStatus:   string(item.Status),
			Note:       item.Name,
		})
	})
}

func (s *Store) StartFlashSale(ctx context.Context, p FlashSaleParams) (*models.FlashSale, error) {
	var sale *models.FlashSale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := lockFoodItem(tx, p.FoodItemID)
		if err != nil {
			return err
		}
		from := item.Status

		sale, err = PlanFlashSale(item, p)
		if err != nil {
			return err
		}
		if err := tx.Model(item).Updates(map[string]any{
			"status":           item.Status,
			"discounted_price": item.DiscountedPrice,
		}).Error; err != nil {
			return fmt.Errorf("update food item: %w", err)
		}
		if err := tx.Create(sale).Error; err != nil {
			return fmt.Errorf("create flash sale: %w", err)
		}
		return audit(tx, models.AuditLog{
			ActorID:    p.ActorID,
			EntityType: "food_item",
			EntityID:   item.ID,
			Action:     models.AuditActionTransition,
			FromStatus: string(from),
			ToStatus:   string(item.Status),
			Note:       "flash sale " + sale.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *Store) ClaimFlashSale(ctx context.Context, p ClaimParams) (*models.Claim, error) {
	var claim *models.Claim
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sale models.FlashSale
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sale, "id = ?", p.FlashSaleID).Error; err != nil {
			return translate(err)
		}
		item, err := lockFoodItem(tx, sale.FoodItemID)
		if err != nil {
			return err
		}
		from := item.Status

		claim, err = PlanClaim(&sale, item, p)
		if err != nil {
			return err
		}
		if err := tx.Model(item).Updates(map[string]any{
			"quantity": item.Quantity,
			"status":   item.Status,
		}).Error; err != nil {
			return fmt.Errorf("update food item: %w", err)
		}
		if !sale.IsActive {
			if err := tx.Model(&sale).Update("is_active", false).Error; err != nil {
				return fmt.Errorf("close flash sale: %w", err)
			}
		}
		if err := tx.Create(claim).Error; err != nil {
			return fmt.Errorf("create claim: %w", err)
		}
		claim.FoodItem = item

		return audit(tx, models.AuditLog{
			ActorID:    p.StudentID,
			EntityType: "claim",
			EntityID:   claim.ID,
			Action:     models.AuditActionCreate,
			FromStatus: string(from),
			ToStatus:   string(item.Status),
			Note:       fmt.Sprintf("%d of %s", claim.Quantity, item.Name),
		})
	})
	if err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *Store) DonateFoodItem(ctx context.Context, p DonateParams) (*models.Donation, error) {
	var donation *models.Donation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ngo models.NGO
		if err := tx.First(&ngo, "id = ?", p.NGOID).Error; err != nil {
			return translate(err)
		}
		item, err := lockFoodItem(tx, p.FoodItemID)
		if err != nil {
			return err
		}
		from := item.Status

		donation, err = PlanDonation(item, p)
		if err != nil {
			return err
		}
		if err := tx.Model(item).Update("status", item.Status).Error; err != nil {
			return fmt.Errorf("update food item: %w", err)
		}
		if err := tx.Model(&models.FlashSale{}).
			Where("food_item_id = ? AND is_active = ?", item.ID, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("close flash sales: %w", err)
		}
		if err := tx.Create(donation).Error; err != nil {
			return fmt.Errorf("create donation: %w", err)
		}
		return audit(tx, models.AuditLog{
			ActorID:    p.ActorID,
			EntityType: "food_item",
			EntityID:   item.ID,
			Action:     models.AuditActionTransition,
			FromStatus: string(from),
			ToStatus:   string(item.Status),
			Note:       "donated to " + ngo.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return donation, nil
}

func (s *Store) AdvanceDonation(ctx context.Context, p AdvanceParams) (*models.Donation, error) {
	var d models.Donation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&d, "id = ?", p.DonationID).Error; err != nil {
			return translate(err)
		}
		from := d.Status

		if err := PlanAdvance(&d, p); err != nil {
			return err
		}
		if err := tx.Model(&d).Updates(map[string]any{
			"status":       d.Status,
			"pickup_time":  d.PickupTime,
			"completed_at": d.CompletedAt,
		}).Error; err != nil {
			return fmt.Errorf("update donation: %w", err)
		}
		return audit(tx, models.AuditLog{
			ActorID:    p.ActorID,
			EntityType: "donation",
			EntityID:   d.ID,
			Action:     models.AuditActionTransition,
			FromStatus: string(from),
			ToStatus:   string(d.Status),
		})
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ExpireFoodItems moves every unsold item past its expiry time to expired
// and closes its flash sales. It returns the number of items expired.
func (s *Store) ExpireFoodItems(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.FoodItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status IN ? AND expiry_time <= ?",
				[]models.FoodStatus{models.FoodAvailable, models.FoodFlashSale}, now).
			Find(&items).Error; err != nil {
			return fmt.Errorf("select expired items: %w", err)
		}
		if len(items) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		if err := tx.Model(&models.FoodItem{}).Where("id IN ?", ids).
			Update("status", models.FoodExpired).Error; err != nil {
			return fmt.Errorf("expire items: %w", err)
		}
		if err := tx.Model(&models.FlashSale{}).Where("food_item_id IN ? AND is_active = ?", ids, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("close flash sales: %w", err)
		}
		for _, it := range items {
			if err := audit(tx, models.AuditLog{
				EntityType: "food_item",
				EntityID:   it.ID,
				Action:     models.AuditActionTransition,
				FromStatus: string(it.Status),
				ToStatus:   string(models.FoodExpired),
				Note:       "expiry sweep",
			}); err != nil {
				return err
			}
		}
		n = int64(len(items))
		return nil
	})
	return n, err
}
