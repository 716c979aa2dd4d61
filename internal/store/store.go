// Package store is the gorm/postgres Record Store. It is constructed with
// an explicit *gorm.DB and handed to whoever needs it.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"replate-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Profiles

func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	err := s.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *Store) CountProfilesByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func (s *Store) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Profile{}).Count(&n).Error
	return n, err
}

// ListProfileRoles returns profiles with only the role column loaded.
func (s *Store) ListProfileRoles(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	err := s.db.WithContext(ctx).Select("role").Find(&out).Error
	return out, err
}

// Canteens and NGOs

func (s *Store) CountCanteens(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Canteen{}).Count(&n).Error
	return n, err
}

func (s *Store) CountNGOs(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.NGO{}).Count(&n).Error
	return n, err
}

func (s *Store) ListCanteens(ctx context.Context) ([]models.Canteen, error) {
	var out []models.Canteen
	err := s.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (s *Store) ListNGOs(ctx context.Context) ([]models.NGO, error) {
	var out []models.NGO
	err := s.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (s *Store) GetCanteen(ctx context.Context, id uuid.UUID) (*models.Canteen, error) {
	var c models.Canteen
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) GetNGO(ctx context.Context, id uuid.UUID) (*models.NGO, error) {
	var n models.NGO
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

// saveNamed creates or updates a canteen or ngo row; both carry a
// unique name.
func (s *Store) saveNamed(ctx context.Context, row any, create bool) error {
	db := s.db.WithContext(ctx)
	var err error
	if create {
		err = db.Create(row).Error
	} else {
		res := db.Select("*").Omit("created_at").Updates(row)
		err = res.Error
		if err == nil && res.RowsAffected == 0 {
			return ErrNotFound
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return err
}

func (s *Store) CreateCanteen(ctx context.Context, c *models.Canteen) error {
	return s.saveNamed(ctx, c, true)
}

func (s *Store) UpdateCanteen(ctx context.Context, c *models.Canteen) error {
	return s.saveNamed(ctx, c, false)
}

func (s *Store) CreateNGO(ctx context.Context, n *models.NGO) error {
	return s.saveNamed(ctx, n, true)
}

func (s *Store) UpdateNGO(ctx context.Context, n *models.NGO) error {
	return s.saveNamed(ctx, n, false)
}

// Analytics

type AnalyticsFilter struct {
	CanteenID   *uuid.UUID
	From        time.Time // inclusive, compared as a date
	WithCanteen bool
}

// ListAnalytics returns daily rows on or after From, oldest first.
func (s *Store) ListAnalytics(ctx context.Context, f AnalyticsFilter) ([]models.AnalyticsDaily, error) {
	q := s.db.WithContext(ctx).Where("date >= ?", f.From.Format(time.DateOnly))
	if f.CanteenID != nil {
		q = q.Where("canteen_id = ?", *f.CanteenID)
	}
	if f.WithCanteen {
		q = q.Preload("Canteen")
	}
	var out []models.AnalyticsDaily
	err := q.Order("date ASC").Find(&out).Error
	return out, err
}

func (s *Store) GetAnalyticsForDay(ctx context.Context, canteenID uuid.UUID, day time.Time) (*models.AnalyticsDaily, error) {
	var a models.AnalyticsDaily
	err := s.db.WithContext(ctx).
		Where("canteen_id = ? AND date = ?", canteenID, day.Format(time.DateOnly)).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// Food items

// ListFoodCategories returns food items with only the category column loaded.
func (s *Store) ListFoodCategories(ctx context.Context) ([]models.FoodItem, error) {
	var out []models.FoodItem
	err := s.db.WithContext(ctx).Select("category").Find(&out).Error
	return out, err
}

func (s *Store) ListRecentFoodItems(ctx context.Context, limit int) ([]models.FoodItem, error) {
	var out []models.FoodItem
	err := s.db.WithContext(ctx).
		Preload("Canteen").
		Preload("Staff").
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (s *Store) ListCanteenFoodItems(ctx context.Context, canteenID uuid.UUID) ([]models.FoodItem, error) {
	var out []models.FoodItem
	err := s.db.WithContext(ctx).
		Preload("Canteen").
		Preload("FlashSales").
		Where("canteen_id = ?", canteenID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// Flash sales and claims

func (s *Store) ListActiveFlashSales(ctx context.Context, now time.Time) ([]models.FlashSale, error) {
	var out []models.FlashSale
	err := s.db.WithContext(ctx).
		Preload("FoodItem.Canteen").
		Where("is_active = ? AND end_time > ?", true, now).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

func (s *Store) ListClaimsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Claim, error) {
	var out []models.Claim
	err := s.db.WithContext(ctx).
		Preload("FoodItem").
		Where("student_id = ?", studentID).
		Find(&out).Error
	return out, err
}

// Donations

type DonationOrder int

const (
	NewestFirst DonationOrder = iota
	PickupSoonestFirst
)

type DonationFilter struct {
	NGOID  uuid.UUID
	Status models.DonationStatus
	Since  *time.Time // on created_at
	Order  DonationOrder
}

func (s *Store) ListDonations(ctx context.Context, f DonationFilter) ([]models.Donation, error) {
	q := s.db.WithContext(ctx).
		Preload("FoodItem.Canteen").
		Where("ngo_id = ? AND status = ?", f.NGOID, f.Status)
	if f.Since != nil {
		q = q.Where("created_at >= ?", *f.Since)
	}
	switch f.Order {
	case PickupSoonestFirst:
		q = q.Order("pickup_time ASC")
	default:
		q = q.Order("created_at DESC")
	}
	var out []models.Donation
	err := q.Find(&out).Error
	return out, err
}

// Audit

type AuditFilter struct {
	EntityType string
	EntityID   *uuid.UUID
	ActorID    *uuid.UUID
	Limit      int
}

func (s *Store) ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != nil {
		q = q.Where("entity_id = ?", *f.EntityID)
	}
	if f.ActorID != nil {
		q = q.Where("actor_id = ?", *f.ActorID)
	}
	var out []models.AuditLog
	err := q.Order("created_at DESC").Limit(f.Limit).Find(&out).Error
	return out, err
}
