package subscription

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RoomSageApp/RoomSage/app/models"
)

// Repository provides DB operations for entitlement records.
type Repository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.EntitlementRecord, error)
	MarkTrialUsed(ctx context.Context, userID uint) error
	Activate(ctx context.Context, rec *models.EntitlementRecord) error
	AddAnalysisCount(ctx context.Context, userID uint, delta int64) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates an entitlement repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// GetByUserID returns (nil, nil) when the user has no record yet; records
// are created lazily on first trial consumption or activation.
func (r *gormRepository) GetByUserID(ctx context.Context, userID uint) (*models.EntitlementRecord, error) {
	var rec models.EntitlementRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *gormRepository) MarkTrialUsed(ctx context.Context, userID uint) error {
	rec := &models.EntitlementRecord{
		UserID:        userID,
		IsSubscribed:  false,
		FreeTrialUsed: true,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"free_trial_used", "updated_at"}),
	}).Create(rec).Error
}

// Activate upserts the subscribed state. Re-applying the same payment
// reference is safe; the provider delivers duplicate confirmations.
func (r *gormRepository) Activate(ctx context.Context, rec *models.EntitlementRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_subscribed",
			"free_trial_used",
			"subscription_start_date",
			"subscription_end_date",
			"payment_reference",
			"updated_at",
		}),
	}).Create(rec).Error
}

func (r *gormRepository) AddAnalysisCount(ctx context.Context, userID uint, delta int64) error {
	return r.db.WithContext(ctx).Model(&models.EntitlementRecord{}).
		Where("user_id = ?", userID).
		UpdateColumn("analysis_count", gorm.Expr("analysis_count + ?", delta)).Error
}
