package models

import "time"

// EntitlementRecord is the durable per-user subscription and trial state.
// Table name matches the hosted store the SPA used (user_subscriptions).
// The trial-used signal has an explicit column; is_subscribed still counts
// as "trial used" when reading so that rows written before the column
// existed keep their meaning.
type EntitlementRecord struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	UserID                uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	IsSubscribed          bool       `gorm:"not null;default:false" json:"is_subscribed"`
	FreeTrialUsed         bool       `gorm:"not null;default:false" json:"free_trial_used"`
	SubscriptionStartDate *time.Time `gorm:"type:timestamp;default:null" json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   *time.Time `gorm:"type:timestamp;default:null" json:"subscription_end_date,omitempty"`
	PaymentReference      string     `gorm:"type:varchar(191);default:null;index" json:"payment_reference,omitempty"`
	AnalysisCount         int64      `gorm:"not null;default:0" json:"analysis_count"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EntitlementRecord) TableName() string {
	return "user_subscriptions"
}

// TrialUsed reports whether this record marks the free trial as consumed.
func (r *EntitlementRecord) TrialUsed() bool {
	return r.IsSubscribed || r.FreeTrialUsed
}

// SubscriptionActive reports whether the subscription window covers now.
func (r *EntitlementRecord) SubscriptionActive(now time.Time) bool {
	if !r.IsSubscribed {
		return false
	}
	if r.SubscriptionEndDate == nil {
		return true
	}
	return now.Before(*r.SubscriptionEndDate)
}
