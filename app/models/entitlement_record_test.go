package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntitlementRecordTrialUsed(t *testing.T) {
	assert.False(t, (&EntitlementRecord{}).TrialUsed())
	assert.True(t, (&EntitlementRecord{FreeTrialUsed: true}).TrialUsed())
	// Rows written before the explicit column existed only carry is_subscribed.
	assert.True(t, (&EntitlementRecord{IsSubscribed: true}).TrialUsed())
}

func TestEntitlementRecordSubscriptionActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 0, 30)

	rec := &EntitlementRecord{IsSubscribed: true, SubscriptionEndDate: &end}
	assert.True(t, rec.SubscriptionActive(now))
	assert.False(t, rec.SubscriptionActive(end.Add(time.Second)))

	// Open-ended rows stay active while subscribed.
	assert.True(t, (&EntitlementRecord{IsSubscribed: true}).SubscriptionActive(now))
	assert.False(t, (&EntitlementRecord{SubscriptionEndDate: &end}).SubscriptionActive(now))
}
