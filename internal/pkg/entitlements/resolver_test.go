package entitlements

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoomSageApp/RoomSage/app/models"
)

type fakeRecordStore struct {
	records map[uint]*models.EntitlementRecord
	getErr  error
	markErr error
	marks   int
}

func (f *fakeRecordStore) GetByUserID(_ context.Context, userID uint) (*models.EntitlementRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.records[userID], nil
}

func (f *fakeRecordStore) MarkTrialUsed(_ context.Context, userID uint) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marks++
	rec := f.records[userID]
	if rec == nil {
		rec = &models.EntitlementRecord{UserID: userID}
		if f.records == nil {
			f.records = map[uint]*models.EntitlementRecord{}
		}
		f.records[userID] = rec
	}
	rec.FreeTrialUsed = true
	return nil
}

type fakeFlagStore struct {
	flags   map[string]bool
	readErr error
}

func (f *fakeFlagStore) Used(_ context.Context, key string) (bool, error) {
	if f.readErr != nil {
		return false, f.readErr
	}
	return f.flags[key], nil
}

func (f *fakeFlagStore) Mark(_ context.Context, key string) error {
	if f.flags == nil {
		f.flags = map[string]bool{}
	}
	f.flags[key] = true
	return nil
}

func newTestResolver() (*Resolver, *fakeRecordStore, *fakeFlagStore) {
	records := &fakeRecordStore{records: map[uint]*models.EntitlementRecord{}}
	flags := &fakeFlagStore{flags: map[string]bool{}}
	return NewResolver(records, flags), records, flags
}

func TestFreshAuthenticatedUserCanConsume(t *testing.T) {
	r, _, _ := newTestResolver()
	id := Identity{UserID: 7, ClientKey: "c1", LoggedIn: true}

	assert.False(t, r.HasUsedFreeTrial(context.Background(), id))
	assert.True(t, r.CanConsumeTrial(context.Background(), id))
	assert.Equal(t, StatusTrialAvailable, r.Resolve(context.Background(), id))
}

func TestMarkTrialConsumedIsIdempotent(t *testing.T) {
	r, records, flags := newTestResolver()
	id := Identity{UserID: 7, ClientKey: "c1", LoggedIn: true}

	require.NoError(t, r.MarkTrialConsumed(context.Background(), id))
	require.NoError(t, r.MarkTrialConsumed(context.Background(), id))

	assert.True(t, r.HasUsedFreeTrial(context.Background(), id))
	assert.False(t, r.CanConsumeTrial(context.Background(), id))
	assert.True(t, flags.flags["c1"])
	assert.True(t, records.records[7].FreeTrialUsed)
	assert.False(t, records.records[7].IsSubscribed)
}

func TestAnonymousTrialUsesLocalFlagOnly(t *testing.T) {
	r, records, flags := newTestResolver()
	id := Identity{ClientKey: "anon-1"}

	assert.True(t, r.CanConsumeTrial(context.Background(), id))
	require.NoError(t, r.MarkTrialConsumed(context.Background(), id))

	assert.True(t, flags.flags["anon-1"])
	assert.Zero(t, records.marks, "anonymous consumption must not touch the durable store")
	assert.True(t, r.HasUsedFreeTrial(context.Background(), id))
	assert.False(t, r.CanConsumeTrial(context.Background(), id))
}

func TestSubscribedUserAlwaysPasses(t *testing.T) {
	r, records, _ := newTestResolver()
	records.records[9] = &models.EntitlementRecord{UserID: 9, IsSubscribed: true, FreeTrialUsed: true}
	id := Identity{UserID: 9, ClientKey: "c9", LoggedIn: true}

	for i := 0; i < 5; i++ {
		assert.True(t, r.CanConsumeTrial(context.Background(), id))
	}
	assert.Equal(t, StatusSubscribed, r.Resolve(context.Background(), id))
}

func TestSubscribedImpliesTrialUsed(t *testing.T) {
	r, records, _ := newTestResolver()
	// Row written before the free_trial_used column existed.
	records.records[3] = &models.EntitlementRecord{UserID: 3, IsSubscribed: true}
	id := Identity{UserID: 3, LoggedIn: true}

	assert.True(t, r.HasUsedFreeTrial(context.Background(), id))
}

func TestStoreErrorDegradesToLocalFlag(t *testing.T) {
	r, records, flags := newTestResolver()
	records.getErr = errors.New("connection refused")
	id := Identity{UserID: 4, ClientKey: "c4", LoggedIn: true}

	assert.False(t, r.HasUsedFreeTrial(context.Background(), id))
	assert.False(t, r.IsSubscribed(context.Background(), id), "subscription reads fail closed")

	flags.flags["c4"] = true
	assert.True(t, r.HasUsedFreeTrial(context.Background(), id),
		"local flag must win when the durable store is unreachable")
	assert.False(t, r.CanConsumeTrial(context.Background(), id))
}

func TestMarkTrialConsumedReportsStoreFailure(t *testing.T) {
	r, records, flags := newTestResolver()
	records.markErr = errors.New("deadlock")
	id := Identity{UserID: 5, ClientKey: "c5", LoggedIn: true}

	err := r.MarkTrialConsumed(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.True(t, flags.flags["c5"], "local flag still written as safety net")
}

func TestReconcileFoldsLocalFlagIntoRecord(t *testing.T) {
	r, records, flags := newTestResolver()
	flags.flags["browser-1"] = true
	id := Identity{UserID: 11, ClientKey: "browser-1", LoggedIn: true}

	r.Reconcile(context.Background(), id)

	require.NotNil(t, records.records[11])
	assert.True(t, records.records[11].FreeTrialUsed)
	assert.True(t, flags.flags["browser-1"], "local side is never cleared")
}

func TestReconcileNoopWithoutLocalFlag(t *testing.T) {
	r, records, _ := newTestResolver()
	r.Reconcile(context.Background(), Identity{UserID: 12, ClientKey: "b2", LoggedIn: true})
	assert.Zero(t, records.marks)
}

func TestLocalFlagReadErrorAssumesFresh(t *testing.T) {
	r, _, flags := newTestResolver()
	flags.readErr = errors.New("redis down")
	id := Identity{ClientKey: "c"}

	assert.False(t, r.HasUsedFreeTrial(context.Background(), id))
	assert.True(t, r.CanConsumeTrial(context.Background(), id))
}
