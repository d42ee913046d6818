package entitlements

import (
	"context"
	"errors"
	"fmt"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/RoomSageApp/RoomSage/app/models"
)

// ErrStoreUnavailable wraps durable-store failures that were degraded
// locally. Callers may log it; it never aborts a user flow.
var ErrStoreUnavailable = errors.New("entitlement store unavailable")

// Identity is the resolver's view of the current caller. ClientKey
// identifies the browser (anonymous or not), UserID the account.
type Identity struct {
	UserID    uint
	ClientKey string
	LoggedIn  bool
}

// RecordStore reads and writes the durable per-user entitlement record.
// GetByUserID returns (nil, nil) when no record exists yet.
type RecordStore interface {
	GetByUserID(ctx context.Context, userID uint) (*models.EntitlementRecord, error)
	MarkTrialUsed(ctx context.Context, userID uint) error
}

// FlagStore is the client-keyed fallback flag covering anonymous users and
// durable-store outages.
type FlagStore interface {
	Used(ctx context.Context, clientKey string) (bool, error)
	Mark(ctx context.Context, clientKey string) error
}

// Status is the resolved entitlement; exactly one value holds per caller.
type Status string

const (
	StatusSubscribed     Status = "subscribed"
	StatusTrialAvailable Status = "trial_available"
	StatusTrialConsumed  Status = "trial_consumed"
)

// Resolver merges identity, the durable record and the local fallback flag
// into a single admission decision for the analyze flow.
type Resolver struct {
	records RecordStore
	flags   FlagStore
}

func NewResolver(records RecordStore, flags FlagStore) *Resolver {
	return &Resolver{records: records, flags: flags}
}

// IsAuthenticated reports whether the caller has an account session.
func (r *Resolver) IsAuthenticated(id Identity) bool {
	return id.LoggedIn && id.UserID != 0
}

// IsSubscribed fails closed: any store problem reads as not subscribed.
func (r *Resolver) IsSubscribed(ctx context.Context, id Identity) bool {
	if !r.IsAuthenticated(id) {
		return false
	}
	rec, err := r.records.GetByUserID(ctx, id.UserID)
	if err != nil {
		fiberlog.Warnf("[Entitlements] subscription read failed for user %d: %v", id.UserID, err)
		return false
	}
	return rec != nil && rec.IsSubscribed
}

// HasUsedFreeTrial resolves the trial-used signal. Anonymous callers are
// judged by the local flag alone. Authenticated callers are judged by the
// durable record (absent record = fresh user); if the record cannot be read
// the local flag decides, so an outage neither blocks a legitimate user nor
// hands out extra trials to one whose browser already carries the flag.
func (r *Resolver) HasUsedFreeTrial(ctx context.Context, id Identity) bool {
	if !r.IsAuthenticated(id) {
		return r.localUsed(ctx, id)
	}
	rec, err := r.records.GetByUserID(ctx, id.UserID)
	if err != nil {
		fiberlog.Warnf("[Entitlements] record read failed for user %d, falling back to local flag: %v", id.UserID, err)
		return r.localUsed(ctx, id)
	}
	if rec == nil {
		return false
	}
	return rec.TrialUsed()
}

// CanConsumeTrial is the single admission check gating analyze requests.
func (r *Resolver) CanConsumeTrial(ctx context.Context, id Identity) bool {
	return r.IsSubscribed(ctx, id) || !r.HasUsedFreeTrial(ctx, id)
}

// MarkTrialConsumed records trial consumption. The local flag is always
// written, the durable record additionally when authenticated. Idempotent.
// The returned error reports durable-store trouble for logging; the flow
// that triggered consumption should proceed regardless.
func (r *Resolver) MarkTrialConsumed(ctx context.Context, id Identity) error {
	if err := r.flags.Mark(ctx, id.ClientKey); err != nil {
		fiberlog.Warnf("[Entitlements] local flag write failed for client %s: %v", id.ClientKey, err)
	}
	if !r.IsAuthenticated(id) {
		return nil
	}
	if err := r.records.MarkTrialUsed(ctx, id.UserID); err != nil {
		fiberlog.Errorf("[Entitlements] trial marker upsert failed for user %d: %v", id.UserID, err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Reconcile folds the local flag into the durable record once a session is
// available. The local side is never cleared; the two signals only ever OR.
func (r *Resolver) Reconcile(ctx context.Context, id Identity) {
	if !r.IsAuthenticated(id) {
		return
	}
	if !r.localUsed(ctx, id) {
		return
	}
	if err := r.records.MarkTrialUsed(ctx, id.UserID); err != nil {
		fiberlog.Warnf("[Entitlements] reconcile failed for user %d: %v", id.UserID, err)
	}
}

// Resolve returns the effective tri-state entitlement for the caller.
func (r *Resolver) Resolve(ctx context.Context, id Identity) Status {
	if r.IsSubscribed(ctx, id) {
		return StatusSubscribed
	}
	if r.HasUsedFreeTrial(ctx, id) {
		return StatusTrialConsumed
	}
	return StatusTrialAvailable
}

func (r *Resolver) localUsed(ctx context.Context, id Identity) bool {
	used, err := r.flags.Used(ctx, id.ClientKey)
	if err != nil {
		fiberlog.Warnf("[Entitlements] local flag read failed for client %s: %v", id.ClientKey, err)
		return false
	}
	return used
}
