package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoomSageApp/RoomSage/app/models"
	"github.com/RoomSageApp/RoomSage/internal/pkg/payment"
)

type fakeRepo struct {
	records     map[uint]*models.EntitlementRecord
	activateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[uint]*models.EntitlementRecord{}}
}

func (f *fakeRepo) GetByUserID(_ context.Context, userID uint) (*models.EntitlementRecord, error) {
	return f.records[userID], nil
}

func (f *fakeRepo) MarkTrialUsed(_ context.Context, userID uint) error {
	rec := f.records[userID]
	if rec == nil {
		rec = &models.EntitlementRecord{UserID: userID}
		f.records[userID] = rec
	}
	rec.FreeTrialUsed = true
	return nil
}

func (f *fakeRepo) Activate(_ context.Context, rec *models.EntitlementRecord) error {
	if f.activateErr != nil {
		return f.activateErr
	}
	f.records[rec.UserID] = rec
	return nil
}

func (f *fakeRepo) AddAnalysisCount(_ context.Context, userID uint, delta int64) error {
	return nil
}

type fakeVerifier struct {
	status string
	err    error
	calls  int
}

func (f *fakeVerifier) VerifyPayment(_ context.Context, _ string) (*payment.VerifyPaymentResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &payment.VerifyPaymentResponse{Status: f.status}, nil
}

func newTestService(repo Repository, verifier Verifier) *Service {
	svc := NewService(repo, verifier, NewStatusSet("success", "approved"))
	return svc
}

func TestActivateSetsSubscriptionWindow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeVerifier{})
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	require.NoError(t, svc.Activate(context.Background(), 7, "pay_1", 30))

	rec := repo.records[7]
	require.NotNil(t, rec)
	assert.True(t, rec.IsSubscribed)
	assert.True(t, rec.FreeTrialUsed)
	assert.Equal(t, "pay_1", rec.PaymentReference)
	assert.Equal(t, fixed, *rec.SubscriptionStartDate)
	assert.Equal(t, fixed.AddDate(0, 0, 30), *rec.SubscriptionEndDate)
}

func TestActivateIsIdempotentPerReference(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeVerifier{})

	require.NoError(t, svc.Activate(context.Background(), 7, "pay_1", 0))
	first := *repo.records[7].SubscriptionEndDate

	require.NoError(t, svc.Activate(context.Background(), 7, "pay_1", 0))
	second := *repo.records[7].SubscriptionEndDate

	assert.True(t, repo.records[7].IsSubscribed)
	assert.WithinDuration(t, first, second, 2*time.Second)
}

func TestActivateRequiresAuthentication(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeVerifier{})
	err := svc.Activate(context.Background(), 0, "pay_1", 30)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestActivateRequiresReference(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeVerifier{})
	assert.Error(t, svc.Activate(context.Background(), 7, "  ", 30))
}

func TestActivateReportsStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.activateErr = errors.New("lock wait timeout")
	svc := newTestService(repo, &fakeVerifier{})

	assert.Error(t, svc.Activate(context.Background(), 7, "pay_1", 30))
}

func TestVerifyByReferenceActivatesOnApproval(t *testing.T) {
	repo := newFakeRepo()
	verifier := &fakeVerifier{status: "APPROVED"}
	svc := newTestService(repo, verifier)

	ok, err := svc.VerifyByReference(context.Background(), 7, "pay_9")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, verifier.calls)
	require.NotNil(t, repo.records[7])
	assert.True(t, repo.records[7].IsSubscribed)
}

func TestVerifyByReferenceDeclined(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeVerifier{status: "DECLINED"})

	ok, err := svc.VerifyByReference(context.Background(), 7, "pay_9")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, repo.records[7], "declined verification must not mutate state")
}

func TestVerifyByReferenceGatewayError(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeVerifier{err: errors.New("unreachable")})

	ok, err := svc.VerifyByReference(context.Background(), 7, "pay_9")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestVerifyByReferenceRequiresReference(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeVerifier{status: "success"})
	ok, err := svc.VerifyByReference(context.Background(), 7, "")
	assert.False(t, ok)
	assert.Error(t, err)
}
