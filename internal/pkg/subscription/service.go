package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/RoomSageApp/RoomSage/app/models"
	"github.com/RoomSageApp/RoomSage/internal/pkg/payment"
)

// ErrNotAuthenticated is returned when activation is attempted without a
// session; the UI turns it into a login prompt.
var ErrNotAuthenticated = errors.New("not authenticated")

// DefaultDurationDays is the subscription window granted per payment.
const DefaultDurationDays = 30

// Verifier is the slice of the payment gateway the activator needs.
type Verifier interface {
	VerifyPayment(ctx context.Context, paymentID string) (*payment.VerifyPaymentResponse, error)
}

// Service transitions entitlement records to subscribed state after a
// payment confirmation, exactly once per payment reference.
type Service struct {
	repo     Repository
	verifier Verifier
	approved StatusSet
	now      func() time.Time
}

func NewService(repo Repository, verifier Verifier, approved StatusSet) *Service {
	return &Service{repo: repo, verifier: verifier, approved: approved, now: time.Now}
}

// NewServiceFromDB wires the service to GORM and the env-configured
// gateway and status vocabulary.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), payment.NewClientFromEnv(), StatusSetFromEnv())
}

// Repo exposes the underlying repository for read paths (resolver wiring).
func (s *Service) Repo() Repository {
	return s.repo
}

// Activate durably flips the caller's record to subscribed with a window of
// durationDays from now and stores the payment reference. Safe to re-apply
// for the same reference: the gateway delivers duplicate confirmations via
// redirect plus polling fallback.
func (s *Service) Activate(ctx context.Context, userID uint, paymentRef string, durationDays int) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	ref := strings.TrimSpace(paymentRef)
	if ref == "" {
		return errors.New("payment reference is required")
	}
	if durationDays <= 0 {
		durationDays = DefaultDurationDays
	}

	start := s.now()
	end := start.AddDate(0, 0, durationDays)
	rec := &models.EntitlementRecord{
		UserID:                userID,
		IsSubscribed:          true,
		FreeTrialUsed:         true,
		SubscriptionStartDate: &start,
		SubscriptionEndDate:   &end,
		PaymentReference:      ref,
	}
	if err := s.repo.Activate(ctx, rec); err != nil {
		fiberlog.Errorf("[Subscription] activation failed for user %d ref %s: %v", userID, ref, err)
		return fmt.Errorf("activating subscription: %w", err)
	}

	fiberlog.Infof("[Subscription] user %d subscribed until %s (ref %s)", userID, end.Format(time.RFC3339), ref)
	return nil
}

// VerifyByReference asks the gateway about a payment reference and
// activates on an approved-equivalent status. Used when the redirect's own
// parameters are ambiguous or incomplete. Returns false without mutating
// state when the gateway does not confirm approval.
func (s *Service) VerifyByReference(ctx context.Context, userID uint, paymentRef string) (bool, error) {
	ref := strings.TrimSpace(paymentRef)
	if ref == "" {
		return false, errors.New("no payment reference to verify")
	}

	resp, err := s.verifier.VerifyPayment(ctx, ref)
	if err != nil {
		return false, fmt.Errorf("verifying payment %s: %w", ref, err)
	}
	if !s.approved.Matches(resp.Status) {
		fiberlog.Infof("[Subscription] payment %s not approved, gateway status %q", ref, resp.Status)
		return false, nil
	}

	if err := s.Activate(ctx, userID, ref, DefaultDurationDays); err != nil {
		return false, err
	}
	return true, nil
}
