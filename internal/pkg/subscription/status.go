package subscription

import (
	"strings"

	"github.com/RoomSageApp/RoomSage/internal/pkg/env"
)

// The gateway reports approval with inconsistent casing and wording
// ("success", "APPROVED", "Approved" have all been observed), so the
// accepted vocabulary lives in one configurable set instead of literals
// scattered through the callback path.
type StatusSet map[string]struct{}

func NewStatusSet(values ...string) StatusSet {
	s := make(StatusSet, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			s[v] = struct{}{}
		}
	}
	return s
}

// StatusSetFromEnv builds the approved set from PAYMENT_APPROVED_STATUSES
// (comma separated), defaulting to the statuses observed in production.
func StatusSetFromEnv() StatusSet {
	raw := env.GetEnv("PAYMENT_APPROVED_STATUSES", "success,approved")
	return NewStatusSet(strings.Split(raw, ",")...)
}

// Matches reports whether the provider status counts as approved.
func (s StatusSet) Matches(status string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(status))]
	return ok
}
