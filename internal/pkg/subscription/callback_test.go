package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	approved := NewStatusSet("success", "approved")

	tests := []struct {
		name   string
		params RedirectParams
		want   Decision
	}{
		{
			name:   "approved via message with id",
			params: RedirectParams{Success: "true", Message: "Approved", PaymentID: "pay_1"},
			want:   DecisionActivate,
		},
		{
			name:   "approved via response code with id",
			params: RedirectParams{Success: "true", ResponseCode: "APPROVED", PaymentID: "pay_1"},
			want:   DecisionActivate,
		},
		{
			name:   "approved but no id",
			params: RedirectParams{Success: "true", Message: "Approved"},
			want:   DecisionFail,
		},
		{
			name:   "success flag without approval wording falls back to verify",
			params: RedirectParams{Success: "true", Message: "Pending", PaymentID: "pay_1"},
			want:   DecisionVerify,
		},
		{
			name:   "missing success flag with id",
			params: RedirectParams{PaymentID: "pay_1"},
			want:   DecisionVerify,
		},
		{
			name:   "declined with id still verifies",
			params: RedirectParams{Success: "false", Message: "Declined", PaymentID: "pay_1"},
			want:   DecisionVerify,
		},
		{
			name:   "nothing usable",
			params: RedirectParams{},
			want:   DecisionFail,
		},
		{
			name:   "declined without id",
			params: RedirectParams{Success: "false", ResponseCode: "DECLINED"},
			want:   DecisionFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Decide(approved))
		})
	}
}

func TestStatusSetMatching(t *testing.T) {
	s := NewStatusSet("success", "APPROVED", " Paid ")

	assert.True(t, s.Matches("success"))
	assert.True(t, s.Matches("SUCCESS"))
	assert.True(t, s.Matches("Approved"))
	assert.True(t, s.Matches("  paid"))
	assert.False(t, s.Matches("declined"))
	assert.False(t, s.Matches(""))
}

func TestStatusSetFromEnvDefault(t *testing.T) {
	s := StatusSetFromEnv()
	assert.True(t, s.Matches("success"))
	assert.True(t, s.Matches("APPROVED"))
	assert.False(t, s.Matches("pending"))
}
