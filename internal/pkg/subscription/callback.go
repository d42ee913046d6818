package subscription

// RedirectParams carries the raw query parameters the payment provider
// appends to the redirect back from checkout. Any subset may be present.
type RedirectParams struct {
	Success      string // "success" query flag, literal "true" when set
	Message      string // "data.message", e.g. "Approved"
	ResponseCode string // "txn_response_code", e.g. "APPROVED"
	PaymentID    string // "id", the payment reference
}

// Decision is the outcome of inspecting redirect parameters.
type Decision int

const (
	// DecisionActivate: parameters unambiguously indicate approval and
	// carry a reference; activate directly.
	DecisionActivate Decision = iota
	// DecisionVerify: approval is ambiguous but a reference exists; ask
	// the gateway's verification endpoint before deciding.
	DecisionVerify
	// DecisionFail: nothing to act on.
	DecisionFail
)

// Decide implements the payment-callback transition rule.
func (p RedirectParams) Decide(approved StatusSet) Decision {
	success := p.Success == "true"
	approvedByParams := approved.Matches(p.Message) || approved.Matches(p.ResponseCode)

	if success && approvedByParams {
		if p.PaymentID != "" {
			return DecisionActivate
		}
		// Approved but no reference to record; nothing can be activated.
		return DecisionFail
	}
	if p.PaymentID != "" {
		return DecisionVerify
	}
	return DecisionFail
}
