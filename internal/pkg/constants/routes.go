package constants

// Route constants shared between controllers and the router.
const (
	PublicRoute          = "/"
	LoginRoute           = "/login"
	RegisterRoute        = "/register"
	AccountRoute         = "/account"
	PaymentCallbackRoute = "/payment-callback"
)
