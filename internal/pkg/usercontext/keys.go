package usercontext

// Locals keys shared between middleware and controllers.
const (
	KeyUserContext = "USER_CONTEXT"
	KeyLoggedIn    = "LOGGED_IN"
)
