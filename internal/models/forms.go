package models

type SignInRequest struct {
	Email    string
	Password string
}

type CreateAccountRequest struct {
	Email          string
	Password       string
	RetypePassword string
}

// CreateAccountResult reports the new account. ProfileWritten is false when
// the account exists but its profile document could not be stored.
type CreateAccountResult struct {
	UserID         string
	ProfileWritten bool
}

// AccountOverview is rendered by the account screen.
type AccountOverview struct {
	Email      string
	AppVersion string
	Platform   string
	OS         string
}
