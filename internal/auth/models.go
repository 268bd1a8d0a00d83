package auth

import "time"

// Account is a registered owner of uploaded files.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Public returns a copy without the password hash.
func (a Account) Public() Account {
	a.PasswordHash = ""
	return a
}

// Session is returned by a successful register or login.
type Session struct {
	Account   Account
	Token     string
	ExpiresAt time.Time
}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	OwnerID string
	Email   string
}
