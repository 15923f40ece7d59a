package session

import "time"

// TokenTTL bounds both the JWT expiry and the session row lifetime.
const TokenTTL = time.Hour

// Session backs an issued token: a token is only honored while a live
// session row exists for its CPF, so delete-user can revoke access
// before the JWT itself expires.
type Session struct {
	ID        string
	CPF       string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Repository interface {
	Create(cpf, sessionID string) (string, error)
	IsValid(cpf string) (bool, error)
	Invalidate(cpf string) error
}
