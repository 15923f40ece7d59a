package handlers

import (
	"os"
	"time"

	jwt "github.com/dgrijalva/jwt-go"

	"boletohub/pkg/session"
)

// IssueToken signs an HS256 bearer token carrying the cpf, expiring
// together with the session row created alongside it.
func IssueToken(cpf string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"cpf": cpf,
		"iat": now.Unix(),
		"exp": now.Add(session.TokenTTL).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
