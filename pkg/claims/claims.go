package claims

import jwt "github.com/dgrijalva/jwt-go"

type contextKey string

const (
	TokenContextKey contextKey = "token"
)

// Claims is the JWT payload: the user's CPF plus the standard
// iat/exp pair. The CPF is the token subject every protected
// handler authorizes against.
type Claims struct {
	CPF string `json:"cpf"`
	jwt.StandardClaims
}
