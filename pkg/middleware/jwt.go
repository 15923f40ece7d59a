package middleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"

	"boletohub/pkg/claims"
	"boletohub/pkg/session"
)

// Routes that work without a token. Everything else under /api/auth
// requires a verified Bearer token and a live session row.
var noSessURLs = map[string]string{
	"/api/auth/register": http.MethodPost,
	"/api/auth/login":    http.MethodPost,
}

func CheckJWT(sessionStore session.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := mux.CurrentRoute(r)
			template, err := route.GetPathTemplate()
			if err != nil {
				http.Error(w, "Route not found", http.StatusNotFound)
				return
			}

			if method, ok := noSessURLs[template]; ok && method == r.Method {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				unauthorized(w)
				return
			}

			token := strings.TrimPrefix(auth, "Bearer ")

			tokenClaims := &claims.Claims{}
			parsed, err := jwt.ParseWithClaims(token, tokenClaims, secretGetter)
			if err != nil || !parsed.Valid || tokenClaims.CPF == "" {
				unauthorized(w)
				return
			}

			ok, err := sessionStore.IsValid(tokenClaims.CPF)
			if err != nil || !ok {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claims.TokenContextKey, tokenClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func secretGetter(token *jwt.Token) (interface{}, error) {
	method, ok := token.Method.(*jwt.SigningMethodHMAC)
	if !ok || method.Alg() != "HS256" {
		return nil, errors.New("bad sign method")
	}
	return []byte(os.Getenv("JWT_SECRET")), nil
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
}
