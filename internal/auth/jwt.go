// Package auth implements the credential layer behind the authorization
// gate: HS256 tokens carried in a cookie, and argon2id password hashing for
// the login flow.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognized by the authorization gate. Admins may mutate collections;
// editors may only read them through the API.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

var (
	// ErrTokenExpired marks a well-formed credential past its expiry.
	ErrTokenExpired = errors.New("credential expired")

	// ErrTokenInvalid marks a malformed or forged credential.
	ErrTokenInvalid = errors.New("invalid credential")
)

// Identity is the verified caller identity made available to handlers.
type Identity struct {
	UserID string
	Role   string
}

// Claims extends the registered claims with the user's id and role.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

// GenerateToken mints a signed token for the given identity.
func GenerateToken(userID, role string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: userID,
		Role:   role,
	})
	return token.SignedString(secret)
}

// VerifyToken checks signature and expiry and returns the embedded identity.
// Expired credentials are distinguished from forged or malformed ones so the
// caller can report them separately.
func VerifyToken(tokenString string, secret []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return &Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
