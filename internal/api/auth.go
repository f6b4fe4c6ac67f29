package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JwtCustomClaims struct {
	AdminID int64 `json:"admin_id"`
	jwt.RegisteredClaims
}

// MintAdminToken issues the token the transport layer uses against the admin
// routes. Only ids configured as admins ever get one.
func MintAdminToken(secret string, adminID int64) (string, error) {
	claims := &JwtCustomClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString([]byte(secret))
}
