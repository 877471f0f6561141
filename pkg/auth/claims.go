package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   int64
	Username string
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
// The subject carries the username; uid carries the numeric user ID.
type AccessTokenClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// Username returns the subject claim.
func (c *AccessTokenClaims) Username() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
