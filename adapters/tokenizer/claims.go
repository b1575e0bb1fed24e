package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims are the claims the backend puts in an access token.
// Only the registered claims are read on this side.
type AccessClaims struct {
	jwt.RegisteredClaims
	Address string `json:"address,omitempty"`
}
