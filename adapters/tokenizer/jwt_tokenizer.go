package tokenizer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/portal/core"
)

var parser = jwt.NewParser()

// ExpiresAt decodes the exp claim of an access token.
// The signature is not verified: the backend checks it when the token is presented.
func ExpiresAt(token string) (time.Time, error) {
	claims := &AccessClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", core.ErrInvalidToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, core.ErrInvalidClaims
	}

	return exp.Time, nil
}
