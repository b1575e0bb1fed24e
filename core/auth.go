package core

import "time"

const (
	// AccessKeyPrefix prefixes access token keys in the session-scoped store
	AccessKeyPrefix = "AT+"

	// RefreshKeyPrefix prefixes refresh token keys in the durable store
	RefreshKeyPrefix = "RT+"
)

// Credential is the token pair issued to a wallet address at login
type Credential struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessKey returns the store key of the access token for address
func AccessKey(address string) string {
	return AccessKeyPrefix + address
}

// RefreshKey returns the store key of the refresh token for address
func RefreshKey(address string) string {
	return RefreshKeyPrefix + address
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Address   string `json:"address"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

// Expired reports whether a token expiring at exp is no longer usable at now.
// A token is usable strictly before its expiry.
func Expired(exp, now time.Time) bool {
	return !now.Before(exp)
}
