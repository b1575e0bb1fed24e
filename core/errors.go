package core

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrStoreOperationFailed = errors.New("store operation failed")
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidClaims        = errors.New("invalid claims")
	ErrInvalidEnvelope      = errors.New("invalid response envelope")
	ErrAuthorizationFailed  = errors.New("authorization failed")
	ErrNoResult             = errors.New("no result")
	ErrUnexpectedStatus     = errors.New("unexpected status")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrNoCurrentOrder       = errors.New("no current order")
	ErrInvalidPrivateKey    = errors.New("invalid private key")
	ErrWalletNotConnected   = errors.New("wallet not connected")
)
