package ports

import "context"

// WalletProvider exposes the currently connected wallet
type WalletProvider interface {
	// Address returns the connected wallet address, false when no wallet is connected
	Address(ctx context.Context) (string, bool)
}

// Signer signs login messages on behalf of a wallet
type Signer interface {
	Address() string
	SignLogin(timestamp int64) (string, error)
}
