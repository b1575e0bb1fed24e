package wallet

import "context"

// StaticProvider is a wallet provider bound to one address.
// An empty address means no wallet is connected.
type StaticProvider struct {
	address string
}

// NewStaticProvider creates a provider for address
func NewStaticProvider(address string) *StaticProvider {
	return &StaticProvider{address: address}
}

// Address returns the bound address
func (p *StaticProvider) Address(ctx context.Context) (string, bool) {
	return p.address, p.address != ""
}
