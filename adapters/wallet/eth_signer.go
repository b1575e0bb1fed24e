package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/layer-3/portal/core"
)

// EthSigner signs login messages with an Ethereum key, the way an
// injected wallet answers personal_sign.
type EthSigner struct {
	key     *ecdsa.PrivateKey
	address string
}

// NewEthSigner creates a signer from a hex private key. When address is empty
// the checksummed Ethereum address of the key is used.
func NewEthSigner(privateKeyHex, address string) (*EthSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidPrivateKey, err)
	}

	if address == "" {
		address = crypto.PubkeyToAddress(key.PublicKey).Hex()
	}

	return &EthSigner{key: key, address: address}, nil
}

// Address returns the wallet address the signer logs in as
func (s *EthSigner) Address() string {
	return s.address
}

// SignLogin signs the decimal timestamp and returns the 65 byte signature hex
// encoded, with V in {27, 28}.
func (s *EthSigner) SignLogin(timestamp int64) (string, error) {
	hash := accounts.TextHash([]byte(LoginMessage(timestamp)))

	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign login message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	return hexutil.Encode(sig), nil
}

// LoginMessage is the text a wallet signs to log in
func LoginMessage(timestamp int64) string {
	return strconv.FormatInt(timestamp, 10)
}
