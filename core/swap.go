package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SwapConfig is the swap service configuration. The backend owns its shape.
type SwapConfig map[string]any

// SwapRates maps token symbols to their rate data
type SwapRates map[string]any

// SwapTxStatus is the backend status code of a swap
type SwapTxStatus int

const (
	SwapTxPending SwapTxStatus = iota
	SwapTxProcessing
	SwapTxSucceeded
	SwapTxFailed
)

func (s SwapTxStatus) String() string {
	switch s {
	case SwapTxPending:
		return "pending"
	case SwapTxProcessing:
		return "processing"
	case SwapTxSucceeded:
		return "succeeded"
	case SwapTxFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// SwapLeg is one side of a swap
type SwapLeg struct {
	Amount  string `json:"amount"`
	Decimal int32  `json:"decimal"`
	Hash    string `json:"hash"`
	Symbol  string `json:"symbol"`
}

// Value returns Amount scaled down by Decimal places
func (l SwapLeg) Value() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(l.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q", ErrInvalidAmount, l.Symbol, l.Amount)
	}
	return d.Shift(-l.Decimal), nil
}

// SwapTX is a swap as reported by GET /swap/transactions
type SwapTX struct {
	ID     int64        `json:"id"`
	From   SwapLeg      `json:"from"`
	To     SwapLeg      `json:"to"`
	Time   int64        `json:"time"`
	Status SwapTxStatus `json:"status"`
}

// PendingSwap is the body of POST /swap/submitPendingSwap
type PendingSwap struct {
	TxHash      string `json:"txhash"`
	Nonce       int64  `json:"nonce"`
	CKBAmount   string `json:"ckbAmount"`
	TokenSymbol string `json:"tokenSymbol"`
	TokenAmount string `json:"tokenAmount"`
	From        string `json:"from"`
}
