package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Contact is an address book entry kept by the backend
type Contact struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// TxRecord is a transaction history row. The backend owns its shape.
type TxRecord map[string]any

// TxDirection filters transaction history
type TxDirection string

const (
	TxDirectionAll TxDirection = "all"
	TxDirectionIn  TxDirection = "in"
	TxDirectionOut TxDirection = "out"
)

// DaoStats is the raw payload of GET /dao/stats
type DaoStats struct {
	Global struct {
		EstimatedAPC string `json:"estimated_apc"`
	} `json:"global"`
	User struct {
		Locked          string `json:"locked"`
		Yesterday       string `json:"yesterday"`
		YieldCumulative string `json:"yieldCumulative"`
	} `json:"user"`
}

// DaoSummary is DaoStats converted to amounts
type DaoSummary struct {
	Locked     Amount `json:"locked"`
	Yesterday  Amount `json:"yesterday"`
	Cumulative Amount `json:"cumulative"`
	APC        string `json:"apc"`
}

// Summary converts the shannon strings of s into amounts and rounds the
// estimated APC to two decimals.
func (s DaoStats) Summary() (DaoSummary, error) {
	locked, err := NewAmount(s.User.Locked, UnitShannon)
	if err != nil {
		return DaoSummary{}, fmt.Errorf("locked: %w", err)
	}

	yesterday, err := NewAmount(s.User.Yesterday, UnitShannon)
	if err != nil {
		return DaoSummary{}, fmt.Errorf("yesterday: %w", err)
	}

	cumulative, err := NewAmount(s.User.YieldCumulative, UnitShannon)
	if err != nil {
		return DaoSummary{}, fmt.Errorf("cumulative: %w", err)
	}

	apc, err := decimal.NewFromString(s.Global.EstimatedAPC)
	if err != nil {
		return DaoSummary{}, fmt.Errorf("%w: apc %q", ErrInvalidAmount, s.Global.EstimatedAPC)
	}

	return DaoSummary{
		Locked:     locked,
		Yesterday:  yesterday,
		Cumulative: cumulative,
		APC:        apc.StringFixed(2),
	}, nil
}
