package core

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountUnit is the unit an amount is expressed in
type AmountUnit int32

const (
	// UnitShannon is the smallest CKB unit
	UnitShannon AmountUnit = 0

	// UnitCKB is 10^8 shannon
	UnitCKB AmountUnit = 8
)

// Amount is a fixed-point CKB amount stored in shannon
type Amount struct {
	shannon decimal.Decimal
}

// NewAmount parses value expressed in unit
func NewAmount(value string, unit AmountUnit) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}

	shannon := d.Shift(int32(unit))
	if !shannon.Equal(shannon.Truncate(0)) {
		return Amount{}, fmt.Errorf("%w: %q has sub-shannon precision", ErrInvalidAmount, value)
	}

	return Amount{shannon: shannon}, nil
}

// Shannon returns the amount in shannon
func (a Amount) Shannon() decimal.Decimal {
	return a.shannon
}

// CKB returns the amount in CKB
func (a Amount) CKB() decimal.Decimal {
	return a.shannon.Shift(-int32(UnitCKB))
}

// String formats the amount in CKB
func (a Amount) String() string {
	return a.CKB().String()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}
