// Package ledger moves funds between accounts. Every transfer carries an idempotency
// key: applying the same key twice moves funds once.
package ledger

import (
	"context"
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// Amounts are UFix64 base units.
const amountScale = 8

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTransferRejected  = errors.New("transfer rejected")
	ErrInvalidTransfer   = errors.New("invalid transfer")
	ErrKeyConflict       = errors.New("transfer key already applied with different terms")
)

type Transfer struct {
	Key    string `json:"key"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

func (t Transfer) validate() error {
	if t.Key == "" || t.From == "" || t.To == "" || t.From == t.To {
		return ErrInvalidTransfer
	}
	return nil
}

// sameTerms reports whether applied moved the same funds t describes.
func (t Transfer) sameTerms(source, target string, amount uint64) bool {
	return t.From == source && t.To == target && t.Amount == amount
}

type Transferer interface {
	Transfer(ctx context.Context, t Transfer) error
}

type BalanceReader interface {
	Balance(ctx context.Context, owner string) (uint64, error)
}

// FormatAmount renders base units as a UFix64 decimal string, e.g. 150000000 -> "1.50000000".
func FormatAmount(amount uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -amountScale).StringFixed(amountScale)
}

// ParseAmount is the inverse of FormatAmount.
func ParseAmount(value string) (uint64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, err
	}
	units := d.Shift(amountScale)
	if units.IsNegative() || !units.Equal(units.Truncate(0)) {
		return 0, errors.New("amount must be a non-negative multiple of 0.00000001")
	}
	b := units.BigInt()
	if !b.IsUint64() {
		return 0, errors.New("amount out of range")
	}
	return b.Uint64(), nil
}
