package model

import "time"

type LedgerAccount struct {
	Owner   string `gorm:"primaryKey"`
	Balance uint64
}

func (LedgerAccount) TableName() string {
	return "ledger_account"
}

// LedgerTransfer records an applied transfer. Key is unique.
type LedgerTransfer struct {
	Key       string `gorm:"primaryKey"`
	Source    string
	Target    string
	Amount    uint64
	AppliedAt time.Time
}

func (LedgerTransfer) TableName() string {
	return "ledger_transfer"
}
