package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/model"
)

// PostgresLedger keeps balances in ledger_account and applied keys in ledger_transfer.
type PostgresLedger struct {
	db *gorm.DB
}

func NewPostgresLedger(db *gorm.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) Migrate() error {
	return l.db.AutoMigrate(&model.LedgerAccount{}, &model.LedgerTransfer{})
}

func (l *PostgresLedger) Deposit(ctx context.Context, owner string, amount uint64) error {
	return credit(l.db.WithContext(ctx), owner, amount)
}

func (l *PostgresLedger) Transfer(ctx context.Context, t Transfer) error {
	if err := t.validate(); err != nil {
		return err
	}

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.LedgerTransfer{
			Key:       t.Key,
			Source:    t.From,
			Target:    t.To,
			Amount:    t.Amount,
			AppliedAt: time.Now().UTC(),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var applied model.LedgerTransfer
			if err := tx.Where("key = ?", t.Key).First(&applied).Error; err != nil {
				return err
			}
			if !t.sameTerms(applied.Source, applied.Target, applied.Amount) {
				return fmt.Errorf("%w: %s", ErrKeyConflict, t.Key)
			}
			log.Debug().Str("key", t.Key).Msg("Transfer already applied")
			return nil
		}
		if t.Amount == 0 {
			return nil
		}

		debit := tx.Model(&model.LedgerAccount{}).
			Where("owner = ? AND balance >= ?", t.From, t.Amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", t.Amount))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return ErrInsufficientFunds
		}

		return credit(tx, t.To, t.Amount)
	})
}

func (l *PostgresLedger) Balance(ctx context.Context, owner string) (uint64, error) {
	var account model.LedgerAccount
	err := l.db.WithContext(ctx).Where("owner = ?", owner).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func credit(db *gorm.DB, owner string, amount uint64) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner"}},
		DoUpdates: clause.Assignments(map[string]any{
			"balance": gorm.Expr("ledger_account.balance + ?", amount),
		}),
	}).Create(&model.LedgerAccount{Owner: owner, Balance: amount}).Error
}
