package settlement

import (
	"edulearn/models"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockBanks loads and row-locks the banks of userIDs, keyed by user id.
// Rows are locked in id order so concurrent settlements cannot deadlock.
func LockBanks(tx *gorm.DB, userIDs ...uint) (map[uint]*models.Bank, error) {
	var banks []models.Bank
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id IN ? AND is_deleted = false", userIDs).
		Order("id").
		Find(&banks).Error; err != nil {
		return nil, err
	}

	out := make(map[uint]*models.Bank, len(banks))
	for i := range banks {
		out[banks[i].UserID] = &banks[i]
	}
	return out, nil
}

// Deposit credits amount to bank and records the ledger entry. Used for the
// opening balance and top-ups; bank must already be locked by tx.
func Deposit(tx *gorm.DB, bank *models.Bank, amount decimal.Decimal, entryType models.WalletEntryType, description string) error {
	return adjust(tx, bank, amount, entryType, 0, description)
}

// move transfers amount between two locked banks, one ledger entry per side.
func move(tx *gorm.DB, from, to *models.Bank, amount decimal.Decimal, out, in models.WalletEntryType, txnID uint, description string) error {
	if amount.IsZero() || from.ID == to.ID {
		return nil
	}
	if err := adjust(tx, from, amount.Neg(), out, txnID, description); err != nil {
		return err
	}
	return adjust(tx, to, amount, in, txnID, description)
}

func adjust(tx *gorm.DB, bank *models.Bank, delta decimal.Decimal, entryType models.WalletEntryType, txnID uint, description string) error {
	before := bank.Balance
	after := before.Add(delta)
	if after.IsNegative() {
		return ErrInsufficientBalance
	}

	if err := tx.Model(bank).Update("balance", after).Error; err != nil {
		return err
	}
	bank.Balance = after

	return tx.Create(&models.WalletEntry{
		UserID:        bank.UserID,
		BankID:        bank.ID,
		EntryType:     entryType,
		Amount:        delta.Abs(),
		BalanceBefore: before,
		BalanceAfter:  after,
		TransactionID: txnID,
		Description:   description,
		EntryDate:     time.Now(),
	}).Error
}
