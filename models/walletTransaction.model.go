package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletEntryType defines why a wallet balance changed
type WalletEntryType string

const (
	EntryOpening           WalletEntryType = "OPENING"
	EntryTopUp             WalletEntryType = "TOP_UP"
	EntryEnrollmentHold    WalletEntryType = "ENROLLMENT_HOLD"    // student pays the platform
	EntryEnrollmentReceipt WalletEntryType = "ENROLLMENT_RECEIPT" // platform receives the payment
	EntryInstructorPayout  WalletEntryType = "INSTRUCTOR_PAYOUT"  // platform pays the instructor share
	EntryInstructorEarning WalletEntryType = "INSTRUCTOR_EARNING"
	EntryRefund            WalletEntryType = "REFUND"        // platform returns a rejected payment
	EntryRefundReturn      WalletEntryType = "REFUND_RETURN" // student receives the refund
)

// WalletEntry records a single balance change on a Bank.
type WalletEntry struct {
	gorm.Model
	UserID        uint            `gorm:"not null;index" json:"userId"`
	BankID        uint            `gorm:"not null;index" json:"bankId"`
	EntryType     WalletEntryType `gorm:"type:varchar(40);not null" json:"entryType"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"balanceAfter"`
	TransactionID uint            `gorm:"default:0;index" json:"transactionId"`
	Description   string          `gorm:"type:text" json:"description"`
	EntryDate     time.Time       `gorm:"not null" json:"entryDate"`
}

func (WalletEntry) TableName() string {
	return "wallet_entries"
}
