package models

import (
	"time"

	"gorm.io/gorm"
)

// TransactionType defines the type of wallet transaction
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypePurchase    TransactionType = "PURCHASE"
	TransactionTypeRefund      TransactionType = "REFUND"
	TransactionTypeAdminCredit TransactionType = "ADMIN_CREDIT"
)

// TransactionStatus defines the status of a transaction
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusReverted  TransactionStatus = "REVERTED"
)

// WalletTransaction is the ledger of balance movements. Purchases write a
// PURCHASE row; a compensated purchase additionally writes a REFUND row so
// the history explains both sides of the reverted debit.
type WalletTransaction struct {
	gorm.Model
	UserID          uint              `gorm:"not null;index" json:"userId"`
	Reference       string            `gorm:"type:varchar(64);index" json:"reference"`
	TransactionType TransactionType   `gorm:"type:varchar(50);not null" json:"transactionType"`
	Amount          float64           `gorm:"not null" json:"amount"`
	BalanceBefore   float64           `gorm:"not null" json:"balanceBefore"`
	BalanceAfter    float64           `gorm:"not null" json:"balanceAfter"`
	Status          TransactionStatus `gorm:"type:varchar(20);default:'COMPLETED'" json:"status"`
	Description     string            `gorm:"type:text" json:"description"`

	// Reference details (for purchases and refunds)
	CourseID   uint   `gorm:"default:0" json:"courseId"`
	CourseName string `gorm:"type:varchar(255)" json:"courseName"`

	// Admin details (for manual credits)
	AdminID uint   `gorm:"default:0" json:"adminId"`
	Reason  string `gorm:"type:text" json:"reason"`

	TransactionDate time.Time `gorm:"not null" json:"transactionDate"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
