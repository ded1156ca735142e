package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds.
const (
	KindCashIn  = "CASH_IN"
	KindCashOut = "CASH_OUT"
)

// Transaction is a ledger entry. Amount is stored as free text and only
// coerced to a number at read time; the category and creator are protected
// from deletion while referenced. Never updated or deleted once written.
type Transaction struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	BusinessID  uint                `json:"business_id" gorm:"not null;index:idx_transactions_biz_date;index:idx_transactions_biz_kind"`
	CategoryID  uint                `json:"category_id" gorm:"not null"`
	Kind        string              `json:"kind" gorm:"size:10;not null;index:idx_transactions_biz_kind"`
	Amount      string              `json:"amount" gorm:"size:40;not null"`
	Details     string              `json:"details" gorm:"size:240"`
	Photo       string              `json:"photo" gorm:"size:255"`
	Date        time.Time           `json:"date" gorm:"type:date;not null;index:idx_transactions_biz_date"`
	CreatedByID uint                `json:"created_by_id" gorm:"not null"`
	CreatedAt   time.Time           `json:"created_at"`
	Business    Business            `json:"-" gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	Category    TransactionCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	CreatedBy   User                `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
}

// TableName sets the table name.
func (Transaction) TableName() string {
	return "transactions"
}

// ParseAmount coerces the free-text amount to a decimal. ok is false when the
// value is not numeric; aggregation skips such rows.
func ParseAmount(amount string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ValidKind reports whether kind is CASH_IN or CASH_OUT.
func ValidKind(kind string) bool {
	return kind == KindCashIn || kind == KindCashOut
}
