package models

// Transaction category kinds.
const (
	CategoryKindIncome  = "INCOME"
	CategoryKindExpense = "EXPENSE"
)

// TransactionCategory is a per-business ledger category, unique per
// (business, name, kind). Categories referenced by transactions cannot be
// deleted; the whole set goes away with its business.
type TransactionCategory struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	BusinessID uint     `json:"business_id" gorm:"not null;uniqueIndex:idx_tx_categories_biz_name_kind"`
	Name       string   `json:"name" gorm:"size:100;not null;uniqueIndex:idx_tx_categories_biz_name_kind"`
	Kind       string   `json:"kind" gorm:"size:10;not null;uniqueIndex:idx_tx_categories_biz_name_kind"`
	Business   Business `json:"-" gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name.
func (TransactionCategory) TableName() string {
	return "transaction_categories"
}

// ValidCategoryKind reports whether kind is INCOME or EXPENSE.
func ValidCategoryKind(kind string) bool {
	return kind == CategoryKindIncome || kind == CategoryKindExpense
}
