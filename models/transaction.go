package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a single income or expense entry. CategoryID is optional;
// analytics substitute an "Uncategorized" label when it is unset.
type Transaction struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Amount      float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Type        string         `json:"type" gorm:"size:10;not null;index"` // income or expense
	CategoryID  *uint          `json:"category_id" gorm:"index"`
	Description string         `json:"description" gorm:"size:255"`
	Date        time.Time      `json:"date" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Category    *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Transaction) TableName() string {
	return "transactions"
}

// ValidType reports whether t is a known transaction type.
func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}
