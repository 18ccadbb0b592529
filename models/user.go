package models

import (
	"time"

	"gorm.io/gorm"
)

// User account. MonthlyBudget is the expense ceiling for the current calendar
// month (0 disables budget monitoring); BudgetAlertSent records when the last
// budget-exceeded alert fired and is only meaningful within the month it was
// set; the budget monitor treats older values as "not sent".
type User struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Username        string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password        string         `json:"-" gorm:"size:255;not null"`
	Email           string         `json:"email" gorm:"size:100;index"`
	IsAdmin         bool           `json:"is_admin" gorm:"default:false;index"`
	MonthlyBudget   float64        `json:"monthly_budget" gorm:"type:decimal(10,2);default:0"`
	BudgetAlertSent *time.Time     `json:"budget_alert_sent"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
