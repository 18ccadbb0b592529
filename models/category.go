package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultCategoryColor is used when a category has no color of its own.
const DefaultCategoryColor = "#6B7280"

// Category labels transactions. Global categories (UserID nil, IsGlobal true)
// are maintained by admins and visible to everyone; personal categories belong
// to a single user.
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:50;not null;index"`
	Type      string         `json:"type" gorm:"size:10;not null;index"` // income or expense
	Color     string         `json:"color" gorm:"size:20;default:#6B7280"`
	Icon      string         `json:"icon" gorm:"size:50"`
	UserID    *uint          `json:"user_id" gorm:"index"` // nil for global categories
	IsGlobal  bool           `json:"is_global" gorm:"default:false;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}

// DefaultCategories returns the global categories seeded on first boot.
// Colors match the frontend chart palette.
func DefaultCategories() []Category {
	defaults := []struct {
		Name  string
		Type  string
		Color string
		Icon  string
	}{
		{"Food & Dining", TypeExpense, "#ef4444", "utensils"},
		{"Transportation", TypeExpense, "#3b82f6", "car"},
		{"Shopping", TypeExpense, "#a855f7", "shopping-bag"},
		{"Entertainment", TypeExpense, "#ec4899", "film"},
		{"Healthcare", TypeExpense, "#10b981", "heart-pulse"},
		{"Education", TypeExpense, "#f59e0b", "book"},
		{"Housing", TypeExpense, "#14b8a6", "home"},
		{"Other", TypeExpense, "#64748b", "circle-ellipsis"},
		{"Salary", TypeIncome, "#10b981", "wallet"},
		{"Bonus", TypeIncome, "#3b82f6", "gift"},
		{"Investments", TypeIncome, "#a855f7", "trending-up"},
		{"Freelance", TypeIncome, "#f59e0b", "briefcase"},
		{"Other Income", TypeIncome, "#64748b", "circle-plus"},
	}

	cats := make([]Category, 0, len(defaults))
	for _, d := range defaults {
		cats = append(cats, Category{
			Name:     d.Name,
			Type:     d.Type,
			Color:    d.Color,
			Icon:     d.Icon,
			IsGlobal: true,
		})
	}
	return cats
}
