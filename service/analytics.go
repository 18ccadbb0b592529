package service

import (
	"sort"
	"time"

	"serenicash/database"
	"serenicash/models"
)

// UncategorizedLabel stands in for transactions without a category.
const UncategorizedLabel = "Uncategorized"

// MonthPoint is one month of aggregated income and expenses for the trend
// chart. Month is a zero-padded "YYYY-MM" key, so lexicographic order is
// chronological order.
type MonthPoint struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// CategorySlice is one category's expense total for the pie chart.
type CategorySlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// BucketByMonth groups transactions into per-month income/expense totals,
// sorted ascending by month key.
func BucketByMonth(txs []models.Transaction) []MonthPoint {
	buckets := make(map[string]*MonthPoint)
	for _, tx := range txs {
		key := tx.Date.Format("2006-01")
		p, ok := buckets[key]
		if !ok {
			p = &MonthPoint{Month: key}
			buckets[key] = p
		}
		if tx.Type == models.TypeIncome {
			p.Income += tx.Amount
		} else {
			p.Expenses += tx.Amount
		}
	}

	series := make([]MonthPoint, 0, len(buckets))
	for _, p := range buckets {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})
	return series
}

// BucketByCategory groups expense transactions by category name, sorted by
// total descending (name ascending on ties, so the output is deterministic).
func BucketByCategory(txs []models.Transaction) []CategorySlice {
	buckets := make(map[string]*CategorySlice)
	for _, tx := range txs {
		if tx.Type != models.TypeExpense {
			continue
		}
		name := UncategorizedLabel
		color := models.DefaultCategoryColor
		if tx.Category != nil {
			name = tx.Category.Name
			if tx.Category.Color != "" {
				color = tx.Category.Color
			}
		}
		s, ok := buckets[name]
		if !ok {
			s = &CategorySlice{Name: name, Color: color}
			buckets[name] = s
		}
		s.Value += tx.Amount
	}

	series := make([]CategorySlice, 0, len(buckets))
	for _, s := range buckets {
		series = append(series, *s)
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Value != series[j].Value {
			return series[i].Value > series[j].Value
		}
		return series[i].Name < series[j].Name
	})
	return series
}

// MonthlyAnalytics loads the user's transactions from the trailing monthsBack
// months and returns the month series and the expense-by-category series.
func MonthlyAnalytics(userID uint, monthsBack int) ([]MonthPoint, []CategorySlice, error) {
	if monthsBack <= 0 {
		monthsBack = 6
	}
	now := time.Now()
	start := now.AddDate(0, -monthsBack, 0)

	var txs []models.Transaction
	if err := database.DB.
		Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, now).
		Order("date ASC").
		Find(&txs).Error; err != nil {
		return nil, nil, err
	}

	return BucketByMonth(txs), BucketByCategory(txs), nil
}
