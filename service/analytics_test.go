package service

import (
	"testing"

	"serenicash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketByMonth(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TypeExpense, 50, "2024-02-15", nil),
		tx(models.TypeIncome, 1000, "2024-01-05", nil),
		tx(models.TypeExpense, 200, "2024-01-20", nil),
		tx(models.TypeExpense, 100, "2024-01-25", nil),
	}

	series := BucketByMonth(txs)
	require.Len(t, series, 2)

	// Ascending month order regardless of input order.
	assert.Equal(t, "2024-01", series[0].Month)
	assert.Equal(t, 1000.0, series[0].Income)
	assert.Equal(t, 300.0, series[0].Expenses)

	assert.Equal(t, "2024-02", series[1].Month)
	assert.Equal(t, 0.0, series[1].Income)
	assert.Equal(t, 50.0, series[1].Expenses)
}

func TestBucketByMonth_Empty(t *testing.T) {
	assert.Empty(t, BucketByMonth(nil))
}

func TestBucketByCategory(t *testing.T) {
	food := &models.Category{Name: "Food & Dining", Color: "#ef4444"}
	transport := &models.Category{Name: "Transportation", Color: "#3b82f6"}

	txs := []models.Transaction{
		tx(models.TypeExpense, 100, "2024-01-01", food),
		tx(models.TypeExpense, 250, "2024-01-02", transport),
		tx(models.TypeExpense, 80, "2024-01-03", food),
		tx(models.TypeIncome, 5000, "2024-01-04", nil), // income is excluded
		tx(models.TypeExpense, 30, "2024-01-05", nil),
	}

	slices := BucketByCategory(txs)
	require.Len(t, slices, 3)

	// Descending by total.
	assert.Equal(t, "Transportation", slices[0].Name)
	assert.Equal(t, 250.0, slices[0].Value)
	assert.Equal(t, "#3b82f6", slices[0].Color)

	assert.Equal(t, "Food & Dining", slices[1].Name)
	assert.Equal(t, 180.0, slices[1].Value)

	assert.Equal(t, UncategorizedLabel, slices[2].Name)
	assert.Equal(t, 30.0, slices[2].Value)
	assert.Equal(t, models.DefaultCategoryColor, slices[2].Color)
}

func TestBucketByCategory_MissingColorFallsBack(t *testing.T) {
	uncolored := &models.Category{Name: "Misc"}
	slices := BucketByCategory([]models.Transaction{
		tx(models.TypeExpense, 10, "2024-01-01", uncolored),
	})

	require.Len(t, slices, 1)
	assert.Equal(t, models.DefaultCategoryColor, slices[0].Color)
}
