package service

import (
	"testing"
	"time"

	"serenicash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(txType string, amount float64, date string, category *models.Category) models.Transaction {
	d, _ := time.ParseInLocation("2006-01-02", date, time.Local)
	return models.Transaction{Type: txType, Amount: amount, Date: d, Category: category}
}

func TestBuildForecastInput(t *testing.T) {
	food := &models.Category{Name: "Food & Dining"}
	txs := []models.Transaction{
		tx(models.TypeIncome, 1000, "2024-01-05", nil),
		tx(models.TypeExpense, 800, "2024-01-10", food),
		tx(models.TypeIncome, 1200, "2024-02-05", nil),
		tx(models.TypeExpense, 900, "2024-02-10", food),
	}

	in := BuildForecastInput(txs)
	require.NotNil(t, in)

	require.Len(t, in.Months, 2)
	assert.Equal(t, "2024-01", in.Months[0].Month)
	assert.Equal(t, "2024-02", in.Months[1].Month)

	// Averages over the two observed months.
	assert.InDelta(t, 1100, in.AvgIncome, 0.001)
	assert.InDelta(t, 850, in.AvgExpenses, 0.001)

	require.Len(t, in.CategoryAverages, 1)
	assert.Equal(t, "Food & Dining", in.CategoryAverages[0].Name)
	assert.InDelta(t, 850, in.CategoryAverages[0].Average, 0.001)
}

func TestBuildForecastInput_Empty(t *testing.T) {
	assert.Nil(t, BuildForecastInput(nil))
	assert.Nil(t, BuildForecastInput([]models.Transaction{}))
}

func TestBuildForecastInput_UncategorizedExpenses(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TypeExpense, 50, "2024-03-01", nil),
		tx(models.TypeExpense, 150, "2024-03-02", nil),
	}

	in := BuildForecastInput(txs)
	require.NotNil(t, in)
	require.Len(t, in.CategoryAverages, 1)
	assert.Equal(t, UncategorizedLabel, in.CategoryAverages[0].Name)
	assert.InDelta(t, 200, in.CategoryAverages[0].Average, 0.001)
}

func TestFallbackForecast(t *testing.T) {
	in := &ForecastInput{
		Months: []MonthTotal{
			{Month: "2024-01", Income: 1000, Expenses: 800},
			{Month: "2024-02", Income: 1200, Expenses: 900},
		},
		AvgIncome:   1100,
		AvgExpenses: 850,
	}

	f := FallbackForecast(in)
	assert.Equal(t, 1100.0, f.PredictedIncome)
	assert.Equal(t, 850.0, f.PredictedExpenses)
	assert.Equal(t, "medium", f.Confidence)
	assert.NotEmpty(t, f.Insights)
	assert.NotEmpty(t, f.Recommendations)

	f.Finalize(in)
	assert.Equal(t, 250.0, f.PredictedBalance)
}

func TestFinalize_TopFiveCategories(t *testing.T) {
	in := &ForecastInput{
		CategoryAverages: []CategoryAverage{
			{Name: "a", Average: 600}, {Name: "b", Average: 500},
			{Name: "c", Average: 400}, {Name: "d", Average: 300},
			{Name: "e", Average: 200}, {Name: "f", Average: 100},
		},
	}

	f := &Forecast{PredictedIncome: 2000, PredictedExpenses: 1500}
	f.Finalize(in)

	assert.Equal(t, 500.0, f.PredictedBalance)
	require.Len(t, f.CategoryBreakdown, 5)
	assert.Equal(t, "a", f.CategoryBreakdown[0].Name)
	assert.Equal(t, "e", f.CategoryBreakdown[4].Name)
}

func TestStripCodeFences(t *testing.T) {
	raw := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, StripCodeFences(raw))

	assert.Equal(t, `{"a": 1}`, StripCodeFences(`{"a": 1}`))
}

func TestParseForecastResponse(t *testing.T) {
	raw := "```json\n" + `{
		"predictedIncome": 1500,
		"predictedExpenses": 1200,
		"confidence": "high",
		"insights": ["income is stable"],
		"recommendations": ["keep saving"]
	}` + "\n```"

	f, err := ParseForecastResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, f.PredictedIncome)
	assert.Equal(t, 1200.0, f.PredictedExpenses)
	assert.Equal(t, "high", f.Confidence)
	assert.Equal(t, []string{"income is stable"}, f.Insights)
}

func TestParseForecastResponse_Invalid(t *testing.T) {
	_, err := ParseForecastResponse("I think your income will go up next month.")
	assert.Error(t, err)

	_, err = ParseForecastResponse(`{"predictedIncome": 100, "predictedExpenses": 50, "confidence": "certain"}`)
	assert.Error(t, err)
}

func TestEmptyForecast(t *testing.T) {
	f := EmptyForecast()
	assert.Equal(t, "low", f.Confidence)
	assert.NotEmpty(t, f.Insights)
	assert.Empty(t, f.CategoryBreakdown)
	assert.Equal(t, 0.0, f.PredictedBalance)
}

func TestBuildForecastPrompt(t *testing.T) {
	in := &ForecastInput{
		Months:      []MonthTotal{{Month: "2024-01", Income: 1000, Expenses: 800}},
		AvgIncome:   1000,
		AvgExpenses: 800,
		CategoryAverages: []CategoryAverage{
			{Name: "Food & Dining", Average: 300},
		},
	}

	prompt := BuildForecastPrompt(in)
	assert.Contains(t, prompt, "Month 2024-01")
	assert.Contains(t, prompt, "Average Monthly Income: $1000.00")
	assert.Contains(t, prompt, "Food & Dining: $300.00")
	assert.Contains(t, prompt, "Respond in JSON format")
}
