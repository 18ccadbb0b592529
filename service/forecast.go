package service

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"serenicash/database"
	"serenicash/models"
)

// Forecast is the next-month prediction returned to the frontend. Predicted
// income/expenses may come from the AI model, but PredictedBalance and
// CategoryBreakdown are always computed locally.
type Forecast struct {
	PredictedIncome   float64            `json:"predicted_income"`
	PredictedExpenses float64            `json:"predicted_expenses"`
	PredictedBalance  float64            `json:"predicted_balance"`
	Confidence        string             `json:"confidence"`
	Insights          []string           `json:"insights"`
	Recommendations   []string           `json:"recommendations"`
	CategoryBreakdown []ForecastCategory `json:"category_breakdown"`
}

// ForecastCategory is a predicted per-category monthly spend.
type ForecastCategory struct {
	Name            string  `json:"name"`
	PredictedAmount float64 `json:"predicted_amount"`
}

// MonthTotal is one observed month in the forecast window.
type MonthTotal struct {
	Month    string
	Income   float64
	Expenses float64
}

// CategoryAverage is a category's average monthly expense over the window.
type CategoryAverage struct {
	Name    string
	Average float64
}

// ForecastInput is the locally aggregated history the forecast is built from.
// Averages are means over the distinct months that actually have
// transactions, not over calendar months.
type ForecastInput struct {
	Months           []MonthTotal
	AvgIncome        float64
	AvgExpenses      float64
	CategoryAverages []CategoryAverage
}

// BuildForecastInput aggregates a transaction window into per-month totals
// and category averages. Returns nil when there are no transactions.
func BuildForecastInput(txs []models.Transaction) *ForecastInput {
	if len(txs) == 0 {
		return nil
	}

	monthSeries := BucketByMonth(txs)
	months := make([]MonthTotal, 0, len(monthSeries))
	var incomeSum, expenseSum float64
	for _, p := range monthSeries {
		months = append(months, MonthTotal{Month: p.Month, Income: p.Income, Expenses: p.Expenses})
		incomeSum += p.Income
		expenseSum += p.Expenses
	}
	n := float64(len(months))

	// Category totals across the whole window, averaged per observed month.
	totals := make(map[string]float64)
	for _, tx := range txs {
		if tx.Type != models.TypeExpense {
			continue
		}
		name := UncategorizedLabel
		if tx.Category != nil {
			name = tx.Category.Name
		}
		totals[name] += tx.Amount
	}
	averages := make([]CategoryAverage, 0, len(totals))
	for name, total := range totals {
		averages = append(averages, CategoryAverage{Name: name, Average: total / n})
	}
	sort.Slice(averages, func(i, j int) bool {
		if averages[i].Average != averages[j].Average {
			return averages[i].Average > averages[j].Average
		}
		return averages[i].Name < averages[j].Name
	})

	return &ForecastInput{
		Months:           months,
		AvgIncome:        incomeSum / n,
		AvgExpenses:      expenseSum / n,
		CategoryAverages: averages,
	}
}

// LoadForecastInput fetches the trailing three months of transactions and
// aggregates them. Returns nil input (no error) when the window is empty.
func LoadForecastInput(userID uint, now time.Time) (*ForecastInput, error) {
	start := now.AddDate(0, -3, 0)

	var txs []models.Transaction
	if err := database.DB.
		Preload("Category").
		Where("user_id = ? AND date >= ?", userID, start).
		Order("date DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return BuildForecastInput(txs), nil
}

// EmptyForecast is returned when the trailing window has no transactions.
func EmptyForecast() *Forecast {
	return &Forecast{
		Confidence: "low",
		Insights: []string{
			"Not enough data to generate a forecast. Add more transactions to get predictions.",
		},
		Recommendations:   []string{},
		CategoryBreakdown: []ForecastCategory{},
	}
}

// BuildForecastPrompt renders the history into the prompt sent to the text
// generator, asking for a JSON answer.
func BuildForecastPrompt(in *ForecastInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a financial forecasting AI. Based on the user's transaction history, provide a forecast for next month.\n\n")
	fmt.Fprintf(&b, "Historical Data (last %d months):\n", len(in.Months))
	for _, m := range in.Months {
		fmt.Fprintf(&b, "Month %s: Income: $%.2f, Expenses: $%.2f, Net: $%.2f\n",
			m.Month, m.Income, m.Expenses, m.Income-m.Expenses)
	}
	fmt.Fprintf(&b, "\nAverage Monthly Income: $%.2f\n", in.AvgIncome)
	fmt.Fprintf(&b, "Average Monthly Expenses: $%.2f\n", in.AvgExpenses)
	b.WriteString("\nAverage Expenses by Category:\n")
	for _, ca := range in.CategoryAverages {
		fmt.Fprintf(&b, "- %s: $%.2f\n", ca.Name, ca.Average)
	}
	b.WriteString(`
Based on this data, provide:
1. Predicted income for next month
2. Predicted expenses for next month
3. Key insights and trends you notice
4. Spending recommendations

Respond in JSON format:
{
  "predictedIncome": number,
  "predictedExpenses": number,
  "confidence": "high" | "medium" | "low",
  "insights": ["insight1", "insight2", ...],
  "recommendations": ["rec1", "rec2", ...]
}`)
	return b.String()
}

// StripCodeFences removes markdown code-fence markers that models often wrap
// JSON answers in.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// aiForecast is the only structure accepted from the text generator. Derived
// numbers (balance, category ranking) are never taken from it.
type aiForecast struct {
	PredictedIncome   float64  `json:"predictedIncome"`
	PredictedExpenses float64  `json:"predictedExpenses"`
	Confidence        string   `json:"confidence"`
	Insights          []string `json:"insights"`
	Recommendations   []string `json:"recommendations"`
}

// ParseForecastResponse parses the generator's reply after stripping code
// fences. Any structural mismatch is an error; the caller falls back to the
// deterministic forecast.
func ParseForecastResponse(raw string) (*Forecast, error) {
	cleaned := StripCodeFences(raw)

	var parsed aiForecast
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("parse forecast response: %w", err)
	}

	switch parsed.Confidence {
	case "high", "medium", "low":
	default:
		return nil, fmt.Errorf("parse forecast response: unknown confidence %q", parsed.Confidence)
	}

	return &Forecast{
		PredictedIncome:   parsed.PredictedIncome,
		PredictedExpenses: parsed.PredictedExpenses,
		Confidence:        parsed.Confidence,
		Insights:          parsed.Insights,
		Recommendations:   parsed.Recommendations,
	}, nil
}

// FallbackForecast is the deterministic forecast used when the generator's
// reply cannot be parsed: simple averages rounded to cents with templated
// narrative.
func FallbackForecast(in *ForecastInput) *Forecast {
	return &Forecast{
		PredictedIncome:   roundCents(in.AvgIncome),
		PredictedExpenses: roundCents(in.AvgExpenses),
		Confidence:        "medium",
		Insights: []string{
			fmt.Sprintf("Based on %d months of data, your average monthly income is $%.2f", len(in.Months), in.AvgIncome),
			fmt.Sprintf("Your average monthly expenses are $%.2f", in.AvgExpenses),
		},
		Recommendations: []string{
			"Continue tracking your transactions for more accurate forecasts",
		},
	}
}

// Finalize computes the derived fields locally: the balance from the
// predicted totals and the top five categories by average monthly spend. The
// generator is never trusted for either.
func (f *Forecast) Finalize(in *ForecastInput) {
	f.PredictedBalance = roundCents(f.PredictedIncome - f.PredictedExpenses)

	top := in.CategoryAverages
	if len(top) > 5 {
		top = top[:5]
	}
	f.CategoryBreakdown = make([]ForecastCategory, 0, len(top))
	for _, ca := range top {
		f.CategoryBreakdown = append(f.CategoryBreakdown, ForecastCategory{
			Name:            ca.Name,
			PredictedAmount: roundCents(ca.Average),
		})
	}
}

func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}
