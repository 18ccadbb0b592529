package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"serenicash/database"
	"serenicash/middleware"
	"serenicash/models"
	"serenicash/service"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams the user's transactions as CSV, Excel or PDF.
type ExportHandler struct{}

// NewExportHandler creates an export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// loadExportRange validates the date range from the query string and loads
// the matching transactions, newest first.
func (h *ExportHandler) loadExportRange(c *gin.Context) (txs []models.Transaction, startStr, endStr string, ok bool) {
	userID := middleware.GetCurrentUserID(c)

	startStr = c.Query("start_date")
	endStr = c.Query("end_date")
	if startStr == "" || endStr == "" {
		BadRequest(c, "start_date and end_date are required")
		return nil, "", "", false
	}

	startTime, endTime, err := parseDateRange(startStr, endStr)
	if err != nil {
		BadRequest(c, "Dates must be in 2006-01-02 format")
		return nil, "", "", false
	}

	if err := database.DB.
		Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, startTime, endTime).
		Order("date DESC").
		Find(&txs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load transactions"))
		return nil, "", "", false
	}

	return txs, startStr, endStr, true
}

func categoryName(tx *models.Transaction) string {
	if tx.Category != nil {
		return tx.Category.Name
	}
	return service.UncategorizedLabel
}

func exportTotals(txs []models.Transaction) (income, expenses float64) {
	for _, tx := range txs {
		if tx.Type == models.TypeIncome {
			income += tx.Amount
		} else {
			expenses += tx.Amount
		}
	}
	return income, expenses
}

// ExportCSV exports transactions as a CSV file.
// @Summary Export transactions as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string true "start date (2024-01-01)"
// @Param end_date query string true "end date (2024-12-31)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response "invalid date range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	txs, startStr, endStr, ok := h.loadExportRange(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM so Excel detects UTF-8.
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "Type", "Amount", "Category", "Description", "Date", "Created At"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	for _, tx := range txs {
		row := []string{
			fmt.Sprintf("%d", tx.ID),
			tx.Type,
			fmt.Sprintf("%.2f", tx.Amount),
			categoryName(&tx),
			tx.Description,
			tx.Date.Format("2006-01-02 15:04:05"),
			tx.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", startStr, endStr)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX exports transactions as a styled Excel workbook.
// @Summary Export transactions as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string true "start date (2024-01-01)"
// @Param end_date query string true "end date (2024-12-31)"
// @Success 200 {file} file "Excel file"
// @Failure 400 {object} Response "invalid date range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/xlsx [get]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	txs, startStr, endStr, ok := h.loadExportRange(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transactions"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 18)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 20)
	f.SetColWidth(sheetName, "G", "G", 20)

	headers := []string{"ID", "Type", "Amount", "Category", "Description", "Date", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, tx := range txs {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tx.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tx.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tx.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), categoryName(&tx))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), tx.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), tx.Date.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), tx.CreatedAt.Format("2006-01-02 15:04:05"))

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), dataStyle)
	}

	totalIncome, totalExpenses := exportTotals(txs)

	summaryRow := len(txs) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Total")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("B%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", summaryRow),
		fmt.Sprintf("Income: %.2f / Expenses: %.2f", totalIncome, totalExpenses))
	f.MergeCell(sheetName, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("E%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), fmt.Sprintf("%d record(s)", len(txs)))
	f.MergeCell(sheetName, fmt.Sprintf("F%d", summaryRow), fmt.Sprintf("G%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("G%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("transactions_%s_%s.xlsx", startStr, endStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "Failed to generate Excel file")
		return
	}
}

// ExportPDF exports transactions as a PDF report with a summary header.
// @Summary Export transactions as PDF
// @Tags export
// @Produce application/pdf
// @Security BearerAuth
// @Param start_date query string true "start date (2024-01-01)"
// @Param end_date query string true "end date (2024-12-31)"
// @Success 200 {file} file "PDF file"
// @Failure 400 {object} Response "invalid date range"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/pdf [get]
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	txs, startStr, endStr, ok := h.loadExportRange(c)
	if !ok {
		return
	}

	username := middleware.GetCurrentUsername(c)
	totalIncome, totalExpenses := exportTotals(txs)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("SereniCash - generated %s - page %d", time.Now().Format("2006-01-02"), pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Title block.
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 10, "SereniCash Transaction Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s | %s to %s", username, startStr, endStr), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Summary line.
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetFillColor(240, 240, 240)
	summary := fmt.Sprintf("Income: $%.2f    Expenses: $%.2f    Balance: $%.2f    Records: %d",
		totalIncome, totalExpenses, totalIncome-totalExpenses, len(txs))
	pdf.CellFormat(0, 8, summary, "1", 1, "C", true, 0, "")
	pdf.Ln(4)

	// Table header.
	colWidths := []float64{22, 18, 24, 36, 62, 28}
	headers := []string{"Date", "Type", "Amount", "Category", "Description", "Created"}
	writeHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(79, 129, 189)
		pdf.SetTextColor(255, 255, 255)
		for i, hd := range headers {
			pdf.CellFormat(colWidths[i], 7, hd, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	writeHeader()

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(33, 37, 41)
	fill := false
	for _, tx := range txs {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont("Arial", "", 8)
			pdf.SetTextColor(33, 37, 41)
		}

		pdf.SetFillColor(245, 245, 245)
		desc := tx.Description
		if len(desc) > 45 {
			desc = desc[:42] + "..."
		}

		pdf.CellFormat(colWidths[0], 6, tx.Date.Format("2006-01-02"), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[1], 6, tx.Type, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[2], 6, fmt.Sprintf("$%.2f", tx.Amount), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[3], 6, categoryName(&tx), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[4], 6, desc, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[5], 6, tx.CreatedAt.Format("2006-01-02"), "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)
		fill = !fill
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		InternalError(c, "Failed to generate PDF")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.pdf", startStr, endStr)
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
