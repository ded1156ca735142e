package api

import (
	"bytes"
	"fmt"
	"net/http"

	"cashbook/database"
	"cashbook/middleware"
	"cashbook/models"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// pdfRowLimit caps the document export at the first 200 transactions.
const pdfRowLimit = 200

// ExportHandler renders transaction reports.
type ExportHandler struct{}

// NewExportHandler creates the export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// ExportExcel emits a two-sheet workbook: every matching transaction and a
// per-kind total summary. Honors the same date filters as the listing view.
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	bizID := middleware.GetBusinessID(c)

	r := resolveDateFilter(c)

	query := database.DB.Preload("Category").Preload("CreatedBy").
		Where("business_id = ?", bizID)
	if r.From != nil {
		query = query.Where("date >= ?", r.From)
	}
	if r.To != nil {
		query = query.Where("date <= ?", r.To)
	}

	var transactions []models.Transaction
	if err := query.Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
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

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 15)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 20)
	f.SetColWidth(sheetName, "F", "F", 20)

	headers := []string{"Date", "Kind", "Amount", "Details", "Category", "Created By"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// Per-kind totals for the summary sheet; non-numeric amounts are listed
	// verbatim but excluded from the totals.
	totals := map[string]decimal.Decimal{}
	for i, tx := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tx.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tx.Kind)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tx.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), tx.Details)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), tx.Category.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), tx.CreatedBy.Username)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), dataStyle)

		if amount, ok := models.ParseAmount(tx.Amount); ok {
			totals[tx.Kind] = totals[tx.Kind].Add(amount)
		}
	}

	summarySheet := "Summary"
	f.NewSheet(summarySheet)
	f.SetColWidth(summarySheet, "A", "B", 15)
	f.SetCellValue(summarySheet, "A1", "Kind")
	f.SetCellValue(summarySheet, "B1", "Total Amount")
	f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)

	summaryRow := 2
	for _, kind := range []string{models.KindCashIn, models.KindCashOut} {
		total, ok := totals[kind]
		if !ok {
			continue
		}
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", summaryRow), kind)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", summaryRow), total.InexactFloat64())
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("B%d", summaryRow), dataStyle)
		summaryRow++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "generate workbook failed"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportPDF emits a fixed-layout report of the first 200 transactions by
// date ascending. Date and kind filters do not apply to this export.
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	bizID := middleware.GetBusinessID(c)

	var business models.Business
	if err := database.DB.First(&business, bizID).Error; err != nil {
		NotFound(c, "business not found")
		return
	}

	var transactions []models.Transaction
	if err := database.DB.Preload("Category").Preload("CreatedBy").
		Where("business_id = ?", bizID).
		Order("date ASC, id ASC").
		Limit(pdfRowLimit).
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Transactions Report (first %d)", pdfRowLimit), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, "Business: "+business.Name, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	colWidths := []float64{22, 25, 35, 25, 45, 35}
	headers := []string{"Date", "Kind", "Category", "Amount", "Details", "User"}

	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, tx := range transactions {
		row := []string{
			tx.Date.Format("2006-01-02"),
			tx.Kind,
			tx.Category.Name,
			tx.Amount,
			truncate(tx.Details, 20),
			tx.CreatedBy.Username,
		}
		for i, val := range row {
			pdf.CellFormat(colWidths[i], 7, truncate(val, 22), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		InternalError(c, SafeErrorMessage(err, "generate pdf failed"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transactions.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
