package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"pennyplan/internal/calendar"
	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/models"
	"pennyplan/internal/money"
)

const (
	summarySheet      = "Summary"
	comparisonSheet   = "Comparison"
	transactionsSheet = "Transactions"
)

// exportService renders period reports as XLSX workbooks.
type exportService struct {
	db         *gorm.DB
	aggregator AggregatorServicer
}

// NewExportService creates a new ExportServicer.
func NewExportService(db *gorm.DB, aggregator AggregatorServicer) ExportServicer {
	return &exportService{db: db, aggregator: aggregator}
}

func cellBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

// ExportPeriodXLSX builds a workbook with the period's summary, the
// per-category comparison and its transactions. Amounts are major units.
func (s *exportService) ExportPeriodXLSX(ctx context.Context, budgetID, periodID string) ([]byte, error) {
	var period models.Period
	if err := s.db.WithContext(ctx).Where("id = ? AND budget_id = ?", periodID, budgetID).First(&period).Error; err != nil {
		return nil, storeError(err, apperrors.ErrPeriodNotFound)
	}

	summary, err := s.aggregator.Summary(ctx, periodID)
	if err != nil {
		return nil, err
	}
	comparison, err := s.aggregator.Comparison(ctx, periodID)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).Where("period_id = ?", periodID).Order("date ASC, id ASC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	names := make(map[string]string, len(comparison))
	for _, row := range comparison {
		names[row.CategoryID] = row.CategoryName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, name := range []string{comparisonSheet, transactionsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder(),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	overStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Color: "C00000"},
		Border: cellBorder(),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows := [][]any{
		{"Period", fmt.Sprintf("%s..%s", period.StartDate, period.EndDate)},
		{"Status", string(period.Status)},
		{"Planned income", summary.PlannedIncome.Major()},
		{"Planned expense", summary.PlannedExpense.Major()},
		{"Actual income", summary.ActualIncome.Major()},
		{"Actual expense", summary.ActualExpense.Major()},
		{"Remaining", summary.Remaining.Major()},
		{"Net planned", summary.NetPlanned.Major()},
		{"Net actual", summary.NetActual.Major()},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	f.SetColWidth(summarySheet, "A", "A", 18)
	f.SetColWidth(summarySheet, "B", "B", 24)

	if err := writeHeader(f, comparisonSheet, headerStyle, "Category", "Type", "Planned", "Actual", "Remaining", "Used %", "Over budget"); err != nil {
		return nil, err
	}
	for i, c := range comparison {
		row := []any{c.CategoryName, string(c.Type), c.Planned.Major(), c.Actual.Major(), c.Remaining.Major(), c.PercentageUsed * 100, c.IsOverBudget}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(comparisonSheet, cell, &row); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if c.IsOverBudget {
			f.SetCellStyle(comparisonSheet, cell, fmt.Sprintf("G%d", i+2), overStyle)
		}
	}
	f.SetColWidth(comparisonSheet, "A", "A", 24)
	f.SetColWidth(comparisonSheet, "B", "G", 14)

	if err := writeHeader(f, transactionsSheet, headerStyle, "Date", "Category", "Type", "Amount", "Notes"); err != nil {
		return nil, err
	}
	for i, t := range transactions {
		row := []any{calendar.FormatDate(t.Date), names[t.CategoryID], string(t.Type), money.Cents(t.AmountCents).Major(), t.Notes}
		if err := f.SetSheetRow(transactionsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	f.SetColWidth(transactionsSheet, "A", "C", 14)
	f.SetColWidth(transactionsSheet, "E", "E", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, style int, headers ...string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	return nil
}
