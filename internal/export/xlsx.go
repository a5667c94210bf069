// Package export renders reports into downloadable spreadsheet and PDF form.
package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
)

const dateLayout = "2006-01-02"

// TrialBalanceXLSX renders the trial balance rows into an xlsx workbook.
func TrialBalanceXLSX(rows []domain.TrialBalanceRow, debitTotal, creditTotal decimal.Decimal) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Trial Balance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Code", "Account", "Type", "Debit", "Credit"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		r := i + 2
		values := []interface{}{
			row.AccountCode,
			row.AccountName,
			string(row.AccountType),
			row.DebitTotal.InexactFloat64(),
			row.CreditTotal.InexactFloat64(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", r, err)
			}
		}
	}

	totalRow := len(rows) + 2
	cell, _ := excelize.CoordinatesToCellName(2, totalRow)
	_ = f.SetCellValue(sheet, cell, "Total")
	cell, _ = excelize.CoordinatesToCellName(4, totalRow)
	_ = f.SetCellValue(sheet, cell, debitTotal.InexactFloat64())
	cell, _ = excelize.CoordinatesToCellName(5, totalRow)
	_ = f.SetCellValue(sheet, cell, creditTotal.InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// PartyLedgerXLSX renders one party's ledger rows into an xlsx workbook.
func PartyLedgerXLSX(partyName string, rows []domain.PartyLedgerRow, closingBalance decimal.Decimal) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Party Ledger"
	f.SetSheetName("Sheet1", sheet)

	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("Ledger: %s", partyName)); err != nil {
		return nil, fmt.Errorf("failed to write title: %w", err)
	}

	headers := []string{"Date", "Source", "Description", "Debit", "Credit", "Balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		r := i + 3
		values := []interface{}{
			row.PostingDate.Format(dateLayout),
			string(row.SourceType),
			row.Description,
			row.Debit.InexactFloat64(),
			row.Credit.InexactFloat64(),
			row.Balance.InexactFloat64(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", r, err)
			}
		}
	}

	totalRow := len(rows) + 3
	cell, _ := excelize.CoordinatesToCellName(3, totalRow)
	_ = f.SetCellValue(sheet, cell, "Closing balance")
	cell, _ = excelize.CoordinatesToCellName(6, totalRow)
	_ = f.SetCellValue(sheet, cell, closingBalance.InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
