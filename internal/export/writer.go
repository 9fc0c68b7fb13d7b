// Package export writes ledger history as CSV or XLSX for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mariaherliana/invoice-creation/internal/domain"
)

// BOM is prepended to CSV output for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the export header row.
var columns = []string{
	"Number",
	"Kind",
	"Party Name",
	"Party Code",
	"Sequence",
	"Issue Date",
	"Due Date",
	"Theme",
	"Total",
	"Currency",
	"Bank",
	"Account Name",
	"Account No",
	"SWIFT",
	"PDF Locator",
	"Created At",
}

func row(doc *domain.Document) []string {
	due := ""
	if doc.DueDate != nil {
		due = doc.DueDate.Format("2006-01-02")
	}
	return []string{
		doc.Number,
		string(doc.Kind),
		doc.PartyName,
		doc.PartyCode,
		fmt.Sprintf("%d", doc.Sequence),
		doc.IssueDate.Format("2006-01-02"),
		due,
		string(doc.Theme),
		doc.Total.StringFixed(2),
		doc.CurrencySymbol,
		doc.Bank,
		doc.AccountName,
		doc.AccountNo,
		doc.Swift,
		doc.PDFLocator,
		doc.CreatedAt.Format(time.RFC3339),
	}
}

// WriteCSV writes the BOM, the header, and one row per document.
func WriteCSV(w io.Writer, docs []domain.Document) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range docs {
		if err := cw.Write(row(&docs[i])); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same table as a single-sheet workbook.
func WriteXLSX(w io.Writer, docs []domain.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Documents"
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range docs {
		cells := row(&docs[i])
		values := make([]interface{}, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
