// Package pdf renders issued documents as themed A4 PDFs.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/mariaherliana/invoice-creation/internal/domain"
	"github.com/mariaherliana/invoice-creation/internal/port"
)

const (
	pageWidth  = 210.0 // A4 portrait, mm
	pageHeight = 297.0
	marginLeft = 20.0
	marginTop  = 20.0
	// below this y position the item table breaks to a new page
	pageBreakAt = pageHeight - 40.0
)

type renderer struct{}

// NewRenderer creates the gofpdf-backed Renderer.
func NewRenderer() port.Renderer {
	return &renderer{}
}

// Render produces the PDF for a numbered document. Output is
// deterministic for identical input: the embedded creation date is
// pinned to the document's own timestamp.
func (r *renderer) Render(doc *domain.Document, items []domain.LineItem) ([]byte, error) {
	p := paletteFor(doc.Theme)
	usable := pageWidth - 2*marginLeft

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(doc.CreatedAt)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(p.headerBg.r, p.headerBg.g, p.headerBg.b)
	pdf.Rect(marginLeft, marginTop, usable, 30, "F")

	title, noLabel := "INVOICE", "Invoice No."
	if doc.Kind == domain.KindPurchaseOrder {
		title, noLabel = "PURCHASE ORDER", "PO No."
	}
	pdf.SetTextColor(p.text.r, p.text.g, p.text.b)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(marginLeft+6, marginTop+10, title)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(marginLeft+6, marginTop+16, fmt.Sprintf("%s : %s", noLabel, doc.Number))
	pdf.Text(marginLeft+6, marginTop+21, "Date : "+doc.IssueDate.Format("02-Jan-2006"))
	if doc.DueDate != nil {
		pdf.Text(marginLeft+6, marginTop+26, "Due Date : "+doc.DueDate.Format("02-Jan-2006"))
	}

	// Issuer block
	y := marginTop + 40.0
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(marginLeft, y, "FROM:")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(marginLeft, y+6, doc.IssuerName)
	pdf.Text(marginLeft, y+12, doc.IssuerAddress)

	// Party block
	y += 26
	pdf.SetFont("Helvetica", "B", 11)
	if doc.Kind == domain.KindPurchaseOrder {
		pdf.Text(marginLeft, y, "VENDOR:")
	} else {
		pdf.Text(marginLeft, y, "BILL TO:")
	}
	pdf.SetFont("Helvetica", "", 10)
	y += 6
	pdf.Text(marginLeft, y, doc.PartyName)
	if doc.PartyAddress != "" {
		y += 6
		pdf.Text(marginLeft, y, doc.PartyAddress)
	}

	// Item table header
	y += 10
	pdf.SetDrawColor(p.accent.r, p.accent.g, p.accent.b)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, y, marginLeft+usable, y)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(marginLeft, y+8, "No")
	pdf.Text(marginLeft+8, y+8, "Item Description")
	pdf.Text(marginLeft+usable-36, y+8, fmt.Sprintf("Amount (%s)", doc.CurrencySymbol))

	pdf.SetFont("Helvetica", "", 10)
	y += 16
	for i, it := range items {
		if y > pageBreakAt {
			pdf.AddPage()
			y = marginTop + 20
		}
		pdf.Text(marginLeft, y, fmt.Sprintf("%d", i+1))
		desc := it.Name
		if it.Description != "" {
			desc += " - " + it.Description
		}
		y = writeWrapped(pdf, desc, marginLeft+8, y, usable*0.65)
		amountRight(pdf, marginLeft+usable-6, y, it.Amount.StringFixed(0))
		y += 8
	}

	// Total
	y += 6
	pdf.SetFont("Helvetica", "B", 11)
	amountRight(pdf, marginLeft+usable-6, y, fmt.Sprintf("TOTAL (%s %s)", doc.CurrencySymbol, doc.Total.StringFixed(0)))
	y += 10

	if y > pageBreakAt {
		pdf.AddPage()
		y = marginTop + 20
	}

	// Remittance (invoices) or issuer reference (purchase orders)
	pdf.SetFont("Helvetica", "B", 10)
	if doc.Kind == domain.KindPurchaseOrder {
		pdf.Text(marginLeft, y, "ISSUER INFORMATION")
		pdf.SetFont("Helvetica", "", 9)
		y += 6
		pdf.Text(marginLeft, y, "Issued By : "+doc.IssuerName)
		y += 5
		pdf.Text(marginLeft, y, "Address : "+doc.IssuerAddress)
	} else {
		pdf.Text(marginLeft, y, "REMITTANCE INFORMATION")
		pdf.SetFont("Helvetica", "", 9)
		y += 6
		pdf.Text(marginLeft, y, "Bank Account : "+doc.Bank)
		y += 5
		pdf.Text(marginLeft, y, "Account Name : "+doc.AccountName)
		y += 5
		pdf.Text(marginLeft, y, "Account No : "+doc.AccountNo)
		y += 5
		pdf.Text(marginLeft, y, "SWIFT Code : "+doc.Swift)
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Text(marginLeft, pageHeight-18, "Generated by Invoice Maker")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// writeWrapped draws text wrapped to maxWidth and returns the y of the
// last written line.
func writeWrapped(pdf *gofpdf.Fpdf, text string, x, y, maxWidth float64) float64 {
	lines := pdf.SplitText(text, maxWidth)
	for i, ln := range lines {
		if i > 0 {
			y += 4.5
		}
		pdf.Text(x, y, ln)
	}
	return y
}

// amountRight draws text right-aligned ending at x.
func amountRight(pdf *gofpdf.Fpdf, x, y float64, text string) {
	pdf.Text(x-pdf.GetStringWidth(text), y, text)
}
