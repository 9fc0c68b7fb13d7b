package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RemittanceInfo holds the bank details printed on an invoice.
type RemittanceInfo struct {
	Bank        string `db:"bank" json:"bank"`
	AccountName string `db:"account_name" json:"account_name"`
	AccountNo   string `db:"account_no" json:"account_no"`
	Swift       string `db:"swift" json:"swift"`
}

// Empty reports whether no remittance field is set.
func (r RemittanceInfo) Empty() bool {
	return r == RemittanceInfo{}
}

// LineItem is a single priced row on a draft. Line items are not
// persisted individually; only the total and the rendered PDF carry
// them forward.
type LineItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Draft is the request-scoped input for one document generation. It is
// discarded after submission; the ledger record is the durable copy.
type Draft struct {
	Kind           DocumentKind   `json:"kind"`
	PartyName      string         `json:"party_name"`
	PartyAddress   string         `json:"party_address"`
	PartyEmail     string         `json:"party_email"`
	IssuerName     string         `json:"issuer_name"`
	IssuerAddress  string         `json:"issuer_address"`
	IssueDate      time.Time      `json:"issue_date"`
	DueDate        *time.Time     `json:"due_date,omitempty"`
	Theme          Theme          `json:"theme"`
	CurrencySymbol string         `json:"currency_symbol"`
	Items          []LineItem     `json:"items"`
	Remittance     RemittanceInfo `json:"remittance"`
}

// Total sums the line item amounts.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.Amount)
	}
	return total
}

// Document is one issued invoice or purchase order as recorded in the
// ledger. Created exactly once at generation time, immutable after.
type Document struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Kind           DocumentKind    `db:"kind" json:"kind"`
	PartyName      string          `db:"party_name" json:"party_name"`
	PartyCode      string          `db:"party_code" json:"party_code"`
	PartyAddress   string          `db:"party_address" json:"party_address"`
	IssuerName     string          `db:"issuer_name" json:"issuer_name"`
	IssuerAddress  string          `db:"issuer_address" json:"issuer_address"`
	Sequence       int             `db:"sequence" json:"sequence"`
	IssueYear      int             `db:"issue_year" json:"issue_year"`
	Number         string          `db:"number" json:"number"`
	IssueDate      time.Time       `db:"issue_date" json:"issue_date"`
	DueDate        *time.Time      `db:"due_date" json:"due_date,omitempty"`
	Theme          Theme           `db:"theme" json:"theme"`
	Total          decimal.Decimal `db:"total" json:"total"`
	CurrencySymbol string          `db:"currency_symbol" json:"currency_symbol"`
	Bank           string          `db:"bank" json:"bank"`
	AccountName    string          `db:"account_name" json:"account_name"`
	AccountNo      string          `db:"account_no" json:"account_no"`
	Swift          string          `db:"swift" json:"swift"`
	PDFBucket      string          `db:"pdf_bucket" json:"-"`
	PDFKey         string          `db:"pdf_key" json:"-"`
	PDFLocator     string          `db:"pdf_locator" json:"pdf_locator"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Remittance reassembles the remittance block from the flat columns.
func (d *Document) Remittance() RemittanceInfo {
	return RemittanceInfo{
		Bank:        d.Bank,
		AccountName: d.AccountName,
		AccountNo:   d.AccountNo,
		Swift:       d.Swift,
	}
}
