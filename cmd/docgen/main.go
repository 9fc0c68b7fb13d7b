// Command docgen renders documents offline, without the server, the
// database, or object storage. Useful for previewing themes and
// checking number derivation.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mariaherliana/invoice-creation/internal/docnum"
	"github.com/mariaherliana/invoice-creation/internal/domain"
	"github.com/mariaherliana/invoice-creation/internal/render/pdf"
)

var rootCmd = &cobra.Command{
	Use:   "docgen",
	Short: "Offline invoice and purchase order tooling",
}

var (
	renderTheme string
	renderOut   string
	renderSeq   int
)

var renderCmd = &cobra.Command{
	Use:   "render [draft.json]",
	Short: "Render a PDF from a JSON draft file",
	Long: `Render a themed PDF from a draft file without touching the
database or object storage. The sequence number is taken from --seq
since no ledger is available offline; the resulting PDF is a preview,
not an issued document.`,
	Example: `  docgen render draft.json --theme pastel --out preview.pdf
  docgen render draft.json --seq 7`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var numberCmd = &cobra.Command{
	Use:   "number [party name]",
	Short: "Preview the party code and document number for a name",
	Example: `  docgen number "Maria Herliana" --seq 2
  docgen number Madonna --kind purchase_order`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNumber,
}

var (
	numberSeq  int
	numberKind string
	numberDate string
)

func init() {
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "override the draft's theme (cream, pastel, mono)")
	renderCmd.Flags().StringVar(&renderOut, "out", "preview.pdf", "output file path")
	renderCmd.Flags().IntVar(&renderSeq, "seq", 1, "sequence number to embed")

	numberCmd.Flags().IntVar(&numberSeq, "seq", 1, "sequence number")
	numberCmd.Flags().StringVar(&numberKind, "kind", "invoice", "document kind (invoice, purchase_order)")
	numberCmd.Flags().StringVar(&numberDate, "date", "", "issue date as YYYY-MM-DD (default today)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(numberCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading draft: %w", err)
	}

	var draft domain.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return fmt.Errorf("parsing draft: %w", err)
	}
	if draft.Kind == "" {
		draft.Kind = domain.KindInvoice
	}
	if renderTheme != "" {
		draft.Theme = domain.Theme(renderTheme)
	}
	if !domain.ValidThemes[draft.Theme] {
		draft.Theme = domain.ThemeCream
	}
	if draft.IssueDate.IsZero() {
		draft.IssueDate = time.Now()
	}
	if draft.CurrencySymbol == "" {
		draft.CurrencySymbol = "Rp"
	}

	code := docnum.DeriveCode(draft.PartyName)
	number := docnum.Format(draft.Kind.NumberPrefix(), code, renderSeq, draft.IssueDate)

	doc := &domain.Document{
		ID:             uuid.New(),
		Kind:           draft.Kind,
		PartyName:      draft.PartyName,
		PartyCode:      code,
		PartyAddress:   draft.PartyAddress,
		IssuerName:     draft.IssuerName,
		IssuerAddress:  draft.IssuerAddress,
		Sequence:       renderSeq,
		IssueYear:      draft.IssueDate.Year(),
		Number:         number,
		IssueDate:      draft.IssueDate,
		DueDate:        draft.DueDate,
		Theme:          draft.Theme,
		Total:          draft.Total(),
		CurrencySymbol: draft.CurrencySymbol,
		Bank:           draft.Remittance.Bank,
		AccountName:    draft.Remittance.AccountName,
		AccountNo:      draft.Remittance.AccountNo,
		Swift:          draft.Remittance.Swift,
		CreatedAt:      time.Now().UTC(),
	}

	data, err := pdf.NewRenderer().Render(doc, draft.Items)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	if err := os.WriteFile(renderOut, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", renderOut, err)
	}

	fmt.Printf("rendered %s (%d bytes) as %s\n", number, len(data), renderOut)
	return nil
}

func runNumber(cmd *cobra.Command, args []string) error {
	name := ""
	for i, a := range args {
		if i > 0 {
			name += " "
		}
		name += a
	}

	kind := domain.DocumentKind(numberKind)
	if !domain.ValidKinds[kind] {
		return fmt.Errorf("kind must be invoice or purchase_order")
	}

	date := time.Now()
	if numberDate != "" {
		var err error
		date, err = time.Parse("2006-01-02", numberDate)
		if err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD")
		}
	}

	code := docnum.DeriveCode(name)
	fmt.Printf("party code : %s\n", code)
	fmt.Printf("number     : %s\n", docnum.Format(kind.NumberPrefix(), code, numberSeq, date))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
