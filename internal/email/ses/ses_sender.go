package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/mariaherliana/invoice-creation/internal/domain"
	"github.com/mariaherliana/invoice-creation/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendDocumentIssued(ctx context.Context, toEmail string, doc *domain.Document, downloadURL string) error {
	kindLabel := "Invoice"
	if doc.Kind == domain.KindPurchaseOrder {
		kindLabel = "Purchase Order"
	}

	subject := fmt.Sprintf("%s %s from %s", kindLabel, doc.Number, doc.IssuerName)
	textBody := fmt.Sprintf(
		"Hi %s,\n\n%s %s dated %s has been issued for a total of %s %s.\n\nDownload the PDF here:\n%s\n\n%s",
		doc.PartyName, kindLabel, doc.Number,
		doc.IssueDate.Format("02-Jan-2006"),
		doc.CurrencySymbol, doc.Total.StringFixed(0),
		downloadURL, doc.IssuerName,
	)
	htmlBody := buildIssuedHTML(kindLabel, doc, downloadURL)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildIssuedHTML(kindLabel string, doc *domain.Document, downloadURL string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:sans-serif;max-width:560px;margin:0 auto">`)
	fmt.Fprintf(&b, "<h2>%s %s</h2>", kindLabel, doc.Number)
	fmt.Fprintf(&b, "<p>Hi %s,</p>", doc.PartyName)
	fmt.Fprintf(&b, "<p>%s <strong>%s</strong> dated %s has been issued for a total of <strong>%s %s</strong>.</p>",
		kindLabel, doc.Number, doc.IssueDate.Format("02-Jan-2006"),
		doc.CurrencySymbol, doc.Total.StringFixed(0))
	fmt.Fprintf(&b, `<p><a href="%s">Download PDF</a></p>`, downloadURL)
	fmt.Fprintf(&b, "<p>%s</p>", doc.IssuerName)
	b.WriteString("</div>")
	return b.String()
}
