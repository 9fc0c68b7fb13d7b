package domain

// DocumentKind distinguishes invoices from purchase orders.
type DocumentKind string

const (
	KindInvoice       DocumentKind = "invoice"
	KindPurchaseOrder DocumentKind = "purchase_order"
)

// ValidKinds enumerates accepted document kinds.
var ValidKinds = map[DocumentKind]bool{
	KindInvoice:       true,
	KindPurchaseOrder: true,
}

// NumberPrefix returns the token embedded in the document number.
func (k DocumentKind) NumberPrefix() string {
	if k == KindPurchaseOrder {
		return "PO"
	}
	return "INV"
}

// Theme selects one of the fixed PDF visual themes.
type Theme string

const (
	ThemeCream  Theme = "cream"
	ThemePastel Theme = "pastel"
	ThemeMono   Theme = "mono"
)

// ValidThemes enumerates accepted themes.
var ValidThemes = map[Theme]bool{
	ThemeCream:  true,
	ThemePastel: true,
	ThemeMono:   true,
}
