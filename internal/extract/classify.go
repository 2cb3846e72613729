package extract

import "strings"

// LeadType is the customer's side of the transaction.
type LeadType string

const (
	Buyer  LeadType = "Buyer"
	Seller LeadType = "Seller"
)

var sellerSignals = []string{"seller", "selling"}

// Classify returns Seller when the text mentions selling, Buyer otherwise.
// Buyer is the default, not an absence marker.
func Classify(text string) LeadType {
	lower := strings.ToLower(text)
	for _, s := range sellerSignals {
		if strings.Contains(lower, s) {
			return Seller
		}
	}
	return Buyer
}
