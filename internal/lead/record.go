package lead

import (
	"github.com/dgallion1/leadgest/internal/extract"
)

// Record is one extracted lead. Nil fields serialize as JSON null; every key
// is always present, in this order.
type Record struct {
	Type    extract.LeadType `json:"type"`
	Name    *string          `json:"name"`
	Email   *string          `json:"email"`
	Phone   *string          `json:"phone"`
	Address *string          `json:"address"`
	Beds    *string          `json:"beds"`
	Baths   *string          `json:"baths"`
}

// Empty returns a record with only the default type set.
func Empty() Record {
	return Record{Type: extract.Buyer}
}

// HasContact reports whether an email or phone was extracted.
func (r Record) HasContact() bool {
	return r.Email != nil || r.Phone != nil
}

func optional(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}
