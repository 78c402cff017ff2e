package domain

// Gateway field-length limits for billing address fields
const (
	MaxStreetLen     = 30
	MaxPostalCodeLen = 9
)

// BillingAddress carries the optional AVS inputs. Either field may be
// empty independently; empty fields are omitted from requests entirely.
type BillingAddress struct {
	Street     string
	PostalCode string
}

// Normalized returns a copy with each field truncated to the gateway's
// maximum length. Truncation keeps the leading characters and drops the
// remainder silently.
func (a BillingAddress) Normalized() BillingAddress {
	return BillingAddress{
		Street:     truncate(a.Street, MaxStreetLen),
		PostalCode: truncate(a.PostalCode, MaxPostalCodeLen),
	}
}

// IsEmpty returns true when no address field is populated
func (a BillingAddress) IsEmpty() bool {
	return a.Street == "" && a.PostalCode == ""
}

// truncate cuts to max characters, never bytes, so a multibyte value is
// never split mid-rune
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
