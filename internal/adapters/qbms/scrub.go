package qbms

import (
	"regexp"
)

// scrubPlaceholder replaces redacted values. It contains no '<', so a
// second pass over already-scrubbed text matches nothing and the
// operation stays idempotent.
const scrubPlaceholder = "[FILTERED]"

// Sensitive fields are matched by their enclosing element name on the
// serialized payload, not on a parsed structure, so the same scrub covers
// outbound requests and inbound responses without reformatting either.
var scrubPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(<ConnectionTicket>)[^<]*(</ConnectionTicket>)`),
	regexp.MustCompile(`(<CreditCardNumber>)[^<]*(</CreditCardNumber>)`),
	regexp.MustCompile(`(<CardSecurityCode>)[^<]*(</CardSecurityCode>)`),
}

// Scrub returns a copy of a raw request or response payload with the
// connection ticket, card number and card security code values replaced
// by the placeholder. All surrounding content is left byte-identical.
func Scrub(payload string) string {
	for _, pattern := range scrubPatterns {
		payload = pattern.ReplaceAllString(payload, "${1}"+scrubPlaceholder+"${2}")
	}
	return payload
}
