package qbms

import (
	"github.com/paymentops/qbms-gateway/internal/adapters/ports"
)

// Response fields consulted by the normalizer
const (
	fieldTransID     = "CreditCardTransID"
	fieldAVSStreet   = "AVSStreet"
	fieldAVSZip      = "AVSZip"
	fieldCSCodeMatch = "CardSecurityCodeMatch"
)

// Gateway verification vocabulary to standard single-character codes.
// These tables apply wherever the raw fields appear, regardless of
// operation type; any value outside the table maps to unknown.
var avsCodes = map[string]string{
	"Pass": ports.AVSMatch,
	"Fail": ports.AVSNoMatch,
}

var cvvCodes = map[string]string{
	"Pass":         ports.CVVMatch,
	"Fail":         ports.CVVNoMatch,
	"NotAvailable": ports.CVVNotAvailable,
}

// normalizeOutcome derives the caller-facing outcome from a parsed
// response envelope. Success requires both status codes to equal zero;
// a nonzero signon code fails the call regardless of the operation
// segment, and the failure message comes from the signon segment.
func normalizeOutcome(env *ResponseEnvelope, testMode bool) *ports.Outcome {
	signonOK := env.Signon.Code == statusOK
	success := signonOK && env.HasOperation && env.Operation.Code == statusOK

	message := env.Operation.Message
	if !signonOK {
		message = env.Signon.Message
	}

	outcome := &ports.Outcome{
		Success: success,
		Message: message,
		AVSResult: ports.AVSResult{
			StreetMatch: avsCodes[env.Fields[fieldAVSStreet]],
			PostalMatch: avsCodes[env.Fields[fieldAVSZip]],
		},
		CVVResult: ports.CVVResult{
			Code: cvvCodes[env.Fields[fieldCSCodeMatch]],
		},
		Fields:   env.Fields,
		TestMode: testMode,
	}

	if success {
		outcome.Authorization = env.Fields[fieldTransID]
	}

	return outcome
}
