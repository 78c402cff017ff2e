package qbms

import (
	"encoding/xml"
	"strconv"
	"strings"

	pkgerrors "github.com/paymentops/qbms-gateway/pkg/errors"
)

// Success value shared by both status layers of the response envelope
const statusOK = 0

// SignonStatus is the session-level status reported by the signon segment.
// It is evaluated before any operation-specific outcome is considered
// valid.
type SignonStatus struct {
	Code     int
	Severity string
	Message  string
}

// OperationStatus is the status reported by the operation response segment
type OperationStatus struct {
	Code    int
	Message string
}

// ResponseEnvelope is the structured view of a gateway response: the two
// nested status readings plus every leaf field of the operation segment.
type ResponseEnvelope struct {
	Signon       SignonStatus
	Operation    OperationStatus
	HasOperation bool

	// Fields maps operation response element names to their text values.
	// Unknown elements are preserved, not rejected.
	Fields map[string]string
}

// Raw unmarshal targets. The signon and message sections each hold one
// response element whose name varies (SignonDesktopRs, SignonAppCertRs,
// CustomerCreditCardChargeRs, ...), so both are captured with ",any".
type envelopeRs struct {
	XMLName xml.Name      `xml:"QBMSXML"`
	Signon  *signonMsgsRs `xml:"SignonMsgsRs"`
	Msgs    *msgsRs       `xml:"QBMSXMLMsgsRs"`
}

type signonMsgsRs struct {
	Responses []statusRs `xml:",any"`
}

type msgsRs struct {
	Responses []statusRs `xml:",any"`
}

type statusRs struct {
	XMLName        xml.Name
	StatusCode     string      `xml:"statusCode,attr"`
	StatusSeverity string      `xml:"statusSeverity,attr"`
	StatusMessage  string      `xml:"statusMessage,attr"`
	Fields         []leafField `xml:",any"`
}

type leafField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// parseResponse turns raw response XML into a ResponseEnvelope. The
// operation segment may be entirely absent (the gateway omits it when
// signon fails); a missing signon segment or a malformed status code is a
// ParseError.
func parseResponse(raw string) (*ResponseEnvelope, error) {
	var decoded envelopeRs
	if err := xml.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, pkgerrors.NewParseError("malformed XML", err)
	}

	if decoded.Signon == nil || len(decoded.Signon.Responses) == 0 {
		return nil, pkgerrors.NewParseError("missing signon segment", nil)
	}

	signon := decoded.Signon.Responses[0]
	signonCode, err := parseStatusCode(signon.StatusCode)
	if err != nil {
		return nil, pkgerrors.NewParseError("signon statusCode is not numeric", err)
	}

	env := &ResponseEnvelope{
		Signon: SignonStatus{
			Code:     signonCode,
			Severity: signon.StatusSeverity,
			Message:  signon.StatusMessage,
		},
		Fields: make(map[string]string),
	}

	if decoded.Msgs == nil || len(decoded.Msgs.Responses) == 0 {
		return env, nil
	}

	op := decoded.Msgs.Responses[0]
	opCode, err := parseStatusCode(op.StatusCode)
	if err != nil {
		return nil, pkgerrors.NewParseError("operation statusCode is not numeric", err)
	}

	env.HasOperation = true
	env.Operation = OperationStatus{
		Code:    opCode,
		Message: op.StatusMessage,
	}
	for _, f := range op.Fields {
		env.Fields[f.XMLName.Local] = strings.TrimSpace(f.Value)
	}

	return env, nil
}

// parseStatusCode converts a statusCode attribute value to an integer.
// An absent or non-numeric attribute is an error rather than a guessed
// default.
func parseStatusCode(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
