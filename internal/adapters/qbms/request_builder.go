package qbms

import (
	"encoding/xml"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/paymentops/qbms-gateway/pkg/errors"
)

// Protocol version spoken by this adapter
const apiVersion = "4.0"

// xmlHeader precedes every request document. The qbmsxml processing
// instruction carries the protocol version the gateway should apply.
const xmlHeader = `<?xml version="1.0" encoding="utf-8"?><?qbmsxml version="` + apiVersion + `"?>`

// Envelope structure. Field order matters: the gateway validates requests
// against a DTD with fixed element ordering.
type envelopeRq struct {
	XMLName xml.Name     `xml:"QBMSXML"`
	Signon  signonMsgsRq `xml:"SignonMsgsRq"`
	Msgs    msgsRq       `xml:"QBMSXMLMsgsRq"`
}

type signonMsgsRq struct {
	Desktop *signonRq `xml:"SignonDesktopRq,omitempty"`
	AppCert *signonRq `xml:"SignonAppCertRq,omitempty"`
}

type signonRq struct {
	ClientDateTime   string `xml:"ClientDateTime"`
	ApplicationLogin string `xml:"ApplicationLogin"`
	ConnectionTicket string `xml:"ConnectionTicket"`
}

type msgsRq struct {
	// Element name comes from the XMLName value set per operation
	Body operationRq
}

// operationRq covers the union of request bodies. Every operation uses a
// subset; omitempty keeps absent fields off the wire entirely, which the
// gateway requires (empty elements are rejected).
type operationRq struct {
	XMLName              xml.Name
	TransRequestID       string `xml:"TransRequestID,omitempty"`
	CreditCardTransID    string `xml:"CreditCardTransID,omitempty"`
	CreditCardNumber     string `xml:"CreditCardNumber,omitempty"`
	ExpirationMonth      int    `xml:"ExpirationMonth,omitempty"`
	ExpirationYear       int    `xml:"ExpirationYear,omitempty"`
	IsECommerce          string `xml:"IsECommerce,omitempty"`
	Amount               string `xml:"Amount,omitempty"`
	NameOnCard           string `xml:"NameOnCard,omitempty"`
	CreditCardAddress    string `xml:"CreditCardAddress,omitempty"`
	CreditCardPostalCode string `xml:"CreditCardPostalCode,omitempty"`
	CardSecurityCode     string `xml:"CardSecurityCode,omitempty"`
}

// buildRequest assembles the full XML document for an operation. Returns
// a BuildError before any network activity if a required field is missing.
func (g *gateway) buildRequest(req *operationRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	signon := &signonRq{
		ClientDateTime:   g.clock().Format(time.RFC3339),
		ApplicationLogin: g.config.Login,
		ConnectionTicket: g.config.Ticket,
	}

	env := envelopeRq{}
	if g.config.PEM != "" {
		env.Signon.AppCert = signon
	} else {
		env.Signon.Desktop = signon
	}

	body := operationRq{
		XMLName: xml.Name{Local: requestTypes[req.Operation] + "Rq"},
	}

	// The account query request body is empty by protocol definition
	if req.Operation != OpQuery {
		orderID := req.OrderID
		if orderID == "" {
			orderID = g.requestID()
		}
		body.TransRequestID = orderID
	}

	if req.needsAmount() {
		body.Amount = formatAmount(req.Amount)
	}

	switch {
	case req.needsCard():
		body.CreditCardNumber = req.Card.Number
		body.ExpirationMonth = req.Card.ExpMonth
		body.ExpirationYear = req.Card.ExpYear
		body.IsECommerce = "true"
		body.NameOnCard = req.Card.Name
		body.CardSecurityCode = req.Card.VerificationValue
		if req.Address != nil && !req.Address.IsEmpty() {
			addr := req.Address.Normalized()
			body.CreditCardAddress = addr.Street
			body.CreditCardPostalCode = addr.PostalCode
		}
	case req.Reference != "":
		body.CreditCardTransID = req.Reference
	}

	env.Msgs.Body = body

	out, err := xml.Marshal(env)
	if err != nil {
		return "", pkgerrors.NewBuildError(string(req.Operation), "", err.Error())
	}

	return xmlHeader + string(out), nil
}

// formatAmount renders a minor-unit integer amount as the fixed-point
// major-unit decimal string the gateway expects (e.g. 100 -> "1.00")
func formatAmount(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
