package qbms

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paymentops/qbms-gateway/internal/adapters/ports"
	"github.com/paymentops/qbms-gateway/internal/domain"
	"github.com/paymentops/qbms-gateway/test/mocks"
)

// Shared fixtures for the package tests

const (
	testRequestID = "859e649c87f9ac698536"
	testAmount    = int64(100)
)

var testClock = func() time.Time {
	return time.Date(2012, 7, 6, 11, 48, 30, 0, time.UTC)
}

func testCard() domain.CreditCard {
	return domain.CreditCard{
		Number:            "4111111111111111",
		ExpMonth:          9,
		ExpYear:           2030,
		Name:              "Longbob Longsen",
		VerificationValue: "123",
	}
}

func testConfig() *Config {
	return &Config{
		Login:  "test",
		Ticket: "abc123",
		PEM:    "PEM",
		Mode:   ModeTest,
	}
}

// newTestGateway builds a gateway with deterministic clock and request id
func newTestGateway(t *testing.T, cfg *Config, poster ports.XMLPoster) *gateway {
	t.Helper()
	gw, err := NewGateway(cfg, poster, zap.NewNop())
	require.NoError(t, err)

	g := gw.(*gateway)
	g.clock = testClock
	g.requestID = func() string { return testRequestID }
	return g
}

func boolPtr(b bool) *bool {
	return &b
}

// wrapResponse builds a full response envelope around one operation
// response body, mirroring what the gateway sends back
func wrapResponse(opType string, signonCode, opCode int, inner string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<?qbmsxml version="4.0"?>
<QBMSXML>
  <SignonMsgsRs>
    <SignonAppCertRs statusSeverity="INFO" statusCode="%d" statusMessage="Status OK">
      <ServerDateTime>2010-02-25T01:49:29</ServerDateTime>
      <SessionTicket>abc123</SessionTicket>
    </SignonAppCertRs>
  </SignonMsgsRs>
  <QBMSXMLMsgsRs>
    <%[2]sRs statusCode="%[3]d" statusMessage="Status OK">
      %[4]s
    </%[2]sRs>
  </QBMSXMLMsgsRs>
</QBMSXML>`, signonCode, opType, opCode, inner)
}

// signonFailureResponse reports a signon-level failure; the gateway omits
// the operation segment entirely in this case
func signonFailureResponse(code int, message string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<?qbmsxml version="4.0"?>
<QBMSXML>
  <SignonMsgsRs>
    <SignonAppCertRs statusSeverity="ERROR" statusCode="%d" statusMessage="%s">
      <ServerDateTime>2010-02-25T01:49:29</ServerDateTime>
    </SignonAppCertRs>
  </SignonMsgsRs>
</QBMSXML>`, code, message)
}

func authorizationBody(avsStreet, avsZip, cvvMatch string) string {
	return fmt.Sprintf(`<CreditCardTransID>1000</CreditCardTransID>
      <AuthorizationCode>STRTYPE</AuthorizationCode>
      <AVSStreet>%s</AVSStreet>
      <AVSZip>%s</AVSZip>
      <CardSecurityCodeMatch>%s</CardSecurityCodeMatch>
      <ClientTransID>STRTYPE</ClientTransID>`, avsStreet, avsZip, cvvMatch)
}

func authorizationResponse() string {
	return wrapResponse("CustomerCreditCardAuth", 0, 0, authorizationBody("Pass", "Pass", "Pass"))
}

func chargeResponse() string {
	return wrapResponse("CustomerCreditCardCharge", 0, 0,
		authorizationBody("Pass", "Pass", "Pass")+`
      <MerchantAccountNumber>STRTYPE</MerchantAccountNumber>
      <ReconBatchID>STRTYPE</ReconBatchID>`)
}

func captureResponse() string {
	return wrapResponse("CustomerCreditCardCapture", 0, 0, `<CreditCardTransID>1000</CreditCardTransID>
      <AuthorizationCode>STRTYPE</AuthorizationCode>
      <MerchantAccountNumber>STRTYPE</MerchantAccountNumber>
      <ReconBatchID>STRTYPE</ReconBatchID>
      <ClientTransID>STRTYPE</ClientTransID>`)
}

func voidResponse() string {
	return wrapResponse("CustomerCreditCardTxnVoid", 0, 0, `<CreditCardTransID>1000</CreditCardTransID>
      <ClientTransID>STRTYPE</ClientTransID>`)
}

func refundResponse() string {
	return wrapResponse("CustomerCreditCardTxnVoidOrRefund", 0, 0, `<CreditCardTransID>1000</CreditCardTransID>
      <VoidOrRefundTxnType>STRTYPE</VoidOrRefundTxnType>
      <MerchantAccountNumber>STRTYPE</MerchantAccountNumber>
      <ReconBatchID>STRTYPE</ReconBatchID>
      <ClientTransID>STRTYPE</ClientTransID>`)
}

func queryResponse() string {
	return wrapResponse("MerchantAccountQuery", 0, 0, `<ConvenienceFees>0.0</ConvenienceFees>
      <CreditCardType>Visa</CreditCardType>
      <CreditCardType>MasterCard</CreditCardType>
      <IsCheckAccepted>true</IsCheckAccepted>`)
}

func newPosterWith(responses ...string) *mocks.MockPoster {
	return mocks.NewMockPoster(responses...)
}
