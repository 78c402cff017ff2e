package qbms

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/paymentops/qbms-gateway/internal/adapters/ports"
	"github.com/paymentops/qbms-gateway/internal/domain"
	pkgerrors "github.com/paymentops/qbms-gateway/pkg/errors"
	"github.com/paymentops/qbms-gateway/test/mocks"
)

func TestNewGateway_Validation(t *testing.T) {
	poster := mocks.NewMockPoster()

	_, err := NewGateway(&Config{Ticket: "abc123"}, poster, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login")

	_, err = NewGateway(&Config{Login: "test"}, poster, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticket")

	gw, err := NewGateway(testConfig(), poster, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, gw)
}

func TestGateway_EndpointSelection(t *testing.T) {
	tests := []struct {
		name         string
		mode         string
		test         *bool
		wantEndpoint string
	}{
		{name: "test mode", mode: ModeTest, wantEndpoint: TestURL},
		{name: "live mode", mode: ModeLive, wantEndpoint: LiveURL},
		{name: "explicit test flag overrides live mode", mode: ModeLive, test: boolPtr(true), wantEndpoint: TestURL},
		{name: "explicit live flag overrides test mode", mode: ModeTest, test: boolPtr(false), wantEndpoint: LiveURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poster := newPosterWith(queryResponse())
			cfg := testConfig()
			cfg.Mode = tt.mode
			cfg.Test = tt.test
			g := newTestGateway(t, cfg, poster)

			outcome, err := g.Query(context.Background(), ports.Options{})

			require.NoError(t, err)
			assert.Equal(t, tt.wantEndpoint, poster.LastCall().Endpoint)
			assert.Equal(t, tt.wantEndpoint == TestURL, outcome.TestMode)
		})
	}
}

func TestGateway_AuthorizeSuccess(t *testing.T) {
	poster := newPosterWith(authorizationResponse())
	g := newTestGateway(t, testConfig(), poster)

	outcome, err := g.Authorize(context.Background(), testAmount, testCard(), ports.Options{})

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "1000", outcome.Authorization)
	assert.Equal(t, ports.AVSMatch, outcome.AVSResult.StreetMatch)
	assert.Equal(t, ports.CVVMatch, outcome.CVVResult.Code)

	payload := poster.LastCall().Payload
	assert.Contains(t, payload, "<CustomerCreditCardAuthRq>")
	assert.Contains(t, payload, "<Amount>1.00</Amount>")
}

func TestGateway_PurchaseSuccess(t *testing.T) {
	poster := newPosterWith(chargeResponse())
	g := newTestGateway(t, testConfig(), poster)

	outcome, err := g.Purchase(context.Background(), testAmount, testCard(), ports.Options{
		BillingAddress: &domain.BillingAddress{Street: "1234 My Street", PostalCode: "K1C2N6"},
	})

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "1000", outcome.Authorization)
	assert.Equal(t, "STRTYPE", outcome.Fields["ReconBatchID"])

	payload := poster.LastCall().Payload
	assert.Contains(t, payload, "<CustomerCreditCardChargeRq>")
	assert.Contains(t, payload, "<CreditCardAddress>1234 My Street</CreditCardAddress>")
	assert.Contains(t, payload, "<CreditCardPostalCode>K1C2N6</CreditCardPostalCode>")
}

func TestGateway_CaptureVoidRefund(t *testing.T) {
	tests := []struct {
		name     string
		response string
		call     func(g *gateway) (*ports.Outcome, error)
		wantTag  string
	}{
		{
			name:     "capture",
			response: captureResponse(),
			call: func(g *gateway) (*ports.Outcome, error) {
				return g.Capture(context.Background(), testAmount, "1000", ports.Options{})
			},
			wantTag: "<CustomerCreditCardCaptureRq>",
		},
		{
			name:     "void",
			response: voidResponse(),
			call: func(g *gateway) (*ports.Outcome, error) {
				return g.Void(context.Background(), "1000", ports.Options{})
			},
			wantTag: "<CustomerCreditCardTxnVoidRq>",
		},
		{
			name:     "refund",
			response: refundResponse(),
			call: func(g *gateway) (*ports.Outcome, error) {
				return g.Refund(context.Background(), testAmount, "1000", ports.Options{})
			},
			wantTag: "<CustomerCreditCardTxnVoidOrRefundRq>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poster := newPosterWith(tt.response)
			g := newTestGateway(t, testConfig(), poster)

			outcome, err := tt.call(g)

			require.NoError(t, err)
			assert.True(t, outcome.Success)
			assert.Equal(t, "1000", outcome.Authorization)

			payload := poster.LastCall().Payload
			assert.Contains(t, payload, tt.wantTag)
			assert.Contains(t, payload, "<CreditCardTransID>1000</CreditCardTransID>")
			assert.NotContains(t, payload, "<CreditCardNumber>")
		})
	}
}

func TestGateway_QuerySuccess(t *testing.T) {
	poster := newPosterWith(queryResponse())
	g := newTestGateway(t, testConfig(), poster)

	outcome, err := g.Query(context.Background(), ports.Options{})

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "0.0", outcome.Fields["ConvenienceFees"])
	assert.Equal(t, "true", outcome.Fields["IsCheckAccepted"])
	assert.Contains(t, poster.LastCall().Payload, "<MerchantAccountQueryRq></MerchantAccountQueryRq>")
}

func TestGateway_OperationDecline(t *testing.T) {
	response := wrapResponse("CustomerCreditCardAuth", 0, 10301,
		"<CreditCardTransID>1000</CreditCardTransID>")
	poster := newPosterWith(response)
	g := newTestGateway(t, testConfig(), poster)

	outcome, err := g.Authorize(context.Background(), testAmount, testCard(), ports.Options{})

	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.Authorization)
}

func TestGateway_SignonFailure(t *testing.T) {
	poster := newPosterWith(signonFailureResponse(2000, "Authentication failed"))
	g := newTestGateway(t, testConfig(), poster)

	outcome, err := g.Query(context.Background(), ports.Options{})

	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "Authentication failed", outcome.Message)
}

func TestGateway_CreditDelegatesToRefund(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	poster := newPosterWith(refundResponse(), refundResponse())

	gw, err := NewGateway(testConfig(), poster, zap.New(core))
	require.NoError(t, err)
	g := gw.(*gateway)
	g.clock = testClock
	g.requestID = func() string { return testRequestID }

	creditOutcome, err := g.Credit(context.Background(), testAmount, "1000", ports.Options{})
	require.NoError(t, err)
	refundOutcome, err := g.Refund(context.Background(), testAmount, "1000", ports.Options{})
	require.NoError(t, err)

	// Identical wire requests and outcomes, except the outcome notice
	require.Len(t, poster.Calls, 2)
	assert.Equal(t, poster.Calls[1].Payload, poster.Calls[0].Payload)

	assert.Equal(t, CreditDeprecationMessage, creditOutcome.Notice)
	assert.Empty(t, refundOutcome.Notice)
	creditOutcome.Notice = ""
	assert.Equal(t, refundOutcome, creditOutcome)

	warnings := logs.FilterMessage(CreditDeprecationMessage).All()
	require.Len(t, warnings, 1)
}

func TestGateway_CreditNoticeSurvivesNopLogger(t *testing.T) {
	poster := newPosterWith(refundResponse())
	g := newTestGateway(t, testConfig(), poster)

	outcome, err := g.Credit(context.Background(), testAmount, "1000", ports.Options{})

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, CreditDeprecationMessage, outcome.Notice)
}

func TestGateway_BuildErrorAbortsBeforePost(t *testing.T) {
	poster := mocks.NewMockPoster()
	g := newTestGateway(t, testConfig(), poster)

	_, err := g.Authorize(context.Background(), testAmount, domain.CreditCard{}, ports.Options{})

	require.Error(t, err)
	assert.True(t, IsBuildError(err))
	assert.Empty(t, poster.Calls)
}

func TestGateway_TransportErrorPassesThrough(t *testing.T) {
	poster := mocks.NewMockPoster()
	poster.Err = pkgerrors.NewTransportError(TestURL, errors.New("connection refused"))
	g := newTestGateway(t, testConfig(), poster)

	_, err := g.Purchase(context.Background(), testAmount, testCard(), ports.Options{})

	require.Error(t, err)
	var te *pkgerrors.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, TestURL, te.Endpoint)
}

func TestGateway_ParseError(t *testing.T) {
	poster := newPosterWith("not xml at all")
	g := newTestGateway(t, testConfig(), poster)

	_, err := g.Query(context.Background(), ports.Options{})

	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestGateway_ScrubsNothingExtra(t *testing.T) {
	poster := newPosterWith(authorizationResponse())
	g := newTestGateway(t, testConfig(), poster)

	payload := `<CreditCardNumber>4242424242424242</CreditCardNumber><Amount>1.00</Amount>`
	scrubbed := g.Scrub(payload)

	assert.False(t, strings.Contains(scrubbed, "4242424242424242"))
	assert.Contains(t, scrubbed, "<Amount>1.00</Amount>")
}
