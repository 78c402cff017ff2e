package qbms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/paymentops/qbms-gateway/internal/adapters/ports"
	"github.com/paymentops/qbms-gateway/internal/domain"
	"github.com/paymentops/qbms-gateway/internal/util"
	pkgerrors "github.com/paymentops/qbms-gateway/pkg/errors"
	"github.com/paymentops/qbms-gateway/pkg/observability"
)

// Gateway endpoints. Which one a gateway instance targets is fixed at
// construction and never changes per call.
const (
	LiveURL = "https://webmerchantaccount.quickbooks.com/j/AppGateway"
	TestURL = "https://webmerchantaccount.ptc.quickbooks.com/j/AppGateway"
)

// Ambient process modes accepted by Config.Mode
const (
	ModeTest = "test"
	ModeLive = "live"
)

// CreditDeprecationMessage is emitted once per Credit call before
// delegating to Refund
const CreditDeprecationMessage = "credit is deprecated; use Refund to refund a referenced transaction"

// Config holds the immutable credentials and mode selection for a gateway
// instance
type Config struct {
	// Login is the application login identifier
	Login string

	// Ticket is the connection ticket issued for the application
	Ticket string

	// PEM is the client certificate material. When set, signon uses the
	// application-certificate model instead of the desktop model.
	PEM string

	// Mode is the ambient process-wide mode, ModeTest or ModeLive
	Mode string

	// Test, when non-nil, explicitly pins this instance to the test or
	// live endpoint and overrides Mode
	Test *bool
}

// resolveTestMode applies the explicit per-instance flag over the ambient
// mode. An instance constructed with Test=true never calls the live
// endpoint, whatever the process-wide mode says.
func (c *Config) resolveTestMode() bool {
	if c.Test != nil {
		return *c.Test
	}
	return c.Mode == ModeTest
}

func (c *Config) validate() error {
	if c.Login == "" {
		return fmt.Errorf("login is required")
	}
	if c.Ticket == "" {
		return fmt.Errorf("ticket is required")
	}
	return nil
}

// gateway implements the CreditCardGateway port. It is stateless between
// calls: every call runs its own build/post/parse/normalize pipeline, so
// a single instance is safe for concurrent use.
type gateway struct {
	config   *Config
	endpoint string
	testMode bool
	poster   ports.XMLPoster
	logger   *zap.Logger

	// Injected for deterministic tests
	clock     func() time.Time
	requestID func() string
}

// NewGateway creates a gateway bound to the endpoint its config resolves
// to. The poster is the send-XML-over-HTTPS collaborator; it owns all
// connection management and retry policy.
func NewGateway(config *Config, poster ports.XMLPoster, logger *zap.Logger) (ports.CreditCardGateway, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid gateway config: %w", err)
	}

	testMode := config.resolveTestMode()
	endpoint := LiveURL
	if testMode {
		endpoint = TestURL
	}

	return &gateway{
		config:    config,
		endpoint:  endpoint,
		testMode:  testMode,
		poster:    poster,
		logger:    logger,
		clock:     time.Now,
		requestID: util.NewTransRequestID,
	}, nil
}

// Authorize places a hold for the amount without capturing funds
func (g *gateway) Authorize(ctx context.Context, amount int64, card domain.CreditCard, opts ports.Options) (*ports.Outcome, error) {
	return g.commit(ctx, &operationRequest{
		Operation: OpAuthorize,
		Amount:    amount,
		Card:      &card,
		Address:   opts.BillingAddress,
		OrderID:   opts.OrderID,
	})
}

// Capture settles a prior authorization
func (g *gateway) Capture(ctx context.Context, amount int64, reference string, opts ports.Options) (*ports.Outcome, error) {
	return g.commit(ctx, &operationRequest{
		Operation: OpCapture,
		Amount:    amount,
		Reference: reference,
		OrderID:   opts.OrderID,
	})
}

// Purchase authorizes and captures in one call
func (g *gateway) Purchase(ctx context.Context, amount int64, card domain.CreditCard, opts ports.Options) (*ports.Outcome, error) {
	return g.commit(ctx, &operationRequest{
		Operation: OpPurchase,
		Amount:    amount,
		Card:      &card,
		Address:   opts.BillingAddress,
		OrderID:   opts.OrderID,
	})
}

// Void cancels a prior transaction
func (g *gateway) Void(ctx context.Context, reference string, opts ports.Options) (*ports.Outcome, error) {
	return g.commit(ctx, &operationRequest{
		Operation: OpVoid,
		Reference: reference,
		OrderID:   opts.OrderID,
	})
}

// Refund returns funds against a prior transaction
func (g *gateway) Refund(ctx context.Context, amount int64, reference string, opts ports.Options) (*ports.Outcome, error) {
	return g.commit(ctx, &operationRequest{
		Operation: OpRefund,
		Amount:    amount,
		Reference: reference,
		OrderID:   opts.OrderID,
	})
}

// Credit is a deprecated alias for Refund. It warns and delegates, so the
// wire request is identical by construction. The notice is carried on the
// outcome as well so callers see it regardless of logger configuration.
//
// Deprecated: use Refund.
func (g *gateway) Credit(ctx context.Context, amount int64, reference string, opts ports.Options) (*ports.Outcome, error) {
	g.logger.Warn(CreditDeprecationMessage)
	outcome, err := g.Refund(ctx, amount, reference, opts)
	if outcome != nil {
		outcome.Notice = CreditDeprecationMessage
	}
	return outcome, err
}

// Query retrieves merchant account details
func (g *gateway) Query(ctx context.Context, opts ports.Options) (*ports.Outcome, error) {
	return g.commit(ctx, &operationRequest{
		Operation: OpQuery,
		OrderID:   opts.OrderID,
	})
}

// Scrub redacts sensitive values from a raw payload for diagnostics
func (g *gateway) Scrub(payload string) string {
	return Scrub(payload)
}

// commit runs the build -> post -> parse -> normalize pipeline for one
// operation. Build and parse failures abort the call; transport errors
// pass through unchanged; a gateway-level decline is returned as a
// normal Outcome with Success=false.
func (g *gateway) commit(ctx context.Context, req *operationRequest) (*ports.Outcome, error) {
	op := string(req.Operation)
	start := time.Now()
	done := observability.TrackInFlight()
	defer done()

	payload, err := g.buildRequest(req)
	if err != nil {
		g.logger.Error("failed to build gateway request",
			zap.String("operation", op),
			zap.Error(err),
		)
		observability.ObserveGatewayRequest(op, observability.ResultBuildError, time.Since(start))
		return nil, err
	}

	g.logger.Debug("sending gateway request",
		zap.String("operation", op),
		zap.String("endpoint", g.endpoint),
		zap.String("payload", Scrub(payload)),
	)

	raw, err := g.poster.Post(ctx, g.endpoint, payload)
	if err != nil {
		g.logger.Error("gateway transport failed",
			zap.String("operation", op),
			zap.Error(err),
		)
		observability.ObserveGatewayRequest(op, observability.ResultTransportError, time.Since(start))
		return nil, err
	}

	env, err := parseResponse(raw)
	if err != nil {
		g.logger.Error("failed to parse gateway response",
			zap.String("operation", op),
			zap.String("body", Scrub(raw)),
			zap.Error(err),
		)
		observability.ObserveGatewayRequest(op, observability.ResultParseError, time.Since(start))
		return nil, err
	}

	outcome := normalizeOutcome(env, g.testMode)

	result := observability.ResultDeclined
	if outcome.Success {
		result = observability.ResultApproved
	}
	observability.ObserveGatewayRequest(op, result, time.Since(start))

	g.logger.Info("gateway operation completed",
		zap.String("operation", op),
		zap.Bool("success", outcome.Success),
		zap.String("authorization", outcome.Authorization),
		zap.Int("signon_status", env.Signon.Code),
		zap.Int("operation_status", env.Operation.Code),
		zap.Duration("elapsed", time.Since(start)),
	)

	return outcome, nil
}

// IsBuildError reports whether err is a request construction failure
func IsBuildError(err error) bool {
	var be *pkgerrors.BuildError
	return errors.As(err, &be)
}

// IsParseError reports whether err is a response parsing failure
func IsParseError(err error) bool {
	var pe *pkgerrors.ParseError
	return errors.As(err, &pe)
}
