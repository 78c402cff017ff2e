package ports

import (
	"context"

	"github.com/paymentops/qbms-gateway/internal/domain"
)

// Options carries the optional per-call parameters recognized by every
// gateway operation
type Options struct {
	// BillingAddress is embedded in card-bearing requests for AVS checks.
	// A partially populated address (one field set, the other empty) is
	// valid; empty fields are omitted from the wire entirely.
	BillingAddress *domain.BillingAddress

	// OrderID is the client transaction id echoed back by the gateway.
	// Generated when empty.
	OrderID string
}

// Address verification results, one per checked field
const (
	AVSMatch   = "Y" // Submitted value matched issuer records
	AVSNoMatch = "N" // Submitted value did not match
	AVSUnknown = ""  // Gateway did not report a result
)

// Card security code verification results
const (
	CVVMatch        = "M" // Security code matched
	CVVNoMatch      = "N" // Security code did not match
	CVVNotAvailable = "P" // Issuer could not process the check
	CVVUnknown      = ""  // Gateway did not report a result
)

// AVSResult holds the normalized address verification outcome
type AVSResult struct {
	StreetMatch string // AVSMatch, AVSNoMatch, or AVSUnknown
	PostalMatch string // AVSMatch, AVSNoMatch, or AVSUnknown
}

// CVVResult holds the normalized security code verification outcome
type CVVResult struct {
	Code string // CVVMatch, CVVNoMatch, CVVNotAvailable, or CVVUnknown
}

// Outcome is the normalized result of a gateway call. A declined or
// failed transaction is still an Outcome (Success=false), never an error;
// only structural failures (build/transport/parse) abort the call.
type Outcome struct {
	// Success is true only when both the signon status and the operation
	// status report code 0
	Success bool

	// Authorization is the gateway transaction id, populated only on
	// success for operations that return one. It is the reference a later
	// capture/void/refund must carry.
	Authorization string

	// Message is the human-readable status, taken from the signon segment
	// when signon failed and from the operation segment otherwise
	Message string

	AVSResult AVSResult
	CVVResult CVVResult

	// Fields preserves every leaf of the operation response segment,
	// including fields this layer does not interpret
	Fields map[string]string

	// Notice carries an advisory message about the call itself, such as
	// the deprecation notice attached by Credit. Empty for most calls.
	Notice string

	// TestMode records which endpoint the call targeted
	TestMode bool
}

// CreditCardGateway is the public call surface of the adapter. All
// operations are safe for concurrent use on a single gateway instance;
// credentials and endpoint selection are fixed at construction.
type CreditCardGateway interface {
	// Authorize places a hold for the given amount (in minor currency
	// units) without capturing funds
	Authorize(ctx context.Context, amount int64, card domain.CreditCard, opts Options) (*Outcome, error)

	// Capture settles a prior authorization identified by reference
	Capture(ctx context.Context, amount int64, reference string, opts Options) (*Outcome, error)

	// Purchase authorizes and captures in one call
	Purchase(ctx context.Context, amount int64, card domain.CreditCard, opts Options) (*Outcome, error)

	// Void cancels a prior transaction identified by reference
	Void(ctx context.Context, reference string, opts Options) (*Outcome, error)

	// Refund returns funds against a prior transaction identified by
	// reference
	Refund(ctx context.Context, amount int64, reference string, opts Options) (*Outcome, error)

	// Credit is a deprecated alias for Refund. It logs a deprecation
	// warning, sets Outcome.Notice, and delegates; the wire request is
	// identical.
	//
	// Deprecated: use Refund.
	Credit(ctx context.Context, amount int64, reference string, opts Options) (*Outcome, error)

	// Query retrieves merchant account details
	Query(ctx context.Context, opts Options) (*Outcome, error)

	// Scrub redacts sensitive values from a raw request/response payload
	// so it can be logged
	Scrub(payload string) string
}

// XMLPoster is the transport boundary: send an XML payload to a URL over
// HTTPS and return the raw response body. Connection management, TLS and
// retry policy belong to the implementation, not to the gateway adapter.
type XMLPoster interface {
	Post(ctx context.Context, endpoint string, payload string) (string, error)
}
