package qbms

import (
	"github.com/paymentops/qbms-gateway/internal/domain"
	pkgerrors "github.com/paymentops/qbms-gateway/pkg/errors"
)

// Operation identifies one of the gateway's credit card operations
type Operation string

const (
	OpAuthorize Operation = "authorize"
	OpCapture   Operation = "capture"
	OpPurchase  Operation = "purchase"
	OpVoid      Operation = "void"
	OpRefund    Operation = "refund"
	OpQuery     Operation = "query"
)

// requestTypes maps each operation to its wire element name. The request
// body element is "<name>Rq" and the matching response element "<name>Rs".
var requestTypes = map[Operation]string{
	OpAuthorize: "CustomerCreditCardAuth",
	OpCapture:   "CustomerCreditCardCapture",
	OpPurchase:  "CustomerCreditCardCharge",
	OpVoid:      "CustomerCreditCardTxnVoid",
	OpRefund:    "CustomerCreditCardTxnVoidOrRefund",
	OpQuery:     "MerchantAccountQuery",
}

// operationRequest is the tagged variant dispatched through the request
// builder. Each operation uses the subset of fields it needs; validate
// catches a missing required field before any network activity.
type operationRequest struct {
	Operation Operation

	// Amount in minor currency units (cents). Used by authorize, capture,
	// purchase and refund.
	Amount int64

	// Card data, required for authorize and purchase only. Void, refund
	// and query never carry raw card data.
	Card *domain.CreditCard

	// Reference is the gateway transaction id of a prior authorization,
	// required for capture, void and refund.
	Reference string

	// Address is the optional billing address for AVS checks
	Address *domain.BillingAddress

	// OrderID is the client transaction id; generated when empty
	OrderID string
}

// validate checks that the request carries every field its operation
// requires. Fails fast with a BuildError so the remote service never sees
// a structurally bad request.
func (r *operationRequest) validate() error {
	op := string(r.Operation)

	if _, ok := requestTypes[r.Operation]; !ok {
		return pkgerrors.NewBuildError(op, "", "unknown operation")
	}

	switch r.Operation {
	case OpAuthorize, OpPurchase:
		if r.Card == nil {
			return pkgerrors.NewBuildError(op, "card", "card data is required")
		}
		if err := r.Card.Validate(); err != nil {
			return pkgerrors.NewBuildError(op, "card", err.Error())
		}
	case OpCapture, OpVoid, OpRefund:
		if r.Reference == "" {
			return pkgerrors.NewBuildError(op, "reference", "prior transaction id is required")
		}
	}

	if r.Amount < 0 {
		return pkgerrors.NewBuildError(op, "amount", "amount must not be negative")
	}

	return nil
}

// needsAmount reports whether the operation sends an Amount element
func (r *operationRequest) needsAmount() bool {
	switch r.Operation {
	case OpAuthorize, OpCapture, OpPurchase, OpRefund:
		return true
	}
	return false
}

// needsCard reports whether the operation sends raw card data
func (r *operationRequest) needsCard() bool {
	return r.Operation == OpAuthorize || r.Operation == OpPurchase
}
