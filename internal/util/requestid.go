package util

import (
	"strings"

	"github.com/google/uuid"
)

// TransRequestID length accepted by the gateway
const transRequestIDLen = 20

// NewTransRequestID generates a client transaction id for idempotency
// tracking on the gateway side. The gateway caps TransRequestID at 20
// characters, so a dash-stripped UUID is cut to the first 20 hex chars.
func NewTransRequestID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:transRequestIDLen]
}

// TransRequestIDFrom derives a deterministic client transaction id from an
// existing UUID. The same UUID always yields the same id, which keeps
// retried submissions idempotent on the gateway side.
func TransRequestIDFrom(id uuid.UUID) string {
	s := strings.ReplaceAll(id.String(), "-", "")
	return s[:transRequestIDLen]
}
