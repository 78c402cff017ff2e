package domain

import (
	"fmt"
	"strings"
	"time"
)

// CreditCard holds raw card data for a single gateway call. It is never
// persisted; values live only for the duration of the request.
type CreditCard struct {
	Number            string // Full PAN
	ExpMonth          int    // 1-12
	ExpYear           int    // 4-digit year
	Name              string // Name on card
	VerificationValue string // CVV2/CVC2, optional
}

// Validate checks that the card carries enough data to be sent to the
// gateway. Expiry in the past is the issuer's call, not ours, so only
// range checks are applied here.
func (c *CreditCard) Validate() error {
	if strings.TrimSpace(c.Number) == "" {
		return fmt.Errorf("card number is required")
	}
	if c.ExpMonth < 1 || c.ExpMonth > 12 {
		return fmt.Errorf("expiration month must be 1-12, got %d", c.ExpMonth)
	}
	if c.ExpYear < 1000 || c.ExpYear > 9999 {
		return fmt.Errorf("expiration year must be a 4-digit year, got %d", c.ExpYear)
	}
	return nil
}

// IsExpired returns true if the card's expiry is in the past
func (c *CreditCard) IsExpired() bool {
	now := time.Now()
	if c.ExpYear < now.Year() {
		return true
	}
	if c.ExpYear == now.Year() && c.ExpMonth < int(now.Month()) {
		return true
	}
	return false
}

// LastFour returns the last four digits of the PAN for display/logging
func (c *CreditCard) LastFour() string {
	if len(c.Number) < 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}
