package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paymentops/qbms-gateway/internal/adapters/ports"
	pkgerrors "github.com/paymentops/qbms-gateway/pkg/errors"
	pkghttp "github.com/paymentops/qbms-gateway/pkg/http"
	"github.com/paymentops/qbms-gateway/pkg/resilience"
)

// Content type for the gateway's XML dialect
const contentType = "application/x-qbmsxml"

// Config contains configuration for the HTTPS poster
type Config struct {
	// Overall HTTP client timeout per attempt
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after a network
	// failure. Retries apply to transport failures only; once a response
	// body is received it is returned, whatever it contains.
	MaxRetries int

	// InsecureSkipVerify disables TLS verification (test endpoints only)
	InsecureSkipVerify bool

	// Scrubber redacts payloads before they are logged. When nil,
	// payloads are not logged at all.
	Scrubber func(string) string
}

// DefaultConfig returns poster defaults for the merchant gateway
func DefaultConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}

// HTTPSPoster implements the XMLPoster port: send an XML payload to a
// URL over HTTPS and return the raw response body. It owns the retry and
// circuit breaker policy the gateway adapter deliberately does not have.
type HTTPSPoster struct {
	config  *Config
	client  ports.HTTPClient
	logger  *zap.Logger
	breaker *CircuitBreaker
	backoff resilience.BackoffStrategy
}

// NewHTTPSPoster creates a poster with an injected HTTP client
func NewHTTPSPoster(config *Config, client ports.HTTPClient, logger *zap.Logger) *HTTPSPoster {
	return &HTTPSPoster{
		config:  config,
		client:  client,
		logger:  logger,
		breaker: NewCircuitBreaker(DefaultCircuitBreakerConfig()),
		backoff: resilience.DefaultExponentialBackoff(),
	}
}

// NewDefaultHTTPSPoster creates a poster with a pooled HTTP client tuned
// for a single gateway host
func NewDefaultHTTPSPoster(config *Config, logger *zap.Logger) *HTTPSPoster {
	clientCfg := pkghttp.GatewayClientConfig()
	clientCfg.InsecureSkipVerify = config.InsecureSkipVerify
	return NewHTTPSPoster(config, pkghttp.NewHTTPClient(clientCfg, config.Timeout), logger)
}

// Post sends the payload to the endpoint and returns the response body.
// Network failures are retried with exponential backoff and surface as a
// TransportError once retries are exhausted.
func (p *HTTPSPoster) Post(ctx context.Context, endpoint string, payload string) (string, error) {
	p.logger.Debug("posting gateway payload",
		zap.String("endpoint", endpoint),
		zap.Int("payload_bytes", len(payload)),
		zap.String("payload", p.scrub(payload)),
	)

	var body string
	err := p.breaker.Call(func() error {
		var lastErr error
		for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
			if attempt > 0 {
				delay := p.backoff.NextDelay(attempt - 1)
				p.logger.Warn("retrying gateway request",
					zap.Int("attempt", attempt),
					zap.Int("max_retries", p.config.MaxRetries),
					zap.Duration("backoff_delay", delay),
					zap.Error(lastErr),
				)
				select {
				case <-ctx.Done():
					return pkgerrors.NewTransportError(endpoint, fmt.Errorf("retry cancelled: %w", ctx.Err()))
				case <-time.After(delay):
				}
			}

			start := time.Now()
			resp, err := p.doRequest(ctx, endpoint, payload)
			if err != nil {
				lastErr = err
				continue
			}

			p.logger.Debug("received gateway response",
				zap.Duration("elapsed", time.Since(start)),
				zap.Int("body_bytes", len(resp)),
				zap.String("body", p.scrub(resp)),
			)

			body = resp
			return nil
		}

		return pkgerrors.NewTransportError(endpoint, fmt.Errorf("failed after %d retries: %w", p.config.MaxRetries, lastErr))
	})

	if err != nil {
		if err == ErrCircuitOpen || err == ErrTooManyRequests {
			p.logger.Warn("circuit breaker rejected gateway request",
				zap.String("circuit_state", p.breaker.State().String()),
			)
			return "", pkgerrors.NewTransportError(endpoint, err)
		}
		return "", err
	}

	return body, nil
}

// doRequest performs one HTTP POST attempt
func (p *HTTPSPoster) doRequest(ctx context.Context, endpoint string, payload string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	return string(body), nil
}

func (p *HTTPSPoster) scrub(payload string) string {
	if p.config.Scrubber == nil {
		return "(payload logging disabled: no scrubber configured)"
	}
	return p.config.Scrubber(payload)
}
