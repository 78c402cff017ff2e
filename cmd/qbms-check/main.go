// Command qbms-check verifies gateway connectivity and credentials by
// running a merchant account query against the configured endpoint.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/paymentops/qbms-gateway/internal/adapters/ports"
	"github.com/paymentops/qbms-gateway/internal/adapters/qbms"
	"github.com/paymentops/qbms-gateway/internal/config"
	"github.com/paymentops/qbms-gateway/internal/transport"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var pem string
	if cfg.Gateway.PEMFile != "" {
		data, err := os.ReadFile(cfg.Gateway.PEMFile)
		if err != nil {
			logger.Fatal("failed to read PEM file",
				zap.String("path", cfg.Gateway.PEMFile),
				zap.Error(err),
			)
		}
		pem = string(data)
	}

	poster := transport.NewDefaultHTTPSPoster(&transport.Config{
		Timeout:            cfg.Transport.Timeout,
		MaxRetries:         cfg.Transport.MaxRetries,
		InsecureSkipVerify: cfg.Transport.InsecureSkipVerify,
		Scrubber:           qbms.Scrub,
	}, logger)

	gateway, err := qbms.NewGateway(&qbms.Config{
		Login:  cfg.Gateway.Login,
		Ticket: cfg.Gateway.Ticket,
		PEM:    pem,
		Mode:   cfg.Gateway.Mode,
	}, poster, logger)
	if err != nil {
		logger.Fatal("failed to create gateway", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Transport.Timeout)
	defer cancel()

	outcome, err := gateway.Query(ctx, ports.Options{})
	if err != nil {
		logger.Fatal("merchant account query failed", zap.Error(err))
	}

	if !outcome.Success {
		logger.Error("gateway rejected credentials",
			zap.String("message", outcome.Message),
		)
		os.Exit(1)
	}

	logger.Info("gateway connectivity verified",
		zap.Bool("test_mode", outcome.TestMode),
		zap.Any("merchant_account", outcome.Fields),
	)
}

func newLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
