package service

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/apd/v3"
	"go.uber.org/zap"

	"github.com/nautilus-earnout/kpi-engine/kpi"
)

const (
	defaultMaxAge           = 10 * time.Minute
	defaultClockSkew        = 2 * time.Second
	defaultDrainBatchLimit  = 100
	defaultSignParallelism  = 4
	defaultSubmitMaxElapsed = 30 * time.Second
	defaultOverheadRate     = "0.10"
)

// Config tunes the attestation service. Values come from the environment;
// entries that parse but fail validation fall back to their defaults with a
// warning rather than failing startup.
type Config struct {
	// MaxAge and ClockSkewTolerance define the freshness window handed to
	// verifying consumers.
	MaxAge             time.Duration `env:"KPI_ATTEST_MAX_AGE" envDefault:"10m"`
	ClockSkewTolerance time.Duration `env:"KPI_ATTEST_CLOCK_SKEW_TOLERANCE" envDefault:"2s"`

	QueueCapacity   int `env:"KPI_ATTEST_QUEUE_CAPACITY" envDefault:"10000"`
	DrainBatchLimit int `env:"KPI_ATTEST_DRAIN_BATCH_LIMIT" envDefault:"100"`
	SignParallelism int `env:"KPI_ATTEST_SIGN_PARALLELISM" envDefault:"4"`

	// SubmitMaxElapsed caps the total time spent retrying one ledger
	// submission before the request is abandoned and logged.
	SubmitMaxElapsed time.Duration `env:"KPI_ATTEST_SUBMIT_MAX_ELAPSED" envDefault:"30s"`

	// RevenueAccount and OverheadRate override the aggregation policy
	// constants for deployments whose earn-out agreement names different
	// terms.
	RevenueAccount string `env:"KPI_ATTEST_REVENUE_ACCOUNT" envDefault:"Sales Revenue"`
	OverheadRate   string `env:"KPI_ATTEST_OVERHEAD_RATE" envDefault:"0.10"`
}

// LoadConfig reads the service configuration from the environment and
// normalizes invalid values back to defaults, logging each fallback.
func LoadConfig(logger *zap.Logger) (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalize(logger)
	return cfg, nil
}

// DefaultConfig returns the configuration used when no environment is
// consulted at all, mainly for tests and embedded callers.
func DefaultConfig() Config {
	return Config{
		MaxAge:             defaultMaxAge,
		ClockSkewTolerance: defaultClockSkew,
		QueueCapacity:      DefaultQueueCapacity,
		DrainBatchLimit:    defaultDrainBatchLimit,
		SignParallelism:    defaultSignParallelism,
		SubmitMaxElapsed:   defaultSubmitMaxElapsed,
		RevenueAccount:     kpi.DefaultRevenueAccount,
		OverheadRate:       defaultOverheadRate,
	}
}

func (c *Config) normalize(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if c.MaxAge <= 0 {
		logger.Warn("invalid max age, using default",
			zap.Duration("value", c.MaxAge), zap.Duration("default", defaultMaxAge))
		c.MaxAge = defaultMaxAge
	}
	if c.ClockSkewTolerance < 0 {
		logger.Warn("negative clock skew tolerance, using default",
			zap.Duration("value", c.ClockSkewTolerance), zap.Duration("default", defaultClockSkew))
		c.ClockSkewTolerance = defaultClockSkew
	}
	if c.QueueCapacity <= 0 {
		logger.Warn("invalid queue capacity, using default",
			zap.Int("value", c.QueueCapacity), zap.Int("default", DefaultQueueCapacity))
		c.QueueCapacity = DefaultQueueCapacity
	}
	if c.DrainBatchLimit <= 0 {
		logger.Warn("invalid drain batch limit, using default",
			zap.Int("value", c.DrainBatchLimit), zap.Int("default", defaultDrainBatchLimit))
		c.DrainBatchLimit = defaultDrainBatchLimit
	}
	if c.SignParallelism <= 0 {
		logger.Warn("invalid sign parallelism, using default",
			zap.Int("value", c.SignParallelism), zap.Int("default", defaultSignParallelism))
		c.SignParallelism = defaultSignParallelism
	}
	if c.SubmitMaxElapsed <= 0 {
		logger.Warn("invalid submit max elapsed, using default",
			zap.Duration("value", c.SubmitMaxElapsed), zap.Duration("default", defaultSubmitMaxElapsed))
		c.SubmitMaxElapsed = defaultSubmitMaxElapsed
	}
	if c.RevenueAccount == "" {
		logger.Warn("empty revenue account, using default",
			zap.String("default", kpi.DefaultRevenueAccount))
		c.RevenueAccount = kpi.DefaultRevenueAccount
	}
	if _, _, err := apd.NewFromString(c.OverheadRate); err != nil {
		logger.Warn("invalid overhead rate, using default",
			zap.String("value", c.OverheadRate), zap.String("default", defaultOverheadRate), zap.Error(err))
		c.OverheadRate = defaultOverheadRate
	}
}

// overheadRate parses the configured rate. normalize guarantees the string
// parses, but the fallback stays for zero-value Configs built by hand.
func (c Config) overheadRate() *apd.Decimal {
	rate, _, err := apd.NewFromString(c.OverheadRate)
	if err != nil {
		rate, _, _ = apd.NewFromString(defaultOverheadRate)
	}
	return rate
}
