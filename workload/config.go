package workload

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes a stress run.
type Config struct {
	// Workers is the number of goroutines issuing operations.
	Workers int `yaml:"workers"`
	// OpsPerWorker is the number of operations each worker issues.
	OpsPerWorker int `yaml:"ops_per_worker"`
	// MaxConcurrent bounds how many workers run at once (0 = Workers).
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`

	// InsertRatio, SnapshotRatio and ScanRatio are the shares of inserts,
	// snapshot re-reads and scans. The remainder are head reads.
	InsertRatio   float64 `yaml:"insert_ratio"`
	SnapshotRatio float64 `yaml:"snapshot_ratio"`
	ScanRatio     float64 `yaml:"scan_ratio"`

	// OpsPerSecond caps the aggregate rate (0 = unlimited).
	OpsPerSecond float64 `yaml:"ops_per_second,omitempty"`
	// RetainRevisions triggers TrimBefore once more revisions are retained
	// (0 = never trim).
	RetainRevisions int64 `yaml:"retain_revisions,omitempty"`

	Seed int64 `yaml:"seed"`
}

// DefaultConfig is ten workers issuing a thousand mixed operations each.
func DefaultConfig() Config {
	return Config{
		Workers:       10,
		OpsPerWorker:  1000,
		InsertRatio:   0.5,
		SnapshotRatio: 0.2,
		ScanRatio:     0.1,
		Seed:          42,
	}
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read workload config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse workload config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid workload config: %w", err)
	}
	return cfg, nil
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.OpsPerWorker <= 0 {
		return fmt.Errorf("ops_per_worker must be positive, got %d", c.OpsPerWorker)
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent must not be negative, got %d", c.MaxConcurrent)
	}

	for name, r := range map[string]float64{
		"insert_ratio":   c.InsertRatio,
		"snapshot_ratio": c.SnapshotRatio,
		"scan_ratio":     c.ScanRatio,
	} {
		if r < 0 || r > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %v", name, r)
		}
	}
	if sum := c.InsertRatio + c.SnapshotRatio + c.ScanRatio; sum > 1 {
		return fmt.Errorf("ratios must sum to at most 1, got %v", sum)
	}

	if c.OpsPerSecond < 0 {
		return errors.New("ops_per_second must not be negative")
	}
	if c.RetainRevisions < 0 {
		return errors.New("retain_revisions must not be negative")
	}
	return nil
}
