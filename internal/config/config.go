package config

import (
	"elevator-dispatch-service/internal/services"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of the scheduler configuration file.
type Config struct {
	Fleets []FleetConfig `yaml:"fleets"`
}

// FleetConfig describes one fleet served by the process. Zero values are
// replaced by defaults, see applyDefaults.
type FleetConfig struct {
	Name            string `yaml:"name"`
	Ledger          string `yaml:"ledger"`     // scan, decay or capacity
	Assignment      string `yaml:"assignment"` // nearest or zone
	Scoring         bool   `yaml:"scoring"`
	DirectionalOpen bool   `yaml:"directional_open"`

	LowerFloor  int `yaml:"lower_floor"`
	HigherFloor int `yaml:"higher_floor"`
	Capacity    int `yaml:"capacity"`
	Cabins      int `yaml:"cabins"`

	MaxWait           int `yaml:"max_wait"` // 0 = floor count
	OverflowMaxWait   int `yaml:"overflow_max_wait"`
	OverflowOccupancy int `yaml:"overflow_occupancy"`
	OldFloorTTL       int `yaml:"old_floor_ttl"`

	FullGraceTicks    int     `yaml:"full_grace_ticks"`
	NoopBound         int     `yaml:"noop_bound"`
	OverloadThreshold float64 `yaml:"overload_threshold"`
	OverloadWindow    int     `yaml:"overload_window"`
	RebalanceEvery    int     `yaml:"rebalance_every"`
	CallWindow        int     `yaml:"call_window"`
	ResetPenaltyBase  int     `yaml:"reset_penalty_base"`
	ResetPenaltyStep  int     `yaml:"reset_penalty_step"`
	ParallelCabins    int     `yaml:"parallel_cabins"`
}

// Load reads the YAML file at path. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("load config: parse yaml: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// FleetOptions maps the file representation onto the scheduler's options.
func (f FleetConfig) FleetOptions() services.FleetOptions {
	return services.FleetOptions{
		Name: f.Name,
		Ledger: services.LedgerOptions{
			Kind:              f.Ledger,
			MaxWait:           f.MaxWait,
			OverflowMaxWait:   f.OverflowMaxWait,
			OverflowOccupancy: f.OverflowOccupancy,
			OldFloorTTL:       f.OldFloorTTL,
		},
		Assignment: f.Assignment,
		Cabin: services.CabinOptions{
			Scoring:         f.Scoring,
			DirectionalOpen: f.DirectionalOpen,
			NoopBound:       f.NoopBound,
			FullGraceTicks:  f.FullGraceTicks,
			PenaltyBase:     f.ResetPenaltyBase,
			PenaltyStep:     f.ResetPenaltyStep,
		},
		LowerFloor:        f.LowerFloor,
		HigherFloor:       f.HigherFloor,
		Capacity:          f.Capacity,
		Cabins:            f.Cabins,
		OverloadThreshold: f.OverloadThreshold,
		OverloadWindow:    f.OverloadWindow,
		RebalanceEvery:    f.RebalanceEvery,
		CallWindow:        f.CallWindow,
		ParallelCabins:    f.ParallelCabins,
	}
}
