package config

import "elevator-dispatch-service/internal/services"

// Default is used when no configuration file is given: the tuned fleet
// first, then one profile per ledger and policy for comparison.
func Default() *Config {
	cfg := &Config{Fleets: []FleetConfig{
		{
			Name:              "default",
			Ledger:            services.LedgerCapacity,
			Assignment:        services.AssignNearest,
			Scoring:           true,
			DirectionalOpen:   true,
			MaxWait:           11,
			OverflowMaxWait:   16,
			OverflowOccupancy: 20,
			OverloadThreshold: 10,
			FullGraceTicks:    50,
			NoopBound:         100,
		},
		{
			Name:            "scan",
			Ledger:          services.LedgerScan,
			Assignment:      services.AssignNearest,
			DirectionalOpen: true,
		},
		{
			Name:              "decay",
			Ledger:            services.LedgerDecay,
			Assignment:        services.AssignNearest,
			DirectionalOpen:   true,
			OverloadThreshold: 10,
		},
		{
			Name:              "zone",
			Ledger:            services.LedgerCapacity,
			Assignment:        services.AssignZone,
			Scoring:           true,
			DirectionalOpen:   true,
			OverloadThreshold: 10,
			RebalanceEvery:    50,
		},
	}}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills the fields left unset in the file.
func applyDefaults(cfg *Config) {
	if len(cfg.Fleets) == 0 {
		cfg.Fleets = []FleetConfig{{Name: "default"}}
	}

	for i := range cfg.Fleets {
		f := &cfg.Fleets[i]
		if f.Name == "" && i == 0 {
			f.Name = "default"
		}
		if f.Ledger == "" {
			f.Ledger = services.LedgerCapacity
		}
		if f.Assignment == "" {
			f.Assignment = services.AssignNearest
		}
		if f.LowerFloor == 0 && f.HigherFloor == 0 {
			f.HigherFloor = 19
		}
		if f.Capacity == 0 {
			f.Capacity = 30
		}
		if f.Cabins == 0 {
			f.Cabins = 1
		}
		if f.OverloadWindow == 0 {
			f.OverloadWindow = 1
		}
		if f.CallWindow == 0 {
			f.CallWindow = services.DefaultCallWindow
		}
		if f.ResetPenaltyBase == 0 && f.ResetPenaltyStep == 0 {
			f.ResetPenaltyBase, f.ResetPenaltyStep = 1, 1
		}
	}
}
