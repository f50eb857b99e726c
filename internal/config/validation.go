package config

import (
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/services"
	"errors"
	"fmt"
	"regexp"
)

// Fleet names become URL path segments and NATS subject tokens.
var fleetName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks the configuration for logical consistency.
func (c *Config) Validate() error {
	if len(c.Fleets) == 0 {
		return errors.New("at least one fleet is required")
	}

	seen := map[string]bool{}
	for i, f := range c.Fleets {
		if !fleetName.MatchString(f.Name) {
			return fmt.Errorf("fleet #%d: invalid name %q (letters, digits, '-' and '_' only)", i+1, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("fleet %q: duplicate name", f.Name)
		}
		seen[f.Name] = true

		if err := f.validate(); err != nil {
			return fmt.Errorf("fleet %q: %w", f.Name, err)
		}
	}
	return nil
}

func (f FleetConfig) validate() error {
	switch f.Ledger {
	case services.LedgerScan, services.LedgerDecay, services.LedgerCapacity:
	default:
		return fmt.Errorf("invalid ledger: %s (must be one of: scan, decay, capacity)", f.Ledger)
	}
	switch f.Assignment {
	case services.AssignNearest, services.AssignZone:
	default:
		return fmt.Errorf("invalid assignment: %s (must be one of: nearest, zone)", f.Assignment)
	}

	if f.LowerFloor > f.HigherFloor {
		return domain.ErrInvalidBounds
	}
	if f.Capacity < 1 {
		return domain.ErrInvalidCapacity
	}
	if f.Cabins < 1 {
		return domain.ErrInvalidCabinCount
	}

	nonNegative := map[string]int{
		"max_wait":           f.MaxWait,
		"overflow_max_wait":  f.OverflowMaxWait,
		"overflow_occupancy": f.OverflowOccupancy,
		"old_floor_ttl":      f.OldFloorTTL,
		"full_grace_ticks":   f.FullGraceTicks,
		"noop_bound":         f.NoopBound,
		"overload_window":    f.OverloadWindow,
		"rebalance_every":    f.RebalanceEvery,
		"call_window":        f.CallWindow,
		"reset_penalty_base": f.ResetPenaltyBase,
		"reset_penalty_step": f.ResetPenaltyStep,
		"parallel_cabins":    f.ParallelCabins,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	if f.OverloadThreshold < 0 {
		return errors.New("overload_threshold cannot be negative")
	}
	if f.OverflowMaxWait > 0 && f.OverflowOccupancy == 0 {
		return errors.New("overflow_max_wait requires overflow_occupancy")
	}
	return nil
}
