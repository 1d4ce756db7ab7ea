package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/mem"
)

// Budget is a device memory tier. It bounds the long edge of the working
// copy produced by the pipeline.
type Budget int

const (
	BudgetLow Budget = iota
	BudgetMedium
	BudgetHigh
)

const gib = 1 << 30

// Physical memory thresholds separating the budget tiers.
const (
	lowMemoryCeiling    = 3 * gib
	mediumMemoryCeiling = 6 * gib
)

// MaxLongEdge returns the largest long-edge pixel dimension allowed for b.
func (b Budget) MaxLongEdge() int {
	switch b {
	case BudgetLow:
		return 1536
	case BudgetMedium:
		return 2048
	default:
		return 3072
	}
}

// String returns the configuration name of b.
func (b Budget) String() string {
	switch b {
	case BudgetLow:
		return "low"
	case BudgetMedium:
		return "medium"
	case BudgetHigh:
		return "high"
	default:
		return fmt.Sprintf("budget(%d)", int(b))
	}
}

// ParseBudget maps a configuration name to a Budget. "auto" is not a
// budget; callers resolve it with DetectBudget.
func ParseBudget(s string) (Budget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return BudgetLow, nil
	case "medium":
		return BudgetMedium, nil
	case "high":
		return BudgetHigh, nil
	default:
		return BudgetHigh, fmt.Errorf("ingest: unknown budget %q", s)
	}
}

// BudgetForMemory classifies a physical memory size in bytes.
func BudgetForMemory(total uint64) Budget {
	switch {
	case total < lowMemoryCeiling:
		return BudgetLow
	case total < mediumMemoryCeiling:
		return BudgetMedium
	default:
		return BudgetHigh
	}
}

// DetectBudget reads the host's physical memory and classifies it. On
// failure it returns BudgetMedium together with the error so callers can
// log and continue.
func DetectBudget(ctx context.Context) (Budget, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return BudgetMedium, fmt.Errorf("ingest: read memory: %w", err)
	}
	return BudgetForMemory(vm.Total), nil
}

// PressureThreshold is the used-memory percentage above which the host is
// considered under memory pressure.
const PressureThreshold = 90.0

// MemoryStatus is one reading of host memory use.
type MemoryStatus struct {
	UsedPercent float64
	Available   uint64
}

// Pressure reports whether the reading crosses PressureThreshold.
func (s MemoryStatus) Pressure() bool {
	return s.UsedPercent >= PressureThreshold
}

// ReadMemory samples host memory use.
func ReadMemory(ctx context.Context) (MemoryStatus, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStatus{}, fmt.Errorf("ingest: read memory: %w", err)
	}
	return MemoryStatus{UsedPercent: vm.UsedPercent, Available: vm.Available}, nil
}
