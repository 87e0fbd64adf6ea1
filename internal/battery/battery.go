// Package battery reads the pack voltage and maps it onto a display
// percentage between two reference voltages.
package battery

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sample is one battery reading.
type Sample struct {
	Voltage float64
	Percent int
}

// Source yields the current pack voltage. Reading may block on I/O and
// is always done outside any shared-state lock.
type Source interface {
	Voltage() (float64, error)
}

// Percent maps a voltage linearly onto 0..100 between empty and full,
// clamping outside the reference range.
func Percent(v, empty, full float64) int {
	if full <= empty {
		return 0
	}
	if v >= full {
		return 100
	}
	if v <= empty {
		return 0
	}
	return int((v - empty) / (full - empty) * 100)
}

// SysfsSource reads a microvolt value from a power-supply sysfs file
// and applies the board's voltage divider factor.
type SysfsSource struct {
	Path    string
	Divider float64
}

func (s SysfsSource) Voltage() (float64, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, err
	}
	raw, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, err
	}
	div := s.Divider
	if div <= 0 {
		div = 1
	}
	return raw / 1e6 * div, nil
}

// FixedSource reports a constant voltage. Used when no ADC is wired up.
type FixedSource struct {
	V float64
}

func (s FixedSource) Voltage() (float64, error) {
	if s.V <= 0 {
		return 0, errors.New("no voltage configured")
	}
	return s.V, nil
}

// Monitor polls the source on the given interval and delivers samples
// through apply. Read errors are skipped; the loop keeps running.
func Monitor(ctx context.Context, src Source, empty, full float64, interval time.Duration, apply func(Sample)) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v, err := src.Voltage()
			if err != nil {
				continue
			}
			apply(Sample{Voltage: v, Percent: Percent(v, empty, full)})
		}
	}
}
