// internal/lead/temperature.go
// Temperature scoring: an exponential decay over time since the lead's
// last response. Pure functions; "now" is injected by the caller.

package lead

import (
	"math"
	"time"
)

// Empirical UX constants. The half-life and band boundaries were tuned
// by hand and are not derived from anything.
const (
	decayHalfLifeDays = 4.0
	hotThreshold      = 70
	warmThreshold     = 35
)

// ComputeTemperature returns the lead's engagement score in [0,100].
//
// A manual override short-circuits the decay entirely. Otherwise the
// score decays as 100 * exp(-ln2/halfLife * days) from the reference
// date: the last incoming interaction, falling back to the last
// interaction of any direction, falling back to creation.
func ComputeTemperature(l *Lead, now time.Time) int {
	if l.TemperatureOverride != nil {
		return clampPct(*l.TemperatureOverride)
	}

	ref := l.CreatedAt
	switch {
	case l.LastResponseAt != nil:
		ref = *l.LastResponseAt
	case l.LastInteractionAt != nil:
		ref = *l.LastInteractionAt
	}

	days := now.Sub(ref).Hours() / 24
	if days < 0 {
		days = 0
	}

	k := math.Ln2 / decayHalfLifeDays
	pct := 100 * math.Exp(-k*days)
	return clampPct(int(math.Round(pct)))
}

// BandFor classifies a temperature percentage for display and filtering.
func BandFor(pct int) TemperatureBand {
	switch {
	case pct >= hotThreshold:
		return BandHot
	case pct >= warmThreshold:
		return BandWarm
	default:
		return BandCold
	}
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampScore(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
