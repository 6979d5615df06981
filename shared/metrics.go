package shared

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

var (
	metricSet = metrics.NewSet()

	blocksAdopted   = metricSet.NewCounter(`ownership_blocks_allocated_total{kind="adopt"}`)
	blocksInPlace   = metricSet.NewCounter(`ownership_blocks_allocated_total{kind="inplace"}`)
	valuesDestroyed = metricSet.NewCounter(`ownership_values_destroyed_total`)
	blocksReleased  = metricSet.NewCounter(`ownership_blocks_released_total`)

	_ = metricSet.NewGauge(`ownership_blocks_live`, func() float64 {
		return float64(blocksAdopted.Get() + blocksInPlace.Get() - blocksReleased.Get())
	})
	_ = metricSet.NewGauge(`ownership_values_live`, func() float64 {
		return float64(blocksAdopted.Get() + blocksInPlace.Get() - valuesDestroyed.Get())
	})
)

// Stats is a snapshot of process-wide control block activity.
type Stats struct {
	Adopted   uint64 // blocks allocated around an existing value
	InPlace   uint64 // blocks allocated together with their value
	Destroyed uint64 // values destroyed
	Released  uint64 // blocks retired
}

// Live returns the number of control blocks not yet released.
func (s Stats) Live() uint64 {
	return s.Adopted + s.InPlace - s.Released
}

// Sub returns the activity between an earlier snapshot and s.
func (s Stats) Sub(earlier Stats) Stats {
	return Stats{
		Adopted:   s.Adopted - earlier.Adopted,
		InPlace:   s.InPlace - earlier.InPlace,
		Destroyed: s.Destroyed - earlier.Destroyed,
		Released:  s.Released - earlier.Released,
	}
}

// ReadStats returns the current counters.
func ReadStats() Stats {
	return Stats{
		Adopted:   blocksAdopted.Get(),
		InPlace:   blocksInPlace.Get(),
		Destroyed: valuesDestroyed.Get(),
		Released:  blocksReleased.Get(),
	}
}

// WriteMetrics writes the lifecycle metrics in Prometheus text format.
func WriteMetrics(w io.Writer) {
	metricSet.WritePrometheus(w)
}

// RegisterMetrics adds the lifecycle metrics to the default VictoriaMetrics
// registry so metrics.WritePrometheus includes them.
func RegisterMetrics() {
	metrics.RegisterSet(metricSet)
}
