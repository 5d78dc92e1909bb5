// internal/syncer/metrics.go

package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remoteReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amoretrack_remote_reads_total",
			Help: "Remote snapshot reads by outcome",
		},
		[]string{"outcome"},
	)

	remoteWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amoretrack_remote_writes_total",
			Help: "Remote merge writes by outcome",
		},
		[]string{"outcome"},
	)

	remotePushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amoretrack_remote_pushes_total",
			Help: "Remote change notifications by result (applied or suppressed)",
		},
		[]string{"result"},
	)

	syncStatusGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "amoretrack_sync_status",
			Help: "Current sync status (1 for the active status, 0 otherwise)",
		},
		[]string{"status"},
	)
)

// RecordRemoteRead increments the remote read counter.
func RecordRemoteRead(outcome string) {
	remoteReadsTotal.WithLabelValues(outcome).Inc()
}

// RecordRemoteWrite increments the remote write counter.
func RecordRemoteWrite(outcome string) {
	remoteWritesTotal.WithLabelValues(outcome).Inc()
}

// RecordRemotePush increments the remote push counter.
func RecordRemotePush(result string) {
	remotePushesTotal.WithLabelValues(result).Inc()
}

// SetSyncStatus flips the status gauge so exactly one status reads 1.
func SetSyncStatus(active Status) {
	for _, s := range []Status{StatusConnecting, StatusSynced, StatusError, StatusOffline} {
		v := 0.0
		if s == active {
			v = 1.0
		}
		syncStatusGauge.WithLabelValues(string(s)).Set(v)
	}
}
