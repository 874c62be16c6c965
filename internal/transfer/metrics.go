package transfer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	directionUpload   = "upload"
	directionDownload = "download"

	statusSuccess = "success"
	statusError   = "error"
)

var (
	transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "r2index_transfers_total",
		Help: "Completed transfer attempts by direction and status.",
	}, []string{"direction", "status"})

	transferredBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "r2index_transferred_bytes_total",
		Help: "Bytes moved through the storage backend by direction.",
	}, []string{"direction"})
)

func observeTransfer(direction, status string) {
	transfersTotal.WithLabelValues(direction, status).Inc()
}

func observeBytes(direction string, n int64) {
	transferredBytes.WithLabelValues(direction).Add(float64(n))
}
