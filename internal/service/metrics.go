package service

import "github.com/prometheus/client_golang/prometheus"

var edgeMutations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "soundnest_edge_mutations_total",
		Help: "Edge set mutations by edge, operation and whether the set changed",
	},
	[]string{"edge", "op", "result"},
)

func init() { prometheus.MustRegister(edgeMutations) }

func observeEdge(e string, op edgeOp, changed bool) {
	result := "noop"
	if changed {
		result = "applied"
	}
	edgeMutations.WithLabelValues(e, string(op), result).Inc()
}
