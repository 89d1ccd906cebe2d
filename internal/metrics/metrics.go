// Package metrics defines and registers the Prometheus metrics for the
// TableCraft API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package init and are served from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tablecraft"

// EntityWritesTotal counts successful create/update/delete operations.
// Labels:
//   - entity: "task", "project", or "user"
//   - op: "create", "update", or "delete"
var EntityWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_writes_total",
		Help:      "Total number of successful entity write operations.",
	},
	[]string{"entity", "op"},
)

// EventsBroadcastTotal counts lifecycle events handed to the realtime hub.
// Label:
//   - event: the event name (e.g. "taskCreated")
var EventsBroadcastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_broadcast_total",
		Help:      "Total number of lifecycle events broadcast to realtime sessions.",
	},
	[]string{"event"},
)

// RealtimeSessions tracks the number of currently connected sessions.
var RealtimeSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_sessions",
		Help:      "Number of currently connected realtime sessions.",
	},
)

// SessionsDroppedTotal counts sessions closed because their send buffer
// was full or their connection was dead at broadcast time.
var SessionsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_sessions_dropped_total",
		Help:      "Total number of realtime sessions dropped during broadcast.",
	},
)
