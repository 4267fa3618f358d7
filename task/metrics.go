package task

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	tickPath     = "path"
	tickBehavior = "behavior"

	resultPublished    = "published"
	resultNoTelemetry  = "no_telemetry"
	resultStale        = "stale"
	resultNotLocalized = "not_localized"
)

var (
	// tickTotal counts ticks by kind and result
	tickTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_tick_total",
		Help: "Total planner ticks by kind and result",
	}, []string{"kind", "result"})

	// routeSwitchTotal counts active route switches
	routeSwitchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_route_switch_total",
		Help: "Total active route switches by target route",
	}, []string{"route"})

	// stateTransitionTotal counts behavior state transitions
	stateTransitionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_state_transition_total",
		Help: "Total behavior state transitions",
	}, []string{"from", "to"})

	behaviorState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "planner_behavior_state",
		Help: "Current behavior state (0 LANEKEEPING, 1 STOPPING, 2 STOPPED, 3 IN_INTERSECTION)",
	})

	// scanJunctionCount tracks distinct junctions found per scan
	scanJunctionCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_scan_junction_count",
		Help:    "Number of distinct junctions found per lookahead scan",
		Buckets: []float64{0, 1, 2, 3, 5},
	})
)
