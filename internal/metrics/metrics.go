// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "asistencia"

var (
	CheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_ins_total",
		Help:      "Attendance sessions opened.",
	})

	CheckInRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_in_rejections_total",
		Help:      "Check-ins refused, by error code.",
	}, []string{"code"})

	SessionsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_closed_total",
		Help:      "Attendance sessions closed, by close source.",
	}, []string{"source"})

	HoursCredited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hours_credited_total",
		Help:      "Hours credited to students when sessions close, by close source.",
	}, []string{"source"})

	Adjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hour_adjustments_total",
		Help:      "Manual hour adjustments applied, by direction.",
	}, []string{"direction"})

	MaintenanceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "maintenance_pass_duration_seconds",
		Help:      "Duration of cap and stale-close passes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"pass"})
)

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
