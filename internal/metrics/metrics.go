// Package metrics exposes conversion and HTTP counters to Prometheus.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
	"github.com/Aria-Ghojavand/shamsy-calendar/persian"
)

const (
	DirectionToJalali    = "to_jalali"
	DirectionToGregorian = "to_gregorian"
)

// Collector registers and updates the service metrics.
type Collector struct {
	conversions     *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector registers the metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shamsy_conversions_total",
			Help: "Calendar conversions by direction and result",
		}, []string{"direction", "result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shamsy_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shamsy_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(c.conversions, c.requests, c.requestDuration)
	return c
}

// RecordConversion counts one conversion; err decides the result label.
func (c *Collector) RecordConversion(direction string, err error) {
	c.conversions.WithLabelValues(direction, Result(err)).Inc()
}

func (c *Collector) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Result maps a conversion error onto a short label.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, jalali.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, jalali.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, persian.ErrSyntax):
		return "malformed"
	}
	return "error"
}
