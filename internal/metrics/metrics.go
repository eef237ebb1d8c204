package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storerating"

// Metrics holds the application's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	events       *prometheus.CounterVec
}

// New creates and registers the collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "path"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "emitted_total",
			Help:      "Domain events emitted after successful writes, by outcome.",
		}, []string{"event", "outcome"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.events,
	)
	return m
}

// Middleware records request count, duration and in-flight gauge. Paths are
// labelled by route pattern so ids do not explode cardinality.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if status == fiber.StatusNotFound && path == "/" && c.Path() != "/" {
			path = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// Publisher is the event sink CountEvents wraps.
type Publisher interface {
	Publish(routingKey string, body []byte) error
}

type countingPublisher struct {
	next    Publisher
	counter *prometheus.CounterVec
}

// CountEvents returns a Publisher that counts every event before forwarding
// it to next. With a nil next events are only counted.
func (m *Metrics) CountEvents(next Publisher) Publisher {
	return &countingPublisher{next: next, counter: m.events}
}

func (p *countingPublisher) Publish(routingKey string, body []byte) error {
	if p.next == nil {
		p.counter.WithLabelValues(routingKey, "counted").Inc()
		return nil
	}
	if err := p.next.Publish(routingKey, body); err != nil {
		p.counter.WithLabelValues(routingKey, "failed").Inc()
		return err
	}
	p.counter.WithLabelValues(routingKey, "published").Inc()
	return nil
}
