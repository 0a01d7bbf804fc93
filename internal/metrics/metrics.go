package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	shoppingListsBuilt *prometheus.CounterVec
	shoppingListItems  prometheus.Histogram
	buildDuration      prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopmydish_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		shoppingListsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopmydish_shopping_lists_built_total",
			Help: "Shopping lists built from menus by result.",
		}, []string{"result"}),
		shoppingListItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopmydish_shopping_list_items",
			Help:    "Number of merged items per built shopping list.",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopmydish_shopping_list_build_seconds",
			Help:    "Time spent building a shopping list.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.shoppingListsBuilt,
		m.shoppingListItems,
		m.buildDuration,
	)
	return m
}

func (m *Metrics) ObserveBuild(items int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.shoppingListsBuilt.WithLabelValues("error").Inc()
		return
	}
	m.shoppingListsBuilt.WithLabelValues("ok").Inc()
	m.shoppingListItems.Observe(float64(items))
	m.buildDuration.Observe(elapsed.Seconds())
}

// Middleware counts requests by matched route so ids do not blow up the
// label space.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if m == nil {
			return err
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.httpRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()
		return err
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
