package services

import (
	"runtime"
	"strconv"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	MONITORING_SVC = "monitoring_svc"
	SERVICE_NAME   = "mooc_backend"
)

// HTTP Metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	httpRequestsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_active",
			Help: "Number of active concurrent HTTP requests",
		},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Session Metrics
var (
	sessionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mooc_sessions_created_total",
			Help: "Total learner sessions started",
		},
	)

	modulesCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooc_modules_completed_total",
			Help: "First-time module completions",
		},
		[]string{"module"},
	)

	quizCompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooc_quiz_completions_total",
			Help: "Quiz completion acknowledgements",
		},
		[]string{"method"},
	)
)

// System Metrics
var (
	heapAllocBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "heap_alloc_bytes",
			Help: "Heap memory allocated in bytes",
		},
	)

	heapSysBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "heap_sys_bytes",
			Help: "Heap memory obtained from system in bytes",
		},
	)
)

func moduleLabel(moduleID int) string {
	return strconv.Itoa(moduleID)
}

// MonitoringService owns the prometheus registry. Its endpoints are mounted
// on the main HTTP app rather than a separate listener.
type MonitoringService struct {
	appContext.DefaultService

	register *prometheus.Registry

	closed    chan struct{}
	closeOnce sync.Once
}

func NewMonitoringService() *MonitoringService {
	svc := &MonitoringService{}
	svc.init()
	return svc
}

func (svc *MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Start() error {
	svc.init()

	go svc.updateMemoryMetrics()

	log.Info().Msg("Metrics registry initialized")
	return nil
}

func (svc *MonitoringService) init() {
	if svc.register != nil {
		return
	}
	svc.closed = make(chan struct{})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reg.MustRegister(
		httpRequestsTotal,
		httpRequestsActive,
		httpRequestDurationSeconds,
		sessionsCreatedTotal,
		modulesCompletedTotal,
		quizCompletionsTotal,
		heapAllocBytes,
		heapSysBytes,
	)

	svc.register = reg
}

func (svc *MonitoringService) Shutdown() {
	svc.closeOnce.Do(func() {
		if svc.closed != nil {
			close(svc.closed)
		}
	})
}

func (svc *MonitoringService) MetricsHandler() fiber.Handler {
	handler := promhttp.HandlerFor(svc.register, promhttp.HandlerOpts{})
	return adaptor.HTTPHandler(handler)
}

func (svc *MonitoringService) HealthHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   SERVICE_NAME,
		"timestamp": time.Now().Unix(),
	})
}

// updateMemoryMetrics refreshes heap gauges every 15 seconds until Shutdown.
func (svc *MonitoringService) updateMemoryMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			heapAllocBytes.Set(float64(m.Alloc))
			heapSysBytes.Set(float64(m.Sys))

		case <-svc.closed:
			log.Info().Msg("Memory metrics updater stopped")
			return
		}
	}
}

func (svc *MonitoringService) RecordRequest(method, endpoint, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
	httpRequestDurationSeconds.WithLabelValues(endpoint, method, status).Observe(duration.Seconds())
}

// MonitoringMiddleware records request counts and latency per route pattern.
func MonitoringMiddleware(monitoringSvc *MonitoringService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		method := c.Method()

		httpRequestsActive.Inc()
		defer httpRequestsActive.Dec()

		err := c.Next()

		// the matched route is only known after the chain ran
		endpoint := c.Route().Path
		if err != nil {
			// let the app error handler write the status before recording it
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		monitoringSvc.RecordRequest(method, endpoint, strconv.Itoa(c.Response().StatusCode()), time.Since(start))

		return err
	}
}
