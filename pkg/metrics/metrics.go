// Package metrics 提供 Prometheus 指标集合，使用独立 Registry 以便测试与多实例共存
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finsim"

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	GRPCRequestsTotal   *prometheus.CounterVec
	GRPCRequestDuration *prometheus.HistogramVec

	// 业务指标
	CalculationsTotal        *prometheus.CounterVec
	CalculationDuration      *prometheus.HistogramVec
	MonteCarloSamplesTotal   prometheus.Counter
	MonteCarloBatchesTotal   prometheus.Counter
	AuditEventsFailuresTotal prometheus.Counter
}

// New 创建并注册指标；withRuntime 为真时额外注册 Go 运行时与进程采集器
func New(serviceName string, withRuntime bool) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		GRPCRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "grpc_requests_total",
			Help:        "Total gRPC requests",
			ConstLabels: constLabels,
		}, []string{"method", "code"}),
		GRPCRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "grpc_request_duration_seconds",
			Help:        "gRPC request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method"}),

		CalculationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "calculations_total",
			Help:        "Total calculations by product and outcome",
			ConstLabels: constLabels,
		}, []string{"product", "outcome"}),
		CalculationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "calculation_duration_seconds",
			Help:        "Calculation duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"product"}),
		MonteCarloSamplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "montecarlo_samples_total",
			Help:        "Total simulated Monte Carlo paths",
			ConstLabels: constLabels,
		}),
		MonteCarloBatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "montecarlo_worker_batches_total",
			Help:        "Total Monte Carlo worker batches dispatched",
			ConstLabels: constLabels,
		}),
		AuditEventsFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "audit_publish_failures_total",
			Help:        "Calculation events that could not be published",
			ConstLabels: constLabels,
		}),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GRPCRequestsTotal,
		m.GRPCRequestDuration,
		m.CalculationsTotal,
		m.CalculationDuration,
		m.MonteCarloSamplesTotal,
		m.MonteCarloBatchesTotal,
		m.AuditEventsFailuresTotal,
	)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry 返回底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 promhttp 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordGRPCRequest 记录 gRPC 请求
func (m *Metrics) RecordGRPCRequest(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.GRPCRequestsTotal.WithLabelValues(method, code).Inc()
	m.GRPCRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// RecordCalculation 记录一次测算
func (m *Metrics) RecordCalculation(product string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.CalculationsTotal.WithLabelValues(product, outcome).Inc()
	m.CalculationDuration.WithLabelValues(product).Observe(d.Seconds())
}

// RecordSimulation 记录蒙特卡洛样本数与派发批次数
func (m *Metrics) RecordSimulation(samples, batches int) {
	if m == nil {
		return
	}
	m.MonteCarloSamplesTotal.Add(float64(samples))
	m.MonteCarloBatchesTotal.Add(float64(batches))
}

// RecordAuditFailure 记录审计事件投递失败
func (m *Metrics) RecordAuditFailure() {
	if m == nil {
		return
	}
	m.AuditEventsFailuresTotal.Inc()
}
