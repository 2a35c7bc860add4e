// Package metrics 提供 Prometheus helper，包含 HTTP 与业务管道指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"net/http"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数，按方法/路径/状态码
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 线索创建计数
	LeadsCreatedTotal prometheus.Counter
	// 线索状态流转计数，按目标状态
	LeadTransitionsTotal *prometheus.CounterVec
	// 项目阶段流转计数，按目标阶段
	ProjectTransitionsTotal *prometheus.CounterVec
	// 在售项目数
	ProjectsSelling prometheus.Gauge
	// 文件上传计数
	UploadsTotal prometheus.Counter
}

// New 创建指标实例并完成注册
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flipops",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flipops",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		LeadsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flipops",
			Subsystem: serviceName,
			Name:      "leads_created_total",
			Help:      "Total leads created",
		}),
		LeadTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flipops",
			Subsystem: serviceName,
			Name:      "lead_transitions_total",
			Help:      "Total lead status transitions",
		}, []string{"to_status"}),
		ProjectTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flipops",
			Subsystem: serviceName,
			Name:      "project_transitions_total",
			Help:      "Total project stage transitions",
		}, []string{"to_stage"}),
		ProjectsSelling: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flipops",
			Subsystem: serviceName,
			Name:      "projects_selling",
			Help:      "Number of projects currently in the selling stage",
		}),
		UploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flipops",
			Subsystem: serviceName,
			Name:      "uploads_total",
			Help:      "Total evidence files uploaded",
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LeadsCreatedTotal,
		m.LeadTransitionsTotal,
		m.ProjectTransitionsTotal,
		m.ProjectsSelling,
		m.UploadsTotal,
	)

	return m
}

// Handler 返回 /metrics 的 HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
