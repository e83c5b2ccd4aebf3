// Package http 金融测算服务的 HTTP 接口（gin）
package http

import (
	"net/http"
	"net/http/pprof"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/finsimulator/pkg/metrics"
	"github.com/wyfcoding/finsimulator/pkg/middleware"
)

// RouterConfig 路由配置
type RouterConfig struct {
	ServiceName string
	Version     string
	// 为空时不挂载指标端点
	Metrics     *metrics.Metrics
	MetricsPath string
	EnablePprof bool
	// 就绪标记，为 nil 时视为始终就绪
	Ready *atomic.Bool
}

// NewRouter 组装 gin 引擎：中间件、业务路由、探针、指标与 pprof
func NewRouter(h *ProjectionHandler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.GinRequestContext(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(cfg.Metrics),
		middleware.GinCORSMiddleware(),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.ServiceName,
			"version": cfg.Version,
			"endpoints": gin.H{
				"mortgage":   "POST /api/v1/mortgage",
				"credit":     "POST /api/v1/credit",
				"savings":    "POST /api/v1/savings",
				"goal":       "POST /api/v1/goal",
				"montecarlo": "POST /api/v1/montecarlo",
				"compare":    "POST /api/v1/compare",
				"health":     "GET /sys/health",
				"ready":      "GET /sys/ready",
			},
		})
	})

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Format(time.RFC3339)})
		})
		sys.GET("/ready", func(c *gin.Context) {
			if cfg.Ready != nil && !cfg.Ready.Load() {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "READY"})
		})
	}

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.EnablePprof {
		pp := r.Group("/debug/pprof")
		{
			pp.GET("/", gin.WrapF(pprof.Index))
			pp.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pp.GET("/profile", gin.WrapF(pprof.Profile))
			pp.GET("/symbol", gin.WrapF(pprof.Symbol))
			pp.GET("/trace", gin.WrapF(pprof.Trace))
			for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
				pp.GET("/"+name, gin.WrapH(pprof.Handler(name)))
			}
		}
	}

	h.RegisterRoutes(&r.RouterGroup)
	return r
}
