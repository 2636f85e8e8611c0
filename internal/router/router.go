package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/prettystyles/booking-api/internal/handler"
	authHandler "github.com/prettystyles/booking-api/internal/handler/auth"
	bookingHandler "github.com/prettystyles/booking-api/internal/handler/booking"
	catalogHandler "github.com/prettystyles/booking-api/internal/handler/catalog"
	reviewHandler "github.com/prettystyles/booking-api/internal/handler/review"
	"github.com/prettystyles/booking-api/internal/middleware"
)

type Config struct {
	RateLimit   rate.Limit
	RateBurst   int
	CORSConfig  middleware.CORSConfig
	MetricsPath string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	authH    *authHandler.Handler
	bookingH *bookingHandler.Handler
	reviewH  *reviewHandler.Handler
	catalogH *catalogHandler.Handler
	h        *handler.Handler
	config   Config
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	bookingH *bookingHandler.Handler,
	reviewH *reviewHandler.Handler,
	catalogH *catalogHandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		authH:    authH,
		bookingH: bookingH,
		reviewH:  reviewH,
		catalogH: catalogH,
		h:        h,
		config:   config,
		metrics:  newRouterMetrics(),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   float64(config.RateLimit),
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/health", r.h.Health)

	metricsPath := r.config.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	r.engine.GET(metricsPath, gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	r.authH.RegisterRoutes(api)
	r.catalogH.RegisterRoutes(api)
	r.reviewH.RegisterPublicRoutes(api)

	protected := r.engine.Group("/api/v1")
	protected.Use(r.auth.Authenticate())
	r.bookingH.RegisterRoutes(protected)
	r.reviewH.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
