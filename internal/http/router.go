package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/prizely-backend/internal/http/handlers"
	httpMW "github.com/yungbote/prizely-backend/internal/http/middleware"
	"github.com/yungbote/prizely-backend/internal/observability"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	// TraceService enables otelgin spans under this service name when set.
	TraceService   string
	CORSOrigins    []string
	RequestTimeout time.Duration

	HealthHandler  *httpH.HealthHandler
	ItemHandler    *httpH.ItemHandler
	MarketHandler  *httpH.MarketHandler
	PriceHandler   *httpH.PriceHandler
	CompareHandler *httpH.CompareHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	if cfg.TraceService != "" {
		r.Use(otelgin.Middleware(cfg.TraceService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.Use(httpMW.RequestTimeout(cfg.RequestTimeout))
	{
		// Items
		if cfg.ItemHandler != nil {
			api.GET("/items", cfg.ItemHandler.List)
			api.POST("/items", cfg.ItemHandler.Create)
			api.GET("/items/:id", cfg.ItemHandler.Get)
			api.PUT("/items/:id", cfg.ItemHandler.Update)
			api.DELETE("/items/:id", cfg.ItemHandler.Delete)
		}

		// Markets
		if cfg.MarketHandler != nil {
			api.GET("/markets", cfg.MarketHandler.List)
			api.POST("/markets", cfg.MarketHandler.Create)
			api.GET("/markets/:id", cfg.MarketHandler.Get)
			api.PUT("/markets/:id", cfg.MarketHandler.Update)
			api.DELETE("/markets/:id", cfg.MarketHandler.Delete)
		}

		// Prices
		if cfg.PriceHandler != nil {
			api.GET("/prices", cfg.PriceHandler.List)
			api.POST("/prices", cfg.PriceHandler.Upsert)
			api.GET("/prices/:id", cfg.PriceHandler.Get)
			api.PUT("/prices/:id", cfg.PriceHandler.Update)
			api.DELETE("/prices/:id", cfg.PriceHandler.Delete)
		}

		// Comparison
		if cfg.CompareHandler != nil {
			api.POST("/compare", cfg.CompareHandler.Compare)
			api.POST("/compare/report", cfg.CompareHandler.Report)
			api.GET("/compare/defaults", cfg.CompareHandler.Defaults)
		}
	}

	return r
}
