package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/prizely-backend/internal/http"
	"github.com/yungbote/prizely-backend/internal/observability"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	traceService := ""
	if cfg.Otel.Enabled {
		traceService = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		TraceService:   traceService,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		HealthHandler:  handlers.Health,
		ItemHandler:    handlers.Item,
		MarketHandler:  handlers.Market,
		PriceHandler:   handlers.Price,
		CompareHandler: handlers.Compare,
	})
}
