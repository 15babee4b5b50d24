package app

import (
	httpH "github.com/yungbote/prizely-backend/internal/http/handlers"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Item    *httpH.ItemHandler
	Market  *httpH.MarketHandler
	Price   *httpH.PriceHandler
	Compare *httpH.CompareHandler
}

func wireHandlers(log *logger.Logger, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(map[string]httpH.Pinger{"database": clients.DB}),
		Item:    httpH.NewItemHandler(services.Catalog),
		Market:  httpH.NewMarketHandler(services.Catalog),
		Price:   httpH.NewPriceHandler(services.Catalog),
		Compare: httpH.NewCompareHandler(services.Comparison),
	}
}
