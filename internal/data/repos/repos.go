package repos

import (
	"github.com/yungbote/prizely-backend/internal/data/repos/catalog"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ItemRepo = catalog.ItemRepo
type MarketRepo = catalog.MarketRepo
type PriceRepo = catalog.PriceRepo

type ItemFilter = catalog.ItemFilter
type MarketFilter = catalog.MarketFilter
type PriceFilter = catalog.PriceFilter

// Repos groups every repository the services depend on.
type Repos struct {
	Item   ItemRepo
	Market MarketRepo
	Price  PriceRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Item:   catalog.NewItemRepo(db, log),
		Market: catalog.NewMarketRepo(db, log),
		Price:  catalog.NewPriceRepo(db, log),
	}
}

// Reader exposes the repositories as a comparison snapshot source.
func (r Repos) Reader() *catalog.Reader {
	return &catalog.Reader{Items: r.Item, Markets: r.Market, Prices: r.Price}
}
