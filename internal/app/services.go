package app

import (
	"fmt"

	"github.com/facebookgo/clock"

	"github.com/yungbote/prizely-backend/internal/compare"
	"github.com/yungbote/prizely-backend/internal/data/db"
	"github.com/yungbote/prizely-backend/internal/data/repos"
	"github.com/yungbote/prizely-backend/internal/data/seed"
	"github.com/yungbote/prizely-backend/internal/observability"
	"github.com/yungbote/prizely-backend/internal/platform/logger"
	"github.com/yungbote/prizely-backend/internal/services"
)

type Services struct {
	Catalog    services.CatalogService
	Comparison services.ComparisonService
	Seeder     *seed.Seeder
	Dataset    *seed.Dataset
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet repos.Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	dataset, err := loadDataset(cfg.SeedFile)
	if err != nil {
		return Services{}, err
	}

	txRunner := db.NewGormTxRunner(clients.DB.DB())
	formatter := compare.NewFormatter(clock.New(), cfg.ReportLocation)

	comparison := services.NewComparisonService(log, reposet.Reader(), clients.Cache, formatter, dataset.Defaults, metrics)
	catalog := services.NewCatalogService(log, reposet, txRunner, comparison, metrics)

	return Services{
		Catalog:    catalog,
		Comparison: comparison,
		Seeder:     seed.NewSeeder(reposet, txRunner, log),
		Dataset:    dataset,
	}, nil
}

func loadDataset(path string) (*seed.Dataset, error) {
	if path == "" {
		return seed.Default()
	}
	ds, err := seed.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load seed file %s: %w", path, err)
	}
	return ds, nil
}
