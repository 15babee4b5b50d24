package services

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yungbote/prizely-backend/internal/compare"
	"github.com/yungbote/prizely-backend/internal/data/repos/testutil"
	"github.com/yungbote/prizely-backend/internal/data/seed"
	"github.com/yungbote/prizely-backend/internal/observability"
)

func seededComparison(t *testing.T) (ComparisonService, *memoryCache, *seed.Dataset) {
	t.Helper()
	h := newHarness(t)
	logg := testutil.Logger(t)
	ds, err := seed.Default()
	require.NoError(t, err)
	_, err = seed.NewSeeder(h.repos, h.tx, logg).Run(context.Background(), ds, false)
	require.NoError(t, err)

	cache := &memoryCache{}
	formatter := compare.NewFormatter(clock.NewMock(), time.UTC)
	svc := NewComparisonService(logg, h.repos.Reader(), cache, formatter, ds.Defaults, observability.New())
	return svc, cache, ds
}

func TestComparisonServiceCompare(t *testing.T) {
	svc, cache, _ := seededComparison(t)
	ctx := context.Background()

	sel, err := svc.ResolveNames(ctx, []string{"Sugar", "milk"}, []string{"Imtiaz", "Carrefour", "Metro"})
	require.NoError(t, err)

	out, err := svc.Compare(ctx, Selection{
		ItemIDs:   append(sel.ItemIDs, sel.ItemIDs[0]),
		MarketIDs: sel.MarketIDs,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Result.ItemsCompared)
	assert.Equal(t, 3, out.Result.MarketsCompared)
	assert.Equal(t, 270.0, out.Result.Savings.BestTotal)
	assert.Equal(t, 300.0, out.Result.Savings.WorstTotal)
	assert.Equal(t, 10.0, out.Result.Savings.Percent)
	require.NotNil(t, out.Result.Cheapest)
	assert.Equal(t, "Imtiaz", out.Markets[out.Result.Cheapest.MarketID].Name)
	assert.Equal(t, "Metro", out.Markets[out.Result.MostExpensive.MarketID].Name)
	assert.Equal(t, "Sugar", out.Items[sel.ItemIDs[0]].Name)

	assert.Equal(t, 1, cache.sets)
	assert.GreaterOrEqual(t, cache.gets, 2)

	svc.CatalogChanged(ctx)
	assert.Equal(t, 1, cache.invalidated)
}

// writeAfterPricesReader runs write once, right after the price rows of a load have
// been read and before the snapshot is handed back.
type writeAfterPricesReader struct {
	compare.CatalogReader
	once  sync.Once
	write func()
}

func (r *writeAfterPricesReader) AllPrices(ctx context.Context) ([]compare.PriceEntry, error) {
	rows, err := r.CatalogReader.AllPrices(ctx)
	if err == nil && r.write != nil {
		r.once.Do(r.write)
	}
	return rows, err
}

func TestComparisonServiceDoesNotCacheSnapshotOverlappingWrite(t *testing.T) {
	h := newHarness(t)
	logg := testutil.Logger(t)
	ds, err := seed.Default()
	require.NoError(t, err)
	_, err = seed.NewSeeder(h.repos, h.tx, logg).Run(context.Background(), ds, false)
	require.NoError(t, err)

	cache := &memoryCache{}
	reader := &writeAfterPricesReader{CatalogReader: h.repos.Reader()}
	formatter := compare.NewFormatter(clock.NewMock(), time.UTC)
	svc := NewComparisonService(logg, reader, cache, formatter, ds.Defaults, observability.New())
	catalogSvc := NewCatalogService(logg, h.repos, h.tx, svc, nil)
	ctx := context.Background()

	sel, err := svc.ResolveNames(ctx, []string{"Sugar"}, []string{"Imtiaz", "Metro"})
	require.NoError(t, err)
	svc.CatalogChanged(ctx)

	reader.write = func() {
		_, _, err := catalogSvc.UpsertPrice(ctx, PriceInput{ItemID: sel.ItemIDs[0], MarketID: sel.MarketIDs[0], Price: ptr(1.0)})
		assert.NoError(t, err)
	}

	first, err := svc.Compare(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, 150.0, first.Result.Savings.BestTotal)
	assert.Equal(t, 2, cache.invalidated)

	second, err := svc.Compare(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, 1.0, second.Result.Savings.BestTotal)
	assert.Equal(t, 170.0, second.Result.Savings.WorstTotal)

	third, err := svc.Compare(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, 1.0, third.Result.Savings.BestTotal)
	assert.Equal(t, 2, cache.sets)
}

func TestComparisonServiceRejectsBadSelections(t *testing.T) {
	svc, _, _ := seededComparison(t)
	ctx := context.Background()

	sel, err := svc.ResolveNames(ctx, []string{"Sugar"}, []string{"Imtiaz", "Metro"})
	require.NoError(t, err)

	_, err = svc.Compare(ctx, Selection{ItemIDs: sel.ItemIDs, MarketIDs: []string{sel.MarketIDs[0], sel.MarketIDs[0]}})
	requireStatus(t, err, http.StatusBadRequest, "invalid_selection")

	_, err = svc.Compare(ctx, Selection{MarketIDs: sel.MarketIDs})
	requireStatus(t, err, http.StatusBadRequest, "invalid_selection")

	_, err = svc.Compare(ctx, Selection{ItemIDs: []string{"ghost"}, MarketIDs: sel.MarketIDs})
	requireStatus(t, err, http.StatusBadRequest, "unknown_item")

	_, err = svc.Report(ctx, Selection{ItemIDs: sel.ItemIDs, MarketIDs: append(sel.MarketIDs, "ghost")})
	requireStatus(t, err, http.StatusBadRequest, "unknown_market")

	_, err = svc.ResolveNames(ctx, []string{"Caviar"}, []string{"Imtiaz"})
	requireStatus(t, err, http.StatusBadRequest, "unknown_item")
}

func TestComparisonServiceReport(t *testing.T) {
	svc, _, _ := seededComparison(t)
	ctx := context.Background()

	sel, err := svc.ResolveNames(ctx, []string{"Milk", "Sugar"}, []string{"Metro", "Imtiaz", "Carrefour"})
	require.NoError(t, err)

	text, err := svc.Report(ctx, sel)
	require.NoError(t, err)

	milk := strings.Index(text, "📦 MILK (liter)")
	sugar := strings.Index(text, "📦 SUGAR (kg)")
	require.True(t, milk >= 0 && sugar > milk, text)
	assert.Contains(t, text, "  Imtiaz: Rs 150 ✓ BEST\n  Carrefour: Rs 160\n  Metro: Rs 170")
	assert.Equal(t, 2, strings.Count(text, "✓ BEST"))
	assert.True(t, strings.HasSuffix(text, "Generated: 1/1/1970, 12:00:00 AM"))
}

func TestComparisonServiceDefaults(t *testing.T) {
	svc, _, ds := seededComparison(t)
	ctx := context.Background()

	def, err := svc.Defaults(ctx)
	require.NoError(t, err)
	want, err := svc.ResolveNames(ctx, ds.Defaults.Items, ds.Defaults.Markets)
	require.NoError(t, err)
	assert.Equal(t, want, def)
}

func TestPickByNameTopsUp(t *testing.T) {
	order := []string{"a", "b", "c", "d"}
	names := map[string]string{"a": "Apple", "b": "Banana", "c": "Coffee", "d": "Dates"}
	got := pickByName(order, func(id string) string { return names[id] }, []string{"coffee", "missing"}, 3)
	assert.Equal(t, []string{"c", "a", "b"}, got)
}
