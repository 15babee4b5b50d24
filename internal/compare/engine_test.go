package compare

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prices(rows map[string]map[string]float64) PriceMap {
	pm := PriceMap{}
	for item, row := range rows {
		for market, p := range row {
			pm.Set(item, market, p)
		}
	}
	return pm
}

func TestCompareSingleItemExtremes(t *testing.T) {
	pm := prices(map[string]map[string]float64{
		"sugar": {"m1": 150, "m2": 160},
	})

	res := Compare([]string{"sugar"}, []string{"m1", "m2"}, pm)
	require.Len(t, res.Items, 1)

	ic := res.Items[0]
	require.NotNil(t, ic.Lowest)
	require.NotNil(t, ic.Highest)
	assert.Equal(t, 150.0, *ic.Lowest)
	assert.Equal(t, 160.0, *ic.Highest)
	assert.Equal(t, "m1", ic.BestMarketID)
	assert.Equal(t, "m2", ic.HighestMarketID)
	assert.Equal(t, 10.0, ic.Delta)
	assert.Equal(t, 6.7, ic.DeltaPercent)
	assert.Equal(t, 2, ic.Available)
	assert.True(t, ic.Prices[0].IsBest)
	assert.True(t, ic.Prices[1].IsHighest)
}

func TestCompareSavingsScenario(t *testing.T) {
	items := []string{"sugar", "milk"}
	markets := []string{"imtiaz", "carrefour", "metro"}

	t.Run("seeded prices", func(t *testing.T) {
		pm := prices(map[string]map[string]float64{
			"sugar": {"imtiaz": 150, "carrefour": 160, "metro": 170},
			"milk":  {"imtiaz": 120, "carrefour": 125, "metro": 130},
		})
		res := Compare(items, markets, pm)
		assert.Equal(t, Savings{BestTotal: 270, WorstTotal: 300, Saved: 30, Percent: 10}, res.Savings)
		require.NotNil(t, res.Cheapest)
		require.NotNil(t, res.MostExpensive)
		assert.Equal(t, "imtiaz", res.Cheapest.MarketID)
		assert.Equal(t, 270.0, res.Cheapest.Sum)
		assert.Equal(t, "metro", res.MostExpensive.MarketID)
		assert.Equal(t, 300.0, res.MostExpensive.Sum)
	})

	t.Run("worst total 290", func(t *testing.T) {
		pm := prices(map[string]map[string]float64{
			"sugar": {"imtiaz": 150, "carrefour": 160, "metro": 155},
			"milk":  {"imtiaz": 120, "carrefour": 125, "metro": 130},
		})
		res := Compare(items, markets, pm)
		assert.Equal(t, 270.0, res.Savings.BestTotal)
		assert.Equal(t, 290.0, res.Savings.WorstTotal)
		assert.Equal(t, 20.0, res.Savings.Saved)
		assert.Equal(t, 6.9, res.Savings.Percent)
	})
}

func TestCompareMissingPricesAreNotZero(t *testing.T) {
	pm := prices(map[string]map[string]float64{
		"sugar": {"m1": 150},
		"rice":  {"m2": 300},
	})

	res := Compare([]string{"sugar", "ghost", "rice"}, []string{"m1", "m2", "m3"}, pm)

	ghost := res.Items[1]
	assert.Nil(t, ghost.Lowest)
	assert.Nil(t, ghost.Highest)
	assert.Equal(t, 0, ghost.Available)
	assert.Empty(t, ghost.BestMarketID)
	for _, mp := range ghost.Prices {
		assert.Nil(t, mp.Price)
		assert.False(t, mp.IsBest)
	}

	assert.Equal(t, 450.0, res.Savings.BestTotal)
	assert.Equal(t, 450.0, res.Savings.WorstTotal)
	assert.Equal(t, 0.0, res.Savings.Saved)

	want := []MarketTotal{
		{MarketID: "m1", Sum: 150, Average: 150, Count: 1},
		{MarketID: "m2", Sum: 300, Average: 300, Count: 1},
		{MarketID: "m3"},
	}
	if diff := cmp.Diff(want, res.Markets); diff != "" {
		t.Fatalf("market totals mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "m1", res.Cheapest.MarketID)
	assert.Equal(t, "m2", res.MostExpensive.MarketID)
	assert.Equal(t, 225.0, res.AverageAcrossMarkets)
	assert.Equal(t, 3, res.ItemsCompared)
	assert.Equal(t, 3, res.MarketsCompared)
}

func TestCompareNoPricesAtAll(t *testing.T) {
	res := Compare([]string{"a", "b"}, []string{"m1", "m2"}, PriceMap{})

	assert.Equal(t, Savings{}, res.Savings)
	assert.Nil(t, res.Cheapest)
	assert.Nil(t, res.MostExpensive)
	assert.Zero(t, res.AverageAcrossMarkets)
	for _, mt := range res.Markets {
		assert.Zero(t, mt.Count)
		assert.Zero(t, mt.Average)
	}
}

func TestCompareTiesResolveToFirstMarket(t *testing.T) {
	pm := prices(map[string]map[string]float64{
		"eggs": {"a": 200, "b": 200, "c": 200},
	})

	res := Compare([]string{"eggs"}, []string{"b", "a", "c"}, pm)
	ic := res.Items[0]
	assert.Equal(t, "b", ic.BestMarketID)
	assert.Equal(t, "b", ic.HighestMarketID)
	assert.Equal(t, 0.0, ic.DeltaPercent)

	best := 0
	for _, mp := range ic.Prices {
		if mp.IsBest {
			best++
		}
	}
	assert.Equal(t, 1, best)
	assert.Equal(t, "b", res.Cheapest.MarketID)
	assert.Equal(t, "b", res.MostExpensive.MarketID)
}

func TestCompareZeroLowestPrice(t *testing.T) {
	pm := prices(map[string]map[string]float64{
		"bag": {"m1": 0, "m2": 10},
	})
	res := Compare([]string{"bag"}, []string{"m1", "m2"}, pm)
	ic := res.Items[0]
	require.NotNil(t, ic.Lowest)
	assert.Equal(t, 0.0, *ic.Lowest)
	assert.Equal(t, "m1", ic.BestMarketID)
	assert.Equal(t, 0.0, ic.DeltaPercent)
	assert.Equal(t, 100.0, res.Savings.Percent)
}

func TestCompareIsIdempotentAndDoesNotMutate(t *testing.T) {
	pm := prices(map[string]map[string]float64{
		"sugar": {"m1": 150, "m2": 160},
		"milk":  {"m2": 125},
	})
	before := pm.Clone()
	items := []string{"sugar", "milk"}
	markets := []string{"m1", "m2"}

	first := Compare(items, markets, pm)
	second := Compare(items, markets, pm)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("compare is not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, pm); diff != "" {
		t.Fatalf("compare mutated prices:\n%s", diff)
	}
	assert.Equal(t, []string{"sugar", "milk"}, items)

	*first.Items[0].Lowest = 1
	assert.Equal(t, 150.0, *second.Items[0].Lowest)
}

func TestCompareTotalsOrdering(t *testing.T) {
	pm := prices(map[string]map[string]float64{
		"a": {"m1": 3, "m2": 1.5, "m3": 9},
		"b": {"m1": 7, "m3": 2},
		"c": {"m2": 4},
	})
	res := Compare([]string{"a", "b", "c"}, []string{"m1", "m2", "m3"}, pm)
	assert.LessOrEqual(t, res.Savings.BestTotal, res.Savings.WorstTotal)
	assert.GreaterOrEqual(t, res.Savings.Saved, 0.0)
	assert.InDelta(t, res.Savings.WorstTotal-res.Savings.BestTotal, res.Savings.Saved, 1e-9)
}

func TestPriceMapEntries(t *testing.T) {
	pm := NewPriceMap([]PriceEntry{
		{ItemID: "a", MarketID: "m1", Price: 1},
		{ItemID: "a", MarketID: "m1", Price: 2},
		{ItemID: "b", MarketID: "m2", Price: 3},
	})
	assert.Equal(t, 2, pm.Len())

	p, ok := pm.Get("a", "m1")
	assert.True(t, ok)
	assert.Equal(t, 2.0, p)

	_, ok = pm.Get("a", "m2")
	assert.False(t, ok)

	got := pm.Entries([]string{"b", "a"}, []string{"m1", "m2"})
	want := []PriceEntry{
		{ItemID: "b", MarketID: "m2", Price: 3},
		{ItemID: "a", MarketID: "m1", Price: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries (-want +got):\n%s", diff)
	}
}
