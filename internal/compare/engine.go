package compare

import "github.com/shopspring/decimal"

// MarketPrice is one cell of an item's row. Price is nil when the market has no price.
type MarketPrice struct {
	MarketID  string   `json:"market_id"`
	Price     *float64 `json:"price"`
	IsBest    bool     `json:"is_best"`
	IsHighest bool     `json:"is_highest"`
}

// ItemComparison summarizes one selected item across the selected markets.
type ItemComparison struct {
	ItemID string        `json:"item_id"`
	Prices []MarketPrice `json:"prices"`

	// Lowest and Highest are nil when no selected market prices the item.
	Lowest  *float64 `json:"lowest"`
	Highest *float64 `json:"highest"`

	// BestMarketID and HighestMarketID name the first market, in selection order,
	// holding the extreme price.
	BestMarketID    string `json:"best_market_id,omitempty"`
	HighestMarketID string `json:"highest_market_id,omitempty"`

	Delta        float64 `json:"delta"`
	DeltaPercent float64 `json:"delta_percent"`
	Available    int     `json:"available"`
}

type Savings struct {
	BestTotal  float64 `json:"best_total"`
	WorstTotal float64 `json:"worst_total"`
	Saved      float64 `json:"saved"`
	Percent    float64 `json:"percent"`
}

// MarketTotal aggregates the selected items a market carries.
type MarketTotal struct {
	MarketID string  `json:"market_id"`
	Sum      float64 `json:"sum"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

type Result struct {
	Items   []ItemComparison `json:"items"`
	Savings Savings          `json:"savings"`
	Markets []MarketTotal    `json:"markets"`

	// Cheapest and MostExpensive are nil when no selected market prices any selected item.
	// On equal sums the market listed first in the selection wins.
	Cheapest      *MarketTotal `json:"cheapest"`
	MostExpensive *MarketTotal `json:"most_expensive"`

	AverageAcrossMarkets float64 `json:"average_across_markets"`
	ItemsCompared        int     `json:"items_compared"`
	MarketsCompared      int     `json:"markets_compared"`
}

// Compare computes per-item extremes, savings, per-market totals and the overall
// average for the selection. It never fails: missing prices are data, and ids that
// are not in prices simply have no prices. Ties on any extreme resolve to the first
// id in the caller's order. Inputs are not modified.
func Compare(itemIDs, marketIDs []string, prices PriceMap) Result {
	res := Result{
		Items:           make([]ItemComparison, 0, len(itemIDs)),
		Markets:         make([]MarketTotal, 0, len(marketIDs)),
		ItemsCompared:   len(itemIDs),
		MarketsCompared: len(marketIDs),
	}

	for _, itemID := range itemIDs {
		ic := compareItem(itemID, marketIDs, prices)
		if ic.Lowest != nil {
			res.Savings.BestTotal += *ic.Lowest
			res.Savings.WorstTotal += *ic.Highest
		}
		res.Items = append(res.Items, ic)
	}
	res.Savings.Saved = res.Savings.WorstTotal - res.Savings.BestTotal
	if res.Savings.WorstTotal > 0 {
		res.Savings.Percent = roundOne(res.Savings.Saved / res.Savings.WorstTotal * 100)
	}

	var (
		avgSum    float64
		avgCount  int
		cheapest  = -1
		expensive = -1
	)
	for _, marketID := range marketIDs {
		mt := MarketTotal{MarketID: marketID}
		for _, itemID := range itemIDs {
			if p, ok := prices.Get(itemID, marketID); ok {
				mt.Sum += p
				mt.Count++
			}
		}
		if mt.Count > 0 {
			mt.Average = mt.Sum / float64(mt.Count)
			avgSum += mt.Average
			avgCount++
		}
		res.Markets = append(res.Markets, mt)
	}
	for i, mt := range res.Markets {
		if mt.Count == 0 {
			continue
		}
		if cheapest < 0 || mt.Sum < res.Markets[cheapest].Sum {
			cheapest = i
		}
		if expensive < 0 || mt.Sum > res.Markets[expensive].Sum {
			expensive = i
		}
	}
	if cheapest >= 0 {
		c := res.Markets[cheapest]
		res.Cheapest = &c
	}
	if expensive >= 0 {
		e := res.Markets[expensive]
		res.MostExpensive = &e
	}
	if avgCount > 0 {
		res.AverageAcrossMarkets = avgSum / float64(avgCount)
	}
	return res
}

func compareItem(itemID string, marketIDs []string, prices PriceMap) ItemComparison {
	ic := ItemComparison{
		ItemID: itemID,
		Prices: make([]MarketPrice, 0, len(marketIDs)),
	}
	best, highest := -1, -1
	for _, marketID := range marketIDs {
		mp := MarketPrice{MarketID: marketID}
		if p, ok := prices.Get(itemID, marketID); ok {
			v := p
			mp.Price = &v
			ic.Available++
			idx := len(ic.Prices)
			if best < 0 || p < *ic.Prices[best].Price {
				best = idx
			}
			if highest < 0 || p > *ic.Prices[highest].Price {
				highest = idx
			}
		}
		ic.Prices = append(ic.Prices, mp)
	}
	if best < 0 {
		return ic
	}

	ic.Prices[best].IsBest = true
	ic.Prices[highest].IsHighest = true
	lo, hi := *ic.Prices[best].Price, *ic.Prices[highest].Price
	ic.Lowest, ic.Highest = &lo, &hi
	ic.BestMarketID = ic.Prices[best].MarketID
	ic.HighestMarketID = ic.Prices[highest].MarketID
	ic.Delta = hi - lo
	if lo > 0 {
		ic.DeltaPercent = roundOne(ic.Delta / lo * 100)
	}
	return ic
}

// roundOne rounds half away from zero to one decimal place.
func roundOne(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
