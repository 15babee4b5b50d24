package compare

// PriceMap is a sparse itemID -> marketID -> price table. A missing entry means the
// item is not available at that market and is never read as zero.
type PriceMap map[string]map[string]float64

// PriceEntry is one row of the Price collection projected onto identifiers.
type PriceEntry struct {
	ItemID   string  `json:"item_id"`
	MarketID string  `json:"market_id"`
	Price    float64 `json:"price"`
}

// NewPriceMap projects entries into a PriceMap. A later entry for the same pair
// replaces an earlier one.
func NewPriceMap(entries []PriceEntry) PriceMap {
	pm := make(PriceMap, len(entries))
	for _, e := range entries {
		pm.Set(e.ItemID, e.MarketID, e.Price)
	}
	return pm
}

func (pm PriceMap) Set(itemID, marketID string, price float64) {
	row, ok := pm[itemID]
	if !ok {
		row = make(map[string]float64)
		pm[itemID] = row
	}
	row[marketID] = price
}

// Get reports the price of itemID at marketID and whether one exists.
func (pm PriceMap) Get(itemID, marketID string) (float64, bool) {
	row, ok := pm[itemID]
	if !ok {
		return 0, false
	}
	p, ok := row[marketID]
	return p, ok
}

// Len counts the (item, market) pairs that carry a price.
func (pm PriceMap) Len() int {
	n := 0
	for _, row := range pm {
		n += len(row)
	}
	return n
}

func (pm PriceMap) Clone() PriceMap {
	out := make(PriceMap, len(pm))
	for itemID, row := range pm {
		cp := make(map[string]float64, len(row))
		for marketID, p := range row {
			cp[marketID] = p
		}
		out[itemID] = cp
	}
	return out
}

// Entries flattens the map back into rows, ordered by the given item and market order.
// Pairs whose ids are not listed are skipped.
func (pm PriceMap) Entries(itemOrder, marketOrder []string) []PriceEntry {
	var out []PriceEntry
	for _, itemID := range itemOrder {
		for _, marketID := range marketOrder {
			if p, ok := pm.Get(itemID, marketID); ok {
				out = append(out, PriceEntry{ItemID: itemID, MarketID: marketID, Price: p})
			}
		}
	}
	return out
}
