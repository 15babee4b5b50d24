package compare

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	reportTitle     = "     PRICE COMPARISON RESULTS"
	reportBestBadge = " ✓ BEST"
	reportNA        = "N/A"
	timestampLayout = "1/2/2006, 3:04:05 PM"
)

var (
	reportBanner  = strings.Repeat("═", 35)
	reportDivider = strings.Repeat("─", 33)
	upper         = cases.Upper(language.Und)
)

// ItemMeta is the display metadata the report needs for an item.
type ItemMeta struct {
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Emoji *string `json:"emoji,omitempty"`
}

// MarketMeta is the display metadata the report needs for a market.
type MarketMeta struct {
	Name     string   `json:"name"`
	Rating   *float64 `json:"rating,omitempty"`
	Verified bool     `json:"verified"`
}

// UnknownRefError reports an item or market id with no metadata.
type UnknownRefError struct {
	Kind string
	ID   string
}

func (e *UnknownRefError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.ID)
}

// Clock is satisfied by github.com/facebookgo/clock.Clock and its Mock.
type Clock interface {
	Now() time.Time
}

// Formatter renders the text report. Location defaults to time.Local.
type Formatter struct {
	Clock    Clock
	Location *time.Location
}

func NewFormatter(clk Clock, loc *time.Location) *Formatter {
	return &Formatter{Clock: clk, Location: loc}
}

// FormatReport renders the full report including the generation trailer.
func (f *Formatter) FormatReport(
	itemIDs, marketIDs []string,
	prices PriceMap,
	items map[string]ItemMeta,
	markets map[string]MarketMeta,
) (string, error) {
	lines, err := Body(itemIDs, marketIDs, prices, items, markets)
	if err != nil {
		return "", err
	}
	now := time.Now()
	if f != nil && f.Clock != nil {
		now = f.Clock.Now()
	}
	loc := time.Local
	if f != nil && f.Location != nil {
		loc = f.Location
	}
	lines = append(lines, reportBanner, Trailer(now.In(loc)))
	return strings.Join(lines, "\n"), nil
}

// Trailer formats the generation timestamp line.
func Trailer(t time.Time) string {
	return "Generated: " + t.Format(timestampLayout)
}

type reportLine struct {
	market string
	price  float64
	ok     bool
}

// Body renders the header and one block per item, without the trailer. Items keep the
// caller's order; inside a block markets are sorted by price ascending with missing
// prices last, and ties keep the caller's market order.
func Body(
	itemIDs, marketIDs []string,
	prices PriceMap,
	items map[string]ItemMeta,
	markets map[string]MarketMeta,
) ([]string, error) {
	for _, id := range marketIDs {
		if _, ok := markets[id]; !ok {
			return nil, &UnknownRefError{Kind: "market", ID: id}
		}
	}

	lines := []string{reportBanner, reportTitle, reportBanner, ""}
	for _, itemID := range itemIDs {
		meta, ok := items[itemID]
		if !ok {
			return nil, &UnknownRefError{Kind: "item", ID: itemID}
		}
		lines = append(lines, fmt.Sprintf("📦 %s (%s)", upper.String(meta.Name), meta.Unit), reportDivider)

		rows := make([]reportLine, 0, len(marketIDs))
		for _, marketID := range marketIDs {
			p, ok := prices.Get(itemID, marketID)
			rows = append(rows, reportLine{market: markets[marketID].Name, price: p, ok: ok})
		}
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].ok != rows[j].ok {
				return rows[i].ok
			}
			return rows[i].ok && rows[i].price < rows[j].price
		})

		for idx, r := range rows {
			priceStr := reportNA
			if r.ok {
				priceStr = "Rs " + FormatPrice(r.price)
			}
			badge := ""
			if idx == 0 && r.ok {
				badge = reportBestBadge
			}
			lines = append(lines, fmt.Sprintf("  %s: %s%s", r.market, priceStr, badge))
		}
		lines = append(lines, "")
	}
	return lines, nil
}

// FormatPrice prints the shortest decimal form of p ("150", "149.5").
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
