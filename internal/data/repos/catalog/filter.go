package catalog

import (
	"strings"

	"github.com/google/uuid"
)

// ItemFilter narrows item listings. Query matches a case-insensitive name substring.
type ItemFilter struct {
	Query      string
	WithPrices bool
}

type MarketFilter struct {
	Query        string
	VerifiedOnly bool
}

// PriceFilter restricts prices to the given items and markets; empty means all.
type PriceFilter struct {
	ItemIDs   []uuid.UUID
	MarketIDs []uuid.UUID
}

func likePattern(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
