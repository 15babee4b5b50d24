package catalog

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Price is the cost of one unit of an Item at a Market. At most one row exists per
// (item, market) pair.
type Price struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_prices_item_market,priority:1" json:"item_id"`
	MarketID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_prices_item_market,priority:2;index" json:"market_id"`
	Price    float64   `gorm:"column:price;not null" json:"price"`

	Item   *Item   `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Market *Market `gorm:"foreignKey:MarketID" json:"market,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Price) TableName() string { return "prices" }

func (p *Price) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func ValidPrice(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
