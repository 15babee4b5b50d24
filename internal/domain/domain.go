package domain

import (
	"github.com/yungbote/prizely-backend/internal/domain/catalog"
)

type Item = catalog.Item
type Market = catalog.Market
type Price = catalog.Price
type Unit = catalog.Unit

const (
	UnitKilogram = catalog.UnitKilogram
	UnitGram     = catalog.UnitGram
	UnitLiter    = catalog.UnitLiter
	UnitMl       = catalog.UnitMl
	UnitPiece    = catalog.UnitPiece
	UnitDozen    = catalog.UnitDozen
	UnitPack     = catalog.UnitPack
	UnitBottle   = catalog.UnitBottle
	UnitCan      = catalog.UnitCan
	UnitBag      = catalog.UnitBag
	UnitBox      = catalog.UnitBox
	UnitPacket   = catalog.UnitPacket
	UnitJar      = catalog.UnitJar
	UnitTube     = catalog.UnitTube
)

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&Item{},
		&Market{},
		&Price{},
	}
}
