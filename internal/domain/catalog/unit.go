package catalog

import "strings"

// Unit is the measure an Item is priced in.
type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "gram"
	UnitLiter    Unit = "liter"
	UnitMl       Unit = "ml"
	UnitPiece    Unit = "piece"
	UnitDozen    Unit = "dozen"
	UnitPack     Unit = "pack"
	UnitBottle   Unit = "bottle"
	UnitCan      Unit = "can"
	UnitBag      Unit = "bag"
	UnitBox      Unit = "box"
	UnitPacket   Unit = "packet"
	UnitJar      Unit = "jar"
	UnitTube     Unit = "tube"
)

var units = []Unit{
	UnitKilogram, UnitGram, UnitLiter, UnitMl, UnitPiece, UnitDozen, UnitPack,
	UnitBottle, UnitCan, UnitBag, UnitBox, UnitPacket, UnitJar, UnitTube,
}

// Units lists every accepted unit in display order.
func Units() []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	return out
}

func ValidUnit(s string) bool {
	s = strings.TrimSpace(s)
	for _, u := range units {
		if string(u) == s {
			return true
		}
	}
	return false
}
