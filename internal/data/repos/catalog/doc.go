// Package catalog holds the GORM repositories for items, markets and prices.
//
// Every method takes an optional *gorm.DB transaction; a nil tx runs against the
// repository's own handle. Not-found lookups return gorm.ErrRecordNotFound so callers
// can translate them with errors.Is.
package catalog
