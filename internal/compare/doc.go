// Package compare holds the price comparison core: a sparse price table, the pure
// aggregation engine that turns a selection of items and markets into comparison
// statistics, and the plain-text report rendered for clipboard export.
//
// Nothing in Compare or Body performs I/O or reads the clock. The only time-dependent
// step is the report trailer, which goes through an injected Clock.
package compare
