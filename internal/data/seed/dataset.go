// Package seed loads the demo catalog and writes it into the catalog store.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/prizely-backend/internal/domain/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var defaultDataset []byte

type ItemSpec struct {
	Name  string `yaml:"name"`
	Unit  string `yaml:"unit"`
	Emoji string `yaml:"emoji"`
	// Prices follows the dataset's market order; a null entry means the market does
	// not carry the item.
	Prices []*float64 `yaml:"prices"`
}

type MarketSpec struct {
	Name     string   `yaml:"name"`
	Rating   *float64 `yaml:"rating"`
	Verified bool     `yaml:"verified"`
}

// Selection names the items and markets a fresh comparison starts with.
type Selection struct {
	Items   []string `yaml:"items" json:"items"`
	Markets []string `yaml:"markets" json:"markets"`
}

type Dataset struct {
	Defaults Selection    `yaml:"defaults"`
	Markets  []MarketSpec `yaml:"markets"`
	Items    []ItemSpec   `yaml:"items"`
}

// Default returns the embedded demo catalog.
func Default() (*Dataset, error) {
	return Parse(defaultDataset)
}

// Load reads a dataset from a YAML file.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	ds, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

func Parse(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (ds *Dataset) Validate() error {
	marketNames := make(map[string]struct{}, len(ds.Markets))
	for i, m := range ds.Markets {
		key := strings.ToLower(strings.TrimSpace(m.Name))
		if key == "" {
			return fmt.Errorf("market %d: name is required", i)
		}
		if _, dup := marketNames[key]; dup {
			return fmt.Errorf("market %q: duplicate name", m.Name)
		}
		if !catalog.ValidRating(m.Rating) {
			return fmt.Errorf("market %q: rating must be between %v and %v", m.Name, catalog.MinRating, catalog.MaxRating)
		}
		marketNames[key] = struct{}{}
	}

	itemNames := make(map[string]struct{}, len(ds.Items))
	for i, it := range ds.Items {
		key := strings.ToLower(strings.TrimSpace(it.Name))
		if key == "" {
			return fmt.Errorf("item %d: name is required", i)
		}
		if _, dup := itemNames[key]; dup {
			return fmt.Errorf("item %q: duplicate name", it.Name)
		}
		if !catalog.ValidUnit(it.Unit) {
			return fmt.Errorf("item %q: unknown unit %q", it.Name, it.Unit)
		}
		if len(it.Prices) != 0 && len(it.Prices) != len(ds.Markets) {
			return fmt.Errorf("item %q: has %d prices for %d markets", it.Name, len(it.Prices), len(ds.Markets))
		}
		for _, p := range it.Prices {
			if p != nil && !catalog.ValidPrice(*p) {
				return fmt.Errorf("item %q: invalid price %v", it.Name, *p)
			}
		}
		itemNames[key] = struct{}{}
	}

	for _, n := range ds.Defaults.Items {
		if _, ok := itemNames[strings.ToLower(n)]; !ok {
			return fmt.Errorf("defaults: unknown item %q", n)
		}
	}
	for _, n := range ds.Defaults.Markets {
		if _, ok := marketNames[strings.ToLower(n)]; !ok {
			return fmt.Errorf("defaults: unknown market %q", n)
		}
	}
	return nil
}

// PriceCount is the number of (item, market) prices the dataset defines.
func (ds *Dataset) PriceCount() int {
	n := 0
	for _, it := range ds.Items {
		for _, p := range it.Prices {
			if p != nil {
				n++
			}
		}
	}
	return n
}
