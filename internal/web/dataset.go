package web

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aargau-farmshops/internal/record"
)

// Dataset is the immutable in-memory view of all written canton files.
type Dataset struct {
	shops  []record.Shop
	byID   map[int]record.Shop
	counts map[string]int // canton → shop count
}

// LoadDataset reads every JSON file of the data directory, unwraps the
// collection key and aggregates the shops. Files that do not parse are
// skipped; an empty directory is an error because the viewer would have
// nothing to serve.
func LoadDataset(dir, collectionKey string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dir, err)
	}

	dataset := &Dataset{
		byID:   make(map[int]record.Shop),
		counts: make(map[string]int),
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		var payload map[string]json.RawMessage
		if err := json.Unmarshal(data, &payload); err != nil {
			continue
		}

		var shops []record.Shop
		if err := json.Unmarshal(payload[collectionKey], &shops); err != nil {
			continue
		}

		for _, shop := range shops {
			dataset.shops = append(dataset.shops, shop)
			dataset.byID[shop.ID] = shop
			dataset.counts[shop.Canton]++
		}
	}

	if len(dataset.shops) == 0 {
		return nil, fmt.Errorf("no shops found in %s", dir)
	}

	sort.Slice(dataset.shops, func(i, j int) bool {
		return dataset.shops[i].ID < dataset.shops[j].ID
	})
	return dataset, nil
}

// Len returns the number of loaded shops.
func (d *Dataset) Len() int {
	return len(d.shops)
}

// ByID returns the shop with the given id.
func (d *Dataset) ByID(id int) (record.Shop, bool) {
	shop, ok := d.byID[id]
	return shop, ok
}

// Filter selects shops matching all given criteria. Empty criteria match
// everything.
type Filter struct {
	Canton  string // case-insensitive canton name
	Organic *bool
	Product string // product tag
	Query   string // case-insensitive substring of name or address
	Limit   int    // 0 means no limit
}

// Select returns the shops matching the filter, in id order.
func (d *Dataset) Select(f Filter) []record.Shop {
	var out []record.Shop
	for _, shop := range d.shops {
		if !matches(shop, f) {
			continue
		}
		out = append(out, shop)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

// CantonCounts returns canton names with their shop counts, sorted by
// name.
func (d *Dataset) CantonCounts() []CantonCount {
	out := make([]CantonCount, 0, len(d.counts))
	for canton, count := range d.counts {
		out = append(out, CantonCount{Canton: canton, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canton < out[j].Canton })
	return out
}

// CantonCount pairs a canton with its shop count.
type CantonCount struct {
	Canton string `json:"canton"`
	Count  int    `json:"count"`
}

func matches(shop record.Shop, f Filter) bool {
	if f.Canton != "" && !strings.EqualFold(shop.Canton, f.Canton) {
		return false
	}
	if f.Organic != nil && shop.Organic != *f.Organic {
		return false
	}
	if f.Product != "" {
		found := false
		for _, p := range shop.Products {
			if strings.EqualFold(p, f.Product) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(shop.Name), q) &&
			!strings.Contains(strings.ToLower(shop.Address), q) {
			return false
		}
	}
	return true
}
