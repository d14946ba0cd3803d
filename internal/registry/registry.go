// Package registry loads and holds the county reference table used to
// normalize deed county names and look up transfer tax rates.
package registry

import (
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// County is a single canonical county name with its transfer tax rate,
// expressed as a decimal fraction.
type County struct {
	Name    string
	TaxRate decimal.Decimal
}

// Registry is an ordered, read-only collection of counties. It is loaded
// once per invocation and safe to share across concurrent pipeline runs.
// Entry order is load order; the resolver's tie-break depends on it.
type Registry struct {
	counties []County
	byName   map[string]int
}

// New validates the given counties and builds a Registry. Entries with an
// empty name or a negative tax rate are rejected, as are duplicate canonical
// names: a name must map to exactly one rate.
func New(counties []County) (*Registry, error) {
	if len(counties) == 0 {
		return nil, eris.New("registry: no counties")
	}

	byName := make(map[string]int, len(counties))
	for i, c := range counties {
		if c.Name == "" {
			return nil, eris.Errorf("registry: entry %d has an empty name", i)
		}
		if c.TaxRate.IsNegative() {
			return nil, eris.Errorf("registry: county %q has negative tax rate %s", c.Name, c.TaxRate)
		}
		if _, dup := byName[c.Name]; dup {
			return nil, eris.Errorf("registry: duplicate county name %q", c.Name)
		}
		byName[c.Name] = i
	}

	return &Registry{counties: counties, byName: byName}, nil
}

// Counties returns the registry entries in load order. Callers must treat
// the returned slice as read-only.
func (r *Registry) Counties() []County {
	return r.counties
}

// Len reports the number of entries.
func (r *Registry) Len() int {
	return len(r.counties)
}

// Rate returns the tax rate for a canonical county name.
func (r *Registry) Rate(name string) (decimal.Decimal, bool) {
	i, ok := r.byName[name]
	if !ok {
		return decimal.Zero, false
	}
	return r.counties[i].TaxRate, true
}
