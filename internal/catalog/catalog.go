// Package catalog holds the static innovation reference data: innovation
// records, SDG metadata and regional baseline indicators.
package catalog

import (
	"sort"

	"github.com/sells-group/atio-cli/internal/model"
)

// Catalog is a read-only, indexed view over a loaded dataset. It is safe
// for concurrent use once built.
type Catalog struct {
	innovations []model.Innovation
	byID        map[string]int
	sdgs        map[int]model.SDG
	indicators  []model.RegionIndicators
}

// New indexes the given records. Inputs are copied; callers should run
// Validate first when the data comes from outside the binary.
func New(innovations []model.Innovation, sdgs []model.SDG, indicators []model.RegionIndicators) *Catalog {
	c := &Catalog{
		innovations: make([]model.Innovation, len(innovations)),
		byID:        make(map[string]int, len(innovations)),
		sdgs:        make(map[int]model.SDG, len(sdgs)),
		indicators:  make([]model.RegionIndicators, len(indicators)),
	}
	copy(c.innovations, innovations)
	copy(c.indicators, indicators)
	for i, inn := range c.innovations {
		c.byID[inn.ID] = i
	}
	for _, s := range sdgs {
		c.sdgs[s.ID] = s
	}
	return c
}

// Len returns the number of innovations.
func (c *Catalog) Len() int {
	return len(c.innovations)
}

// Innovations returns a copy of all innovations in catalog order.
func (c *Catalog) Innovations() []model.Innovation {
	out := make([]model.Innovation, len(c.innovations))
	copy(out, c.innovations)
	return out
}

// Get returns the innovation with the given id.
func (c *Catalog) Get(id string) (model.Innovation, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Innovation{}, false
	}
	return c.innovations[i], true
}

// Has reports whether id is a known innovation.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Lookup returns the innovations whose ids are in ids, in catalog order.
// Unknown ids are skipped.
func (c *Catalog) Lookup(ids []string) []model.Innovation {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []model.Innovation
	for _, inn := range c.innovations {
		if _, ok := want[inn.ID]; ok {
			out = append(out, inn)
		}
	}
	return out
}

// SDG returns display metadata for an SDG id. Unknown goals get a generic
// name and no colour.
func (c *Catalog) SDG(id int) (model.SDG, bool) {
	s, ok := c.sdgs[id]
	if !ok {
		return model.SDG{ID: id}, false
	}
	return s, true
}

// SDGs returns all SDG metadata ordered by id.
func (c *Catalog) SDGs() []model.SDG {
	out := make([]model.SDG, 0, len(c.sdgs))
	for _, s := range c.sdgs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Indicators returns the regional baseline for region. When the region has
// no data the first row is returned, and found is false.
func (c *Catalog) Indicators(region string) (ind model.RegionIndicators, found bool) {
	for _, r := range c.indicators {
		if r.Region == region {
			return r, true
		}
	}
	if len(c.indicators) > 0 {
		return c.indicators[0], false
	}
	return model.RegionIndicators{Region: region}, false
}

// AllIndicators returns a copy of every regional indicator row.
func (c *Catalog) AllIndicators() []model.RegionIndicators {
	out := make([]model.RegionIndicators, len(c.indicators))
	copy(out, c.indicators)
	return out
}
