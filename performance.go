// File: lixenwraith/chain/performance.go
package chain

import "slices"

// Performance holds the performance hints settings. It is either a record of
// settings or a single scalar such as false.
type Performance struct {
	ChainedValueMap[*Config, *Performance]
}

// NewPerformance creates the performance node of parent
func NewPerformance(parent *Config) *Performance {
	p := &Performance{}
	p.setup(parent, p)
	return p
}

var performanceShorthands = []string{
	"assetFilter",
	"hints",
	"maxAssetSize",
	"maxEntrypointSize",
}

// Shorthands lists the field names with a dedicated setter
func (p *Performance) Shorthands() []string {
	return slices.Clone(performanceShorthands)
}

func (p *Performance) AssetFilter(v any) *Performance { return p.Set("assetFilter", v) }
func (p *Performance) Hints(v any) *Performance { return p.Set("hints", v) }
func (p *Performance) MaxAssetSize(v any) *Performance { return p.Set("maxAssetSize", v) }
func (p *Performance) MaxEntrypointSize(v any) *Performance { return p.Set("maxEntrypointSize", v) }
