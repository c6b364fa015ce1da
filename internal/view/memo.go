package view

import (
	"productdash/internal/catalog"
	"slices"
)

// Source is a product collection that reports a new version whenever its
// contents change. Implementations must be comparable, e.g. pointers.
type Source interface {
	Products() []catalog.Product
	Version() uint64
}

type derivationKey struct {
	src     Source
	version uint64
	term    string
	filters Filters
	sort    Sort
}

// Pipeline caches the last derivation and recomputes only when the source
// version or a parameter that feeds search, filter or sort changes. Paging
// through a cached derivation is cheap. It is not safe for concurrent use.
type Pipeline struct {
	key      derivationKey
	filtered []catalog.Product
	valid    bool
	runs     int
}

// Run returns the view of src under st. The result owns its slices, so
// callers may modify them without touching the cache.
func (p *Pipeline) Run(src Source, st State) Result {
	key := derivationKey{
		src:     src,
		version: src.Version(),
		term:    st.DebouncedSearchTerm,
		filters: st.Filters,
		sort:    st.Sort,
	}
	if !p.valid || p.key != key {
		p.filtered = Derive(src.Products(), st)
		p.key = key
		p.valid = true
		p.runs++
	}
	return page(slices.Clone(p.filtered), st.CurrentPage)
}

// Runs counts how many times the derivation was recomputed.
func (p *Pipeline) Runs() int {
	return p.runs
}

// Invalidate drops the cached derivation.
func (p *Pipeline) Invalidate() {
	p.valid = false
	p.filtered = nil
}
