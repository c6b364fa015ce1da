package view

import (
	"cmp"
	"productdash/internal/catalog"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// PageSize is the number of rows per page.
const PageSize = 10

var comparators = map[string]func(a, b catalog.Product) int{
	"id":       func(a, b catalog.Product) int { return cmp.Compare(a.ID, b.ID) },
	"name":     func(a, b catalog.Product) int { return cmp.Compare(a.Name, b.Name) },
	"category": func(a, b catalog.Product) int { return cmp.Compare(a.Category, b.Category) },
	"price":    func(a, b catalog.Product) int { return a.Price.Cmp(b.Price) },
	"stock":    func(a, b catalog.Product) int { return cmp.Compare(a.Stock, b.Stock) },
	"status":   func(a, b catalog.Product) int { return cmp.Compare(a.Status, b.Status) },
}

// SortKeys lists the product attributes the pipeline can sort by.
func SortKeys() []string {
	keys := make([]string, 0, len(comparators))
	for k := range comparators {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// IsSortKey reports whether key is a sortable product attribute.
func IsSortKey(key string) bool {
	_, ok := comparators[key]
	return ok
}

// Search keeps products whose name or category contains term, ignoring
// case. An empty term keeps everything.
func Search(products []catalog.Product, term string) []catalog.Product {
	if term == "" {
		return slices.Clone(products)
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(fold.String(p.Name), needle) || strings.Contains(fold.String(p.Category), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Filter keeps products matching every set filter.
func Filter(products []catalog.Product, f Filters) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts returns a stably sorted copy. Descending order negates the
// comparator, so ties keep their input order either way. An unset or
// unknown key returns the input order.
func SortProducts(products []catalog.Product, s Sort) []catalog.Product {
	out := slices.Clone(products)
	compare, ok := comparators[s.Key]
	if !ok {
		return out
	}
	if s.Direction == Desc {
		slices.SortStableFunc(out, func(a, b catalog.Product) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// TotalPages returns ceil(n / PageSize); zero rows give zero pages.
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Paginate returns the rows of page, after clamping it into range.
func Paginate(products []catalog.Product, page int) []catalog.Product {
	page = ClampPage(page, TotalPages(len(products)))
	start := min((page-1)*PageSize, len(products))
	end := min(start+PageSize, len(products))
	return products[start:end]
}

// Result is one derived view of the catalog.
type Result struct {
	// Filtered is the searched, filtered and sorted collection.
	Filtered   []catalog.Product `json:"-"`
	Rows       []catalog.Product `json:"rows"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
	Page       int               `json:"page"`
	From       int               `json:"from"`
	To         int               `json:"to"`
}

// Derive runs search, filter and sort; it ignores the raw search term.
func Derive(products []catalog.Product, st State) []catalog.Product {
	out := Search(products, st.DebouncedSearchTerm)
	out = Filter(out, st.Filters)
	return SortProducts(out, st.Sort)
}

// Apply runs the whole pipeline without caching.
func Apply(products []catalog.Product, st State) Result {
	return page(Derive(products, st), st.CurrentPage)
}

func page(filtered []catalog.Product, current int) Result {
	r := Result{
		Filtered:   filtered,
		Total:      len(filtered),
		TotalPages: TotalPages(len(filtered)),
	}
	r.Page = ClampPage(current, r.TotalPages)
	r.Rows = Paginate(filtered, r.Page)
	if len(r.Rows) > 0 {
		r.From = (r.Page-1)*PageSize + 1
		r.To = r.From + len(r.Rows) - 1
	}
	return r
}
