// Package view derives the visible table page from the catalog and the
// user's view parameters: search, filter, sort, paginate, in that order.
package view

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filters are exact-match constraints. An empty field is unset.
type Filters struct {
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Sort selects the ordering. An empty Key leaves catalog order untouched.
type Sort struct {
	Key       string    `json:"key,omitempty"`
	Direction Direction `json:"direction"`
}

// Toggle returns the ordering after the user clicks the header for key:
// the same key flips direction, a new key starts ascending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key && s.Direction != Desc {
		return Sort{Key: key, Direction: Desc}
	}
	return Sort{Key: key, Direction: Asc}
}

// State is everything the user controls about the table.
type State struct {
	SearchTerm          string  `json:"search_term"`
	DebouncedSearchTerm string  `json:"debounced_search_term"`
	Filters             Filters `json:"filters"`
	Sort                Sort    `json:"sort"`
	CurrentPage         int     `json:"current_page"`
}

// NewState returns the state of a freshly opened table.
func NewState() State {
	return State{
		Sort:        Sort{Direction: Asc},
		CurrentPage: 1,
	}
}

// NextPage advances one page without passing the last one.
func NextPage(current, totalPages int) int {
	return max(min(current+1, totalPages), 1)
}

// PrevPage goes back one page without passing the first one.
func PrevPage(current int) int {
	return max(current-1, 1)
}

// ClampPage forces page into [1, max(totalPages, 1)].
func ClampPage(page, totalPages int) int {
	return min(max(page, 1), max(totalPages, 1))
}

// ReconcilePage returns the page to show after the result set shrank. A
// page beyond the last one resets to the first while any page remains.
func ReconcilePage(current, totalPages int) int {
	if totalPages >= 1 && current > totalPages {
		return 1
	}
	return current
}
