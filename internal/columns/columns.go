// Package columns keeps the table's column order and applies drag-and-drop
// reordering as plain state transitions.
package columns

import (
	"errors"
	"fmt"
	"slices"
)

var ErrDuplicateKey = errors.New("duplicate column key")

// Column describes one renderable table column.
type Column struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
}

// Defaults returns the product table's column set.
func Defaults() []Column {
	return []Column{
		{Key: "id", Label: "ID", Sortable: true},
		{Key: "image", Label: "Image"},
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "category", Label: "Category", Sortable: true},
		{Key: "price", Label: "Price", Sortable: true},
		{Key: "stock", Label: "Stock", Sortable: true},
		{Key: "status", Label: "Status", Sortable: true},
		{Key: "actions", Label: "Actions"},
	}
}

// Manager holds the column order and the index being dragged, if any.
type Manager struct {
	cols     []Column
	dragged  int
	dragging bool
}

// New returns a manager over a copy of cols.
func New(cols []Column) (*Manager, error) {
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if _, ok := seen[c.Key]; ok {
			return nil, fmt.Errorf("column %q: %w", c.Key, ErrDuplicateKey)
		}
		seen[c.Key] = struct{}{}
	}
	return &Manager{cols: slices.Clone(cols)}, nil
}

// Columns returns the current order.
func (m *Manager) Columns() []Column {
	return slices.Clone(m.cols)
}

// Len returns the number of columns.
func (m *Manager) Len() int {
	return len(m.cols)
}

// Sortable reports whether key names a sortable column.
func (m *Manager) Sortable(key string) bool {
	for _, c := range m.cols {
		if c.Key == key {
			return c.Sortable
		}
	}
	return false
}

// Dragging returns the drag source index while a drag is in progress.
func (m *Manager) Dragging() (int, bool) {
	return m.dragged, m.dragging
}

// BeginDrag records index as the drag source. Out-of-range indexes are
// ignored.
func (m *Manager) BeginDrag(index int) bool {
	if index < 0 || index >= len(m.cols) {
		return false
	}
	m.dragged = index
	m.dragging = true
	return true
}

// DragOver marks index as a drop target. It never changes state.
func (m *Manager) DragOver(index int) {}

// Drop moves the dragged column to target and ends the drag. Without a
// drag in progress it does nothing and reports false.
func (m *Manager) Drop(target int) bool {
	if !m.dragging {
		return false
	}
	m.cols = Move(m.cols, m.dragged, target)
	m.EndDrag()
	return true
}

// EndDrag clears the drag source.
func (m *Manager) EndDrag() {
	m.dragged = 0
	m.dragging = false
}

// Move returns a copy of cols with the element at from removed and
// reinserted at to, counted in the sequence after removal. to is clamped
// into range; an invalid from returns an unchanged copy.
func Move(cols []Column, from, to int) []Column {
	out := slices.Clone(cols)
	if from < 0 || from >= len(out) {
		return out
	}
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	to = min(max(to, 0), len(out))
	return slices.Insert(out, to, moved)
}
