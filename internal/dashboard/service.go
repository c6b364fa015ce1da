// internal/dashboard/service.go
package dashboard

import (
	"context"
	"errors"
	"productdash/internal/cart"
	"productdash/internal/journal"
	"productdash/internal/view"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrUnknownAggregate = errors.New("unknown aggregate")
)

// Service is one user's dashboard session. Every operation is applied
// atomically; reads never observe a half-applied change.
type Service interface {
	Render(ctx context.Context) View
	Cart(ctx context.Context) cart.Summary

	SetSearch(ctx context.Context, term string)
	FlushSearch(ctx context.Context)
	SetFilters(ctx context.Context, f view.Filters)
	SetCategoryFilter(ctx context.Context, category string)
	SetStatusFilter(ctx context.Context, status string)
	SetSort(ctx context.Context, s view.Sort) error
	ToggleSort(ctx context.Context, key string) error

	NextPage(ctx context.Context)
	PrevPage(ctx context.Context)
	SetPage(ctx context.Context, page int)

	DeleteProduct(ctx context.Context, id int64) error

	AddToCart(ctx context.Context, id int64) error
	RemoveFromCart(ctx context.Context, id int64) error
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	ToggleCart(ctx context.Context)
	SetCartOpen(ctx context.Context, open bool)

	BeginDrag(ctx context.Context, index int) bool
	DragOver(ctx context.Context, index int)
	Drop(ctx context.Context, target int) (bool, error)
	EndDrag(ctx context.Context)

	Events(ctx context.Context, afterID int64, limit int) ([]journal.Event, error)
	History(ctx context.Context, aggregate string, fromVersion int) ([]journal.Event, error)
	Close()
}
