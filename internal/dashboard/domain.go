// internal/dashboard/domain.go
package dashboard

import (
	"productdash/internal/cart"
	"productdash/internal/catalog"
	"productdash/internal/columns"
	"productdash/internal/view"
)

// Journal event types recorded by the session.
const (
	EventProductDeleted      = "ProductDeleted"
	EventCartItemAdded       = "CartItemAdded"
	EventCartItemRemoved     = "CartItemRemoved"
	EventCartQuantityUpdated = "CartQuantityUpdated"
	EventColumnsReordered    = "ColumnsReordered"
)

// Aggregate types used as journal streams. Each session keeps one stream
// per aggregate.
const (
	AggregateCatalog = "catalog"
	AggregateCart    = "cart"
	AggregateColumns = "columns"
)

// View is everything the presentation layer needs for one render pass.
type View struct {
	State          view.State        `json:"state"`
	Rows           []catalog.Product `json:"rows"`
	Columns        []columns.Column  `json:"columns"`
	Page           PageInfo          `json:"page"`
	Cart           cart.Summary      `json:"cart"`
	Categories     []string          `json:"categories"`
	Statuses       []string          `json:"statuses"`
	Summary        catalog.Summary   `json:"summary"`
	DraggingColumn *int              `json:"dragging_column,omitempty"`
	SearchPending  bool              `json:"search_pending"`
}

// PageInfo describes the visible page. From and To are 1-based row
// positions within the filtered results, zero when there are none.
type PageInfo struct {
	Current      int  `json:"current"`
	TotalPages   int  `json:"total_pages"`
	TotalResults int  `json:"total_results"`
	From         int  `json:"from"`
	To           int  `json:"to"`
	HasPrev      bool `json:"has_prev"`
	HasNext      bool `json:"has_next"`
}

// ProductDeletedEvent is recorded when a product leaves the catalog.
type ProductDeletedEvent struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
}

// CartItemAddedEvent carries the line quantity after the add.
type CartItemAddedEvent struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartItemRemovedEvent is recorded when a line leaves the cart.
type CartItemRemovedEvent struct {
	ProductID int64 `json:"product_id"`
}

// CartQuantityUpdatedEvent is recorded when a line's quantity is set.
type CartQuantityUpdatedEvent struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ColumnsReorderedEvent records a completed drop.
type ColumnsReorderedEvent struct {
	From  int      `json:"from"`
	To    int      `json:"to"`
	Order []string `json:"order"`
}
