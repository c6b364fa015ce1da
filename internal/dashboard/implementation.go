// internal/dashboard/implementation.go
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"productdash/internal/cart"
	"productdash/internal/catalog"
	"productdash/internal/columns"
	"productdash/internal/debounce"
	"productdash/internal/journal"
	"productdash/internal/view"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSearchDebounce is how long the search input must stay unchanged
// before it reaches the pipeline.
const DefaultSearchDebounce = 300 * time.Millisecond

// Option configures a session.
type Option func(*options)

type options struct {
	columns   []columns.Column
	delay     time.Duration
	scheduler debounce.Scheduler
	journal   *journal.Journal
	logger    *slog.Logger
	meters    metric.MeterProvider
}

// WithColumns replaces the default column set.
func WithColumns(cols []columns.Column) Option {
	return func(o *options) { o.columns = cols }
}

// WithSearchDebounce sets the search debounce delay.
func WithSearchDebounce(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// WithScheduler drives the search debounce from s instead of the wall clock.
func WithScheduler(s debounce.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithJournal records session events into j.
func WithJournal(j *journal.Journal) Option {
	return func(o *options) { o.journal = j }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMeterProvider sets where session counters are recorded. The global
// provider is used otherwise.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meters = mp }
}

// service implements the Service interface.
type service struct {
	mu       sync.Mutex
	id       uuid.UUID
	catalog  *catalog.Catalog
	pipeline view.Pipeline
	state    view.State
	search   *debounce.Value[string]
	columns  *columns.Manager
	cart     *cart.Cart
	journal  *journal.Journal
	streams  map[string]uuid.UUID
	logger   *slog.Logger
	tracer   trace.Tracer

	mutations metric.Int64Counter
	searches  metric.Int64Counter
}

// NewService starts a session over products.
func NewService(products []catalog.Product, opts ...Option) (Service, error) {
	o := options{
		columns: columns.Defaults(),
		delay:   DefaultSearchDebounce,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.journal == nil {
		o.journal = journal.New()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.meters == nil {
		o.meters = otel.GetMeterProvider()
	}

	c, err := catalog.New(products)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	cols, err := columns.New(o.columns)
	if err != nil {
		return nil, fmt.Errorf("load columns: %w", err)
	}

	meter := o.meters.Meter("productdash/dashboard")
	s := &service{
		id:      uuid.New(),
		catalog: c,
		state:   view.NewState(),
		columns: cols,
		cart:    cart.New(),
		journal: o.journal,
		streams: map[string]uuid.UUID{
			AggregateCatalog: uuid.New(),
			AggregateCart:    uuid.New(),
			AggregateColumns: uuid.New(),
		},
		tracer:    otel.Tracer("productdash/dashboard"),
		mutations: newCounter(meter, "dashboard.mutations", "Session mutations applied"),
		searches:  newCounter(meter, "dashboard.search.published", "Debounced search terms published"),
	}
	s.logger = o.logger.With("session_id", s.id.String())

	var dopts []debounce.Option
	if o.scheduler != nil {
		dopts = append(dopts, debounce.WithScheduler(o.scheduler))
	}
	s.search = debounce.New("", o.delay, s.publishSearch, dopts...)

	s.logger.Info("session_started", "products", c.Len(), "search_debounce_ms", o.delay.Milliseconds())
	return s, nil
}

func newCounter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

// publishSearch runs on the debounce timer. The debounced value is re-read
// under the session lock so a stale callback cannot overwrite a newer term.
func (s *service) publishSearch(string) {
	s.mu.Lock()
	term := s.search.Output()
	s.state.DebouncedSearchTerm = term
	s.mu.Unlock()

	s.searches.Add(context.Background(), 1)
	s.logger.Debug("search_published", "term", term)
}

func (s *service) Render(ctx context.Context) View {
	_, span := s.tracer.Start(ctx, "dashboard.render")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.pipeline.Run(s.catalog, s.state)
	v := View{
		State:   s.state,
		Rows:    res.Rows,
		Columns: s.columns.Columns(),
		Page: PageInfo{
			Current:      res.Page,
			TotalPages:   res.TotalPages,
			TotalResults: res.Total,
			From:         res.From,
			To:           res.To,
			HasPrev:      res.Page > 1,
			HasNext:      res.Page < res.TotalPages,
		},
		Cart:          s.cart.Summary(),
		Categories:    s.catalog.Categories(),
		Statuses:      s.catalog.Statuses(),
		Summary:       s.catalog.Summary(),
		SearchPending: s.search.Pending(),
	}
	if i, ok := s.columns.Dragging(); ok {
		v.DraggingColumn = &i
	}

	span.SetAttributes(
		attribute.Int("page.current", res.Page),
		attribute.Int("page.total", res.TotalPages),
		attribute.Int("results.total", res.Total),
	)
	return v
}

func (s *service) Cart(ctx context.Context) cart.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Summary()
}

func (s *service) SetSearch(ctx context.Context, term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchTerm = term
	s.search.Set(term)
}

// FlushSearch publishes a pending search term immediately. It must not run
// under the session lock because publishing takes it.
func (s *service) FlushSearch(ctx context.Context) {
	s.search.Flush()
}

// SetFilters replaces both filters in one step.
func (s *service) SetFilters(ctx context.Context, f view.Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filters = f
}

func (s *service) SetCategoryFilter(ctx context.Context, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filters.Category = category
}

func (s *service) SetStatusFilter(ctx context.Context, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filters.Status = status
}

func (s *service) SetSort(ctx context.Context, sort view.Sort) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sort.Key != "" && !s.sortable(sort.Key) {
		return fmt.Errorf("%w: %q", view.ErrUnknownSortKey, sort.Key)
	}
	if sort.Direction != view.Desc {
		sort.Direction = view.Asc
	}
	s.state.Sort = sort
	return nil
}

func (s *service) ToggleSort(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sortable(key) {
		return fmt.Errorf("%w: %q", view.ErrUnknownSortKey, key)
	}
	s.state.Sort = s.state.Sort.Toggle(key)
	return nil
}

func (s *service) sortable(key string) bool {
	return view.IsSortKey(key) && s.columns.Sortable(key)
}

func (s *service) totalPages() int {
	return s.pipeline.Run(s.catalog, s.state).TotalPages
}

func (s *service) NextPage(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentPage = view.NextPage(s.state.CurrentPage, s.totalPages())
}

func (s *service) PrevPage(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentPage = view.PrevPage(s.state.CurrentPage)
}

func (s *service) SetPage(ctx context.Context, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentPage = view.ClampPage(page, s.totalPages())
}

// DeleteProduct removes a product and re-validates the current page. Cart
// lines for the product are left alone.
func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "dashboard.delete_product",
		trace.WithAttributes(attribute.Int64("product.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.catalog.Get(id)
	if !ok {
		span.SetAttributes(attribute.Bool("product.found", false))
		return nil
	}
	s.catalog.Delete(id)

	before := s.state.CurrentPage
	s.state.CurrentPage = view.ReconcilePage(before, s.totalPages())

	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "delete_product")))
	s.logger.Info("product_deleted",
		"product_id", id,
		"remaining", s.catalog.Len(),
		"page_before", before,
		"page_after", s.state.CurrentPage,
	)
	return s.record(ctx, AggregateCatalog, EventProductDeleted, ProductDeletedEvent{ProductID: id, Name: p.Name})
}

func (s *service) AddToCart(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "dashboard.add_to_cart",
		trace.WithAttributes(attribute.Int64("product.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.catalog.Get(id)
	if !ok {
		return fmt.Errorf("product %d: %w", id, ErrProductNotFound)
	}
	s.cart.Add(p)
	line, _ := s.cart.Line(id)

	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "add_to_cart")))
	s.logger.Info("cart_item_added", "product_id", id, "quantity", line.Quantity, "cart_count", s.cart.Count())
	return s.record(ctx, AggregateCart, EventCartItemAdded, CartItemAddedEvent{ProductID: id, Quantity: line.Quantity})
}

func (s *service) RemoveFromCart(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "dashboard.remove_from_cart",
		trace.WithAttributes(attribute.Int64("product.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cart.Line(id); !ok {
		return nil
	}
	s.cart.Remove(id)

	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "remove_from_cart")))
	s.logger.Info("cart_item_removed", "product_id", id, "cart_count", s.cart.Count())
	return s.record(ctx, AggregateCart, EventCartItemRemoved, CartItemRemovedEvent{ProductID: id})
}

func (s *service) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	ctx, span := s.tracer.Start(ctx, "dashboard.update_quantity",
		trace.WithAttributes(
			attribute.Int64("product.id", id),
			attribute.Int("quantity", quantity),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cart.Line(id); !ok {
		return nil
	}
	s.cart.UpdateQuantity(id, quantity)

	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "update_quantity")))
	s.logger.Info("cart_quantity_updated", "product_id", id, "quantity", quantity, "cart_count", s.cart.Count())
	if quantity <= 0 {
		return s.record(ctx, AggregateCart, EventCartItemRemoved, CartItemRemovedEvent{ProductID: id})
	}
	return s.record(ctx, AggregateCart, EventCartQuantityUpdated, CartQuantityUpdatedEvent{ProductID: id, Quantity: quantity})
}

func (s *service) ToggleCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Toggle()
}

func (s *service) SetCartOpen(ctx context.Context, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.cart.Open()
	} else {
		s.cart.Close()
	}
}

func (s *service) BeginDrag(ctx context.Context, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columns.BeginDrag(index)
}

func (s *service) DragOver(ctx context.Context, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns.DragOver(index)
}

// Drop finishes a drag by moving the dragged column to target. It reports
// false when no drag was in progress.
func (s *service) Drop(ctx context.Context, target int) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.drop_column",
		trace.WithAttributes(attribute.Int("column.target", target)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.columns.Dragging()
	if !ok {
		return false, nil
	}
	s.columns.Drop(target)
	to := min(max(target, 0), s.columns.Len()-1)

	cols := s.columns.Columns()
	order := make([]string, len(cols))
	for i, c := range cols {
		order[i] = c.Key
	}

	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "reorder_columns")))
	s.logger.Info("columns_reordered", "from", from, "to", to)
	return true, s.record(ctx, AggregateColumns, EventColumnsReordered, ColumnsReorderedEvent{From: from, To: to, Order: order})
}

func (s *service) EndDrag(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns.EndDrag()
}

// Events pages through the session journal in recording order.
func (s *service) Events(ctx context.Context, afterID int64, limit int) ([]journal.Event, error) {
	events, err := s.journal.Stream(ctx, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("stream events: %w", err)
	}
	return events, nil
}

// History returns one aggregate's events from fromVersion on, in version
// order.
func (s *service) History(ctx context.Context, aggregate string, fromVersion int) ([]journal.Event, error) {
	id, ok := s.streams[aggregate]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAggregate, aggregate)
	}
	events, err := s.journal.Load(ctx, id, fromVersion, 0)
	if err != nil {
		return nil, fmt.Errorf("load %s history: %w", aggregate, err)
	}
	return events, nil
}

func (s *service) Close() {
	s.search.Stop()
	s.logger.Info("session_closed")
}

// record appends one event to the aggregate's stream. Callers hold s.mu,
// so the version read here cannot go stale before the append.
func (s *service) record(ctx context.Context, aggregate, eventType string, data any) error {
	e, err := journal.NewEvent(eventType, data)
	if err != nil {
		return err
	}
	e.Metadata = map[string]any{"session_id": s.id.String()}

	id := s.streams[aggregate]
	version, err := s.journal.Version(ctx, id)
	if err != nil {
		return fmt.Errorf("journal version: %w", err)
	}
	if err := s.journal.Append(ctx, id, aggregate, version, []journal.Event{e}); err != nil {
		return fmt.Errorf("record %s: %w", eventType, err)
	}
	return nil
}
