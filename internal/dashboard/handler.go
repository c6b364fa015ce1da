// internal/dashboard/handler.go
package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"productdash/internal/journal"
	"productdash/internal/view"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// DefaultEventLimit caps GET /events when no limit is given.
const DefaultEventLimit = 100

type Handler struct {
	service Service
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewHandler serves service over HTTP. Mutating routes share limiter; a nil
// limiter disables rate limiting.
func NewHandler(service Service, limiter *rate.Limiter, logger *slog.Logger) *Handler {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, limiter: limiter, logger: logger}
}

// Routes returns the router with middleware applied.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID)
	r.Use(WithLogging(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Get("/view", h.handleView)
	r.Get("/events", h.handleEvents)

	r.Group(func(r chi.Router) {
		r.Use(WithRateLimit(h.limiter))

		r.Put("/search", h.handleSetSearch)
		r.Post("/search/flush", h.handleFlushSearch)
		r.Put("/filters", h.handleSetFilters)
		r.Put("/sort", h.handleSetSort)
		r.Post("/sort/{key}/toggle", h.handleToggleSort)

		r.Post("/page/next", h.handleNextPage)
		r.Post("/page/prev", h.handlePrevPage)
		r.Put("/page", h.handleSetPage)

		r.Delete("/products/{id}", h.handleDeleteProduct)

		r.Post("/cart/items", h.handleAddToCart)
		r.Patch("/cart/items/{id}", h.handleUpdateQuantity)
		r.Delete("/cart/items/{id}", h.handleRemoveFromCart)
		r.Put("/cart/open", h.handleSetCartOpen)
		r.Post("/cart/toggle", h.handleToggleCart)

		r.Post("/columns/drag", h.handleBeginDrag)
		r.Put("/columns/drag", h.handleDragOver)
		r.Post("/columns/drop", h.handleDrop)
		r.Delete("/columns/drag", h.handleEndDrag)
	})
	return r
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return 0, false
	}
	return id, true
}

// render answers a successful request with the current view.
func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Render(r.Context()))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if aggregate := q.Get("aggregate"); aggregate != "" {
		h.handleHistory(w, r, aggregate)
		return
	}
	var after int64
	if s := q.Get("after"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			WriteJSONError(w, http.StatusBadRequest, "invalid_query", "after must be a non-negative integer")
			return
		}
		after = v
	}
	limit := DefaultEventLimit
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			WriteJSONError(w, http.StatusBadRequest, "invalid_query", "limit must be a positive integer")
			return
		}
		limit = min(v, DefaultEventLimit)
	}

	events, err := h.service.Events(r.Context(), after, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if events == nil {
		events = []journal.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// handleHistory serves GET /events?aggregate=<type>&from_version=<n>.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request, aggregate string) {
	var from int
	if s := r.URL.Query().Get("from_version"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			WriteJSONError(w, http.StatusBadRequest, "invalid_query", "from_version must be a non-negative integer")
			return
		}
		from = v
	}

	events, err := h.service.History(r.Context(), aggregate, from)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if events == nil {
		events = []journal.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) handleSetSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.service.SetSearch(r.Context(), req.Term)
	h.render(w, r)
}

func (h *Handler) handleFlushSearch(w http.ResponseWriter, r *http.Request) {
	h.service.FlushSearch(r.Context())
	h.render(w, r)
}

func (h *Handler) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var req view.Filters
	if !decodeJSON(w, r, &req) {
		return
	}
	h.service.SetFilters(r.Context(), req)
	h.render(w, r)
}

func (h *Handler) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderBy string `json:"order_by"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sort, err := view.ParseSort(req.OrderBy)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_sort", err.Error())
		return
	}
	if err := h.service.SetSort(r.Context(), sort); err != nil {
		writeServiceError(w, err)
		return
	}
	h.render(w, r)
}

func (h *Handler) handleToggleSort(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ToggleSort(r.Context(), chi.URLParam(r, "key")); err != nil {
		writeServiceError(w, err)
		return
	}
	h.render(w, r)
}

func (h *Handler) handleNextPage(w http.ResponseWriter, r *http.Request) {
	h.service.NextPage(r.Context())
	h.render(w, r)
}

func (h *Handler) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	h.service.PrevPage(r.Context())
	h.render(w, r)
}

func (h *Handler) handleSetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.service.SetPage(r.Context(), req.Page)
	h.render(w, r)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	h.render(w, r)
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"product_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.service.AddToCart(r.Context(), req.ProductID); err != nil {
		writeServiceError(w, err)
		return
	}
	h.render(w, r)
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.service.UpdateQuantity(r.Context(), id, req.Quantity); err != nil {
		writeServiceError(w, err)
		return
	}
	h.render(w, r)
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveFromCart(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	h.render(w, r)
}

func (h *Handler) handleSetCartOpen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Open bool `json:"open"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.service.SetCartOpen(r.Context(), req.Open)
	h.render(w, r)
}

func (h *Handler) handleToggleCart(w http.ResponseWriter, r *http.Request) {
	h.service.ToggleCart(r.Context())
	h.render(w, r)
}

type columnIndex struct {
	Index int `json:"index"`
}

func (h *Handler) handleBeginDrag(w http.ResponseWriter, r *http.Request) {
	var req columnIndex
	if !decodeJSON(w, r, &req) {
		return
	}
	h.service.BeginDrag(r.Context(), req.Index)
	h.render(w, r)
}

func (h *Handler) handleDragOver(w http.ResponseWriter, r *http.Request) {
	var req columnIndex
	if !decodeJSON(w, r, &req) {
		return
	}
	h.service.DragOver(r.Context(), req.Index)
	h.render(w, r)
}

func (h *Handler) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req columnIndex
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := h.service.Drop(r.Context(), req.Index); err != nil {
		writeServiceError(w, err)
		return
	}
	h.render(w, r)
}

func (h *Handler) handleEndDrag(w http.ResponseWriter, r *http.Request) {
	h.service.EndDrag(r.Context())
	h.render(w, r)
}
