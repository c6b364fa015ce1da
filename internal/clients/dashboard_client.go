// internal/clients/dashboard_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"productdash/internal/dashboard"
	"productdash/internal/journal"
	"strconv"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limited")
)

// DashboardClient talks to a dashboard session over HTTP. Every mutating
// call returns the view rendered after the change.
type DashboardClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewDashboardClient(baseURL string, httpClient *http.Client) *DashboardClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DashboardClient{baseURL: baseURL, httpClient: httpClient}
}

func (c *DashboardClient) View(ctx context.Context) (*dashboard.View, error) {
	return c.view(ctx, http.MethodGet, "/view", nil)
}

func (c *DashboardClient) Search(ctx context.Context, term string) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPut, "/search", map[string]string{"term": term})
}

func (c *DashboardClient) FlushSearch(ctx context.Context) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPost, "/search/flush", nil)
}

func (c *DashboardClient) SetFilters(ctx context.Context, category, status string) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPut, "/filters", map[string]string{"category": category, "status": status})
}

// SetSort applies an order_by expression such as "price desc".
func (c *DashboardClient) SetSort(ctx context.Context, orderBy string) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPut, "/sort", map[string]string{"order_by": orderBy})
}

func (c *DashboardClient) ToggleSort(ctx context.Context, key string) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPost, "/sort/"+url.PathEscape(key)+"/toggle", nil)
}

func (c *DashboardClient) NextPage(ctx context.Context) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPost, "/page/next", nil)
}

func (c *DashboardClient) PrevPage(ctx context.Context) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPost, "/page/prev", nil)
}

func (c *DashboardClient) SetPage(ctx context.Context, page int) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPut, "/page", map[string]int{"page": page})
}

func (c *DashboardClient) DeleteProduct(ctx context.Context, id int64) (*dashboard.View, error) {
	return c.view(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil)
}

func (c *DashboardClient) AddToCart(ctx context.Context, id int64) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPost, "/cart/items", map[string]int64{"product_id": id})
}

func (c *DashboardClient) UpdateQuantity(ctx context.Context, id int64, quantity int) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPatch, fmt.Sprintf("/cart/items/%d", id), map[string]int{"quantity": quantity})
}

func (c *DashboardClient) RemoveFromCart(ctx context.Context, id int64) (*dashboard.View, error) {
	return c.view(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", id), nil)
}

func (c *DashboardClient) SetCartOpen(ctx context.Context, open bool) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPut, "/cart/open", map[string]bool{"open": open})
}

func (c *DashboardClient) ToggleCart(ctx context.Context) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPost, "/cart/toggle", nil)
}

func (c *DashboardClient) BeginDrag(ctx context.Context, index int) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPost, "/columns/drag", map[string]int{"index": index})
}

func (c *DashboardClient) DragOver(ctx context.Context, index int) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPut, "/columns/drag", map[string]int{"index": index})
}

func (c *DashboardClient) Drop(ctx context.Context, index int) (*dashboard.View, error) {
	return c.view(ctx, http.MethodPost, "/columns/drop", map[string]int{"index": index})
}

func (c *DashboardClient) EndDrag(ctx context.Context) (*dashboard.View, error) {
	return c.view(ctx, http.MethodDelete, "/columns/drag", nil)
}

// Events lists journal events recorded after afterID.
func (c *DashboardClient) Events(ctx context.Context, afterID int64, limit int) ([]journal.Event, error) {
	q := url.Values{}
	q.Set("after", strconv.FormatInt(afterID, 10))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var events []journal.Event
	if err := c.do(ctx, http.MethodGet, "/events?"+q.Encode(), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// History lists one aggregate's events from fromVersion on.
func (c *DashboardClient) History(ctx context.Context, aggregate string, fromVersion int) ([]journal.Event, error) {
	q := url.Values{}
	q.Set("aggregate", aggregate)
	if fromVersion > 0 {
		q.Set("from_version", strconv.Itoa(fromVersion))
	}
	var events []journal.Event
	if err := c.do(ctx, http.MethodGet, "/events?"+q.Encode(), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *DashboardClient) view(ctx context.Context, method, path string, body any) (*dashboard.View, error) {
	var v dashboard.View
	if err := c.do(ctx, method, path, body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *DashboardClient) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	var base error
	switch resp.StatusCode {
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusBadRequest:
		base = ErrBadRequest
	case http.StatusTooManyRequests:
		base = ErrRateLimited
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if payload.Details != "" {
		return fmt.Errorf("%w: %s", base, payload.Details)
	}
	return base
}
