// tests/integration/main_test.go
package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"productdash/internal/catalog"
	"productdash/internal/clients"
	"productdash/internal/dashboard"
	"productdash/internal/journal"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestSuite struct {
	srv     *httptest.Server
	client  *clients.DashboardClient
	journal *journal.Journal
}

func setupTestSuite(t *testing.T, products []catalog.Product) *TestSuite {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	j := journal.New()
	svc, err := dashboard.NewService(products,
		dashboard.WithJournal(j),
		dashboard.WithLogger(logger),
		dashboard.WithSearchDebounce(20*time.Millisecond),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(dashboard.NewHandler(svc, nil, logger).Routes())
	t.Cleanup(func() {
		srv.Close()
		svc.Close()
	})
	return &TestSuite{
		srv:     srv,
		client:  clients.NewDashboardClient(srv.URL, srv.Client()),
		journal: j,
	}
}

func TestDashboardFlow(t *testing.T) {
	ctx := context.Background()
	products := catalog.Generate(999, 1)
	products = append(products, catalog.NewProduct(1000, "Wireless Bluetooth Headphones", "Electronics",
		decimal.RequireFromString("89.99"), 45, ""))
	ts := setupTestSuite(t, products)
	c := ts.client

	// Type a search and wait for the debounce to publish it.
	_, err := c.Search(ctx, "WIRELESS")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		v, err := c.View(ctx)
		return err == nil && v.State.DebouncedSearchTerm == "WIRELESS"
	}, 2*time.Second, 10*time.Millisecond)

	v, err := c.View(ctx)
	require.NoError(t, err)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, int64(1000), v.Rows[0].ID)

	// Put the headphones in the cart twice, then delete them from the catalog.
	_, err = c.AddToCart(ctx, 1000)
	require.NoError(t, err)
	v, err = c.AddToCart(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Cart.Count)
	assert.Equal(t, "$179.98", v.Cart.DisplayTotal)

	v, err = c.DeleteProduct(ctx, 1000)
	require.NoError(t, err)
	assert.Empty(t, v.Rows)
	assert.Equal(t, 999, v.Summary.TotalProducts)
	assert.Equal(t, 2, v.Cart.Count, "deleting a product leaves the cart alone")

	_, err = c.AddToCart(ctx, 1000)
	require.ErrorIs(t, err, clients.ErrNotFound)

	// Clear the search and page through the whole catalog.
	_, err = c.Search(ctx, "")
	require.NoError(t, err)
	v, err = c.FlushSearch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, v.Page.TotalPages)

	v, err = c.SetPage(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, v.Rows, 9)
	v, err = c.NextPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, v.Page.Current)

	// Removing one more row drops the last page, so the view returns to page 1.
	v, err = c.DeleteProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, v.Page.TotalPages)
	v, err = c.SetPage(ctx, 100)
	require.NoError(t, err)
	for i := int64(2); i <= 9; i++ {
		v, err = c.DeleteProduct(ctx, i)
		require.NoError(t, err)
	}
	assert.Equal(t, 99, v.Page.TotalPages)
	assert.Equal(t, 1, v.Page.Current)

	// Reorder columns.
	_, err = c.BeginDrag(ctx, 0)
	require.NoError(t, err)
	v, err = c.Drop(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "id", v.Columns[len(v.Columns)-1].Key)

	events, err := c.Events(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, ts.journal.Len(), len(events))
	assert.Equal(t, dashboard.EventColumnsReordered, events[len(events)-1].EventType)
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	ctx := context.Background()
	ts := setupTestSuite(t, catalog.Sample())

	var wg sync.WaitGroup
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ts.client.AddToCart(ctx, 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err := ts.client.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, v.Cart.Count)
	require.Len(t, v.Cart.Lines, 1)
	assert.True(t, decimal.RequireFromString("24975").Equal(v.Cart.Total))

	events, err := ts.client.Events(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, events, 25)
	for i, e := range events {
		assert.Equal(t, i+1, e.Version, "cart stream versions have no gaps")
	}
}
