package directory

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Ratio1/restaurant_directory_go/internal/restaurantapi"
	"github.com/Ratio1/restaurant_directory_go/pkg/localstore"
	"github.com/Ratio1/restaurant_directory_go/pkg/localstore/mock"
	"github.com/Ratio1/restaurant_directory_go/pkg/metrics"
	"github.com/Ratio1/restaurant_directory_go/pkg/remote"
	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

const collectionJSON = `[
	{"id": 1, "name": "Mission Chinese Food", "neighborhood": "Manhattan", "cuisine_type": "Asian"},
	{"id": 2, "name": "Emily", "neighborhood": "Brooklyn", "cuisine_type": "Pizza"},
	{"id": 3, "name": "Kang Ho Dong Baekjeong", "neighborhood": "Manhattan", "cuisine_type": "Asian"},
	{"id": 4, "name": "Katz's Delicatessen", "neighborhood": "Manhattan", "cuisine_type": "American"},
	{"id": 5, "name": "Roberta's Pizza", "neighborhood": "Brooklyn", "cuisine_type": "Pizza"},
	{"id": 6, "name": "Hometown BBQ", "neighborhood": "Brooklyn", "cuisine_type": "American"},
	{"id": 7, "name": "Superiority Burger", "neighborhood": "Manhattan", "cuisine_type": "American"},
	{"id": 8, "name": "The Dutch", "neighborhood": "Manhattan", "cuisine_type": "American"},
	{"id": 9, "name": "Mu Ramen", "neighborhood": "Queens", "cuisine_type": "Asian"},
	{"id": 10, "name": "Casa Enrique", "neighborhood": "Queens", "cuisine_type": "Mexican"},
	{"id": 11, "name": "Trattoria", "neighborhood": "Queens", "cuisine_type": "Italian"}
]`

type endpoint struct {
	srv   *httptest.Server
	calls int32
}

func newEndpoint(t *testing.T, status int, body string) *endpoint {
	t.Helper()
	e := &endpoint{}
	e.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&e.calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(e.srv.Close)
	return e
}

func (e *endpoint) client(t *testing.T) *remote.Client {
	t.Helper()
	c, err := remote.New(e.srv.URL + "/restaurants")
	require.NoError(t, err)
	return c
}

func (e *endpoint) Calls() int {
	return int(atomic.LoadInt32(&e.calls))
}

func parsed(t *testing.T) []restaurant.Restaurant {
	t.Helper()
	rs, err := restaurantapi.DecodeCollection([]byte(collectionJSON))
	require.NoError(t, err)
	return rs
}

func seeded(t *testing.T, rs []restaurant.Restaurant) *mock.Mock {
	t.Helper()
	backend := mock.New()
	require.NoError(t, localstore.NewWithBackend(backend).SaveAll(context.Background(), rs))
	return backend
}

func ids(rs []restaurant.Restaurant) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestResolveAllCacheHitSkipsNetwork(t *testing.T) {
	ep := newEndpoint(t, http.StatusOK, collectionJSON)
	stored := parsed(t)[:3]
	svc := New(ep.client(t), localstore.NewWithBackend(seeded(t, stored)))
	defer svc.Close()

	got, err := svc.ResolveAll(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(stored, got); diff != "" {
		t.Fatalf("cache hit mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, ep.Calls())
}

func TestResolveAllCacheMissFetchesOnceAndPopulates(t *testing.T) {
	ep := newEndpoint(t, http.StatusOK, collectionJSON)
	backend := mock.New()
	svc := New(ep.client(t), localstore.NewWithBackend(backend))
	defer svc.Close()

	got, err := svc.ResolveAll(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(parsed(t), got); diff != "" {
		t.Fatalf("fetched collection mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, ep.Calls())

	svc.Wait()
	assert.Equal(t, ids(got), backend.IDs())

	// The populated store now answers without the network.
	_, err = svc.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ep.Calls())
}

func TestRepopulatingIsIdempotent(t *testing.T) {
	backend := mock.New()
	svc := New(nil, localstore.NewWithBackend(backend))
	defer svc.Close()

	rs := parsed(t)
	svc.populate(context.Background(), rs)
	svc.Wait()
	first, err := localstore.NewWithBackend(backend).ReadAll(context.Background())
	require.NoError(t, err)

	svc.populate(context.Background(), rs)
	svc.Wait()
	second, err := localstore.NewWithBackend(backend).ReadAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, backend.Writes())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("store changed after identical upsert (-first +second):\n%s", diff)
	}
}

func TestResolveAllWithoutStoreAlwaysFetches(t *testing.T) {
	ep := newEndpoint(t, http.StatusOK, collectionJSON)
	svc := New(ep.client(t), nil)
	defer svc.Close()

	assert.False(t, svc.CacheAvailable())
	for i := 0; i < 2; i++ {
		got, err := svc.ResolveAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 11)
	}
	assert.Equal(t, 2, ep.Calls())
}

func TestResolveAllNetworkFailure(t *testing.T) {
	ep := newEndpoint(t, http.StatusBadGateway, `{"error": "upstream"}`)
	backend := mock.New()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := New(ep.client(t), localstore.NewWithBackend(backend), WithMetrics(m))
	defer svc.Close()

	got, err := svc.ResolveAll(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, restaurant.ErrNetwork)

	svc.Wait()
	assert.Zero(t, backend.Writes())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteFetches.WithLabelValues(metrics.OutcomeFailure)))
}

func TestResolveAllStoreWriteFailureIsSwallowed(t *testing.T) {
	ep := newEndpoint(t, http.StatusOK, collectionJSON)
	backend := mock.New(mock.WithWriteError(errors.New("quota exceeded")))
	m := metrics.New(nil)
	svc := New(ep.client(t), localstore.NewWithBackend(backend), WithMetrics(m))
	defer svc.Close()

	got, err := svc.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 11)

	svc.Wait()
	assert.Equal(t, 1, backend.Writes())
	assert.Empty(t, backend.IDs())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreWriteFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteFetches.WithLabelValues(metrics.OutcomeSuccess)))
}

func TestResolveAllStoreReadFailureBubbles(t *testing.T) {
	ep := newEndpoint(t, http.StatusOK, collectionJSON)
	boom := errors.New("corrupted database")
	svc := New(ep.client(t), localstore.NewWithBackend(mock.New(mock.WithReadError(boom))))
	defer svc.Close()

	got, err := svc.ResolveAll(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, ep.Calls())
}

func TestPopulateOutlivesCallerCancellation(t *testing.T) {
	ep := newEndpoint(t, http.StatusOK, collectionJSON)
	gate := make(chan struct{})
	backend := mock.New(mock.WithWriteGate(gate))
	svc := New(ep.client(t), localstore.NewWithBackend(backend))
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.ResolveAll(ctx)
	require.NoError(t, err)
	cancel()
	close(gate)

	svc.Wait()
	assert.Len(t, backend.IDs(), 11)
}

func TestCloseWaitsForPendingWrites(t *testing.T) {
	ep := newEndpoint(t, http.StatusOK, collectionJSON)
	gate := make(chan struct{})
	backend := mock.New(mock.WithWriteGate(gate))
	svc := New(ep.client(t), localstore.NewWithBackend(backend))

	_, err := svc.ResolveAll(context.Background())
	require.NoError(t, err)

	closed := make(chan error, 1)
	go func() { closed <- svc.Close() }()
	close(gate)

	require.NoError(t, <-closed)
	assert.Len(t, backend.IDs(), 11)
	assert.True(t, backend.Closed())
	assert.NoError(t, svc.Close(), "Close is idempotent")
}

func TestConcurrentMissesAreTolerated(t *testing.T) {
	ep := newEndpoint(t, http.StatusOK, collectionJSON)
	backend := mock.New()
	svc := New(ep.client(t), localstore.NewWithBackend(backend))
	defer svc.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ByCuisine(context.Background(), "Asian")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	svc.Wait()
	calls := ep.Calls()
	assert.GreaterOrEqual(t, calls, 1)
	assert.LessOrEqual(t, calls, 4)
	assert.Len(t, backend.IDs(), 11)
}

func TestCacheHitMetrics(t *testing.T) {
	m := metrics.New(nil)
	svc := New(nil, localstore.NewWithBackend(seeded(t, parsed(t))), WithMetrics(m))
	defer svc.Close()

	_, err := svc.Cuisines(context.Background())
	require.NoError(t, err)
	_, err = svc.Neighborhoods(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits))
	assert.Zero(t, testutil.ToFloat64(m.CacheMisses))
}

func TestMissingRemoteIsNetworkError(t *testing.T) {
	svc := New(nil, nil)
	_, err := svc.ResolveAll(context.Background())
	assert.ErrorIs(t, err, restaurant.ErrNetwork)
}
