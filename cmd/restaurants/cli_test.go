package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

const collection = `[
	{"id": 1, "name": "Mission Chinese Food", "neighborhood": "Manhattan", "cuisine_type": "Asian", "photograph": "1.jpg",
	 "operating_hours": {"Monday": "5:30 pm - 11:00 pm"}},
	{"id": 2, "name": "Emily", "neighborhood": "Brooklyn", "cuisine_type": "Pizza"},
	{"id": 3, "name": "Kang Ho Dong Baekjeong", "neighborhood": "Manhattan", "cuisine_type": "Asian"}
]`

type fakeAPI struct {
	url   string
	calls int32
}

func startAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&api.calls, 1)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, collection)
	}))
	t.Cleanup(srv.Close)
	api.url = srv.URL + "/restaurants"
	t.Setenv("RESTAURANTS_API_URL", api.url)
	t.Setenv("RESTAURANTS_STORE_MODE", "disabled")
	t.Setenv("RESTAURANTS_LOG_LEVEL", "error")
	return api
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root, c := newRootCmd(&out)
	root.SetArgs(args)
	err := root.Execute()
	c.teardown()
	return out.String(), err
}

func TestListTable(t *testing.T) {
	startAPI(t)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NEIGHBORHOOD")
	assert.Contains(t, out, "Kang Ho Dong Baekjeong")
	assert.Contains(t, out, "./restaurant.html?id=2")
}

func TestFilterJSON(t *testing.T) {
	startAPI(t)

	out, err := run(t, "--json", "filter", "--cuisine", "Asian")
	require.NoError(t, err)

	var got []restaurant.Restaurant
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	out, err = run(t, "filter", "--cuisine", "Asian", "--neighborhood", "Brooklyn")
	require.NoError(t, err)
	assert.Equal(t, "No results\n", out)
}

func TestGet(t *testing.T) {
	startAPI(t)

	out, err := run(t, "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Mission Chinese Food")
	assert.Contains(t, out, "/images/lg-img/1.jpg")
	assert.Contains(t, out, "5:30 pm - 11:00 pm")

	_, err = run(t, "get", "42")
	assert.ErrorIs(t, err, restaurant.ErrNotFound)

	_, err = run(t, "get", "forty-two")
	assert.Error(t, err)
}

func TestFacetLists(t *testing.T) {
	startAPI(t)

	out, err := run(t, "neighborhoods")
	require.NoError(t, err)
	assert.Equal(t, "Manhattan\nBrooklyn\n", out)

	out, err = run(t, "--json", "cuisines")
	require.NoError(t, err)
	assert.JSONEq(t, `["Asian", "Pizza"]`, out)

	out, err = run(t, "--json", "facets")
	require.NoError(t, err)
	assert.JSONEq(t, `{"neighborhoods": ["Manhattan", "Brooklyn"], "cuisines": ["Asian", "Pizza"]}`, out)
}

func TestSQLiteCacheServesSecondRun(t *testing.T) {
	api := startAPI(t)
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	_, err := run(t, "--store", "sqlite", "--store-path", dbPath, "list")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.calls))

	out, err := run(t, "--store", "sqlite", "--store-path", dbPath, "get", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Emily")
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.calls), "second run is answered from the cache")
}

func TestNetworkFailureSurfaces(t *testing.T) {
	startAPI(t)
	t.Setenv("RESTAURANTS_API_URL", "http://127.0.0.1:1/restaurants")

	_, err := run(t, "list")
	assert.ErrorIs(t, err, restaurant.ErrNetwork)
}

func TestInvalidStoreModeFlag(t *testing.T) {
	startAPI(t)

	_, err := run(t, "--store", "indexeddb", "list")
	assert.Error(t, err)
}
