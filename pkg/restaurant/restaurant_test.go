package restaurant_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

func TestParseID(t *testing.T) {
	id, err := restaurant.ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "  ", "abc", "4.2"} {
		_, err := restaurant.ParseID(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestNotFoundErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &restaurant.NotFoundError{ID: 7})
	assert.True(t, errors.Is(err, restaurant.ErrNotFound))
	assert.False(t, errors.Is(err, restaurant.ErrNetwork))

	var nf *restaurant.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, int64(7), nf.ID)
	assert.Equal(t, "restaurant 7 does not exist", nf.Error())
}

func TestNetworkErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &restaurant.NetworkError{URL: "http://localhost:1337/restaurants", Err: cause}

	assert.True(t, errors.Is(err, restaurant.ErrNetwork))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "GET http://localhost:1337/restaurants")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestURLHelpers(t *testing.T) {
	r := restaurant.Restaurant{ID: 3, Photograph: "3.jpg"}

	assert.Equal(t, "./restaurant.html?id=3", restaurant.URLFor(r))
	assert.Equal(t, "/images/sm-img/3.jpg", restaurant.ImageURLFor(r))
	assert.Equal(t, "/images/lg-img/3.jpg", restaurant.LargeImageURLFor(r))
}
