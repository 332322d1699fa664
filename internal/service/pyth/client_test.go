package pyth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"PriceSigner/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ethUSD = "ff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874634fd0ace"

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, latestPricePath, r.URL.Path)
		assert.Equal(t, []string{"0x" + ethUSD}, r.URL.Query()["ids[]"])
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPrice(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{
		"binary": {"encoding": "hex", "data": ["00"]},
		"parsed": [{
			"id": "`+ethUSD+`",
			"price": {"price": "310012345678", "conf": "150000000", "expo": -8, "publish_time": 1700000000},
			"ema_price": {"price": "310000000000", "conf": "140000000", "expo": -8, "publish_time": 1700000000}
		}]
	}`)

	c := New(srv.URL, time.Second)
	sample, err := c.FetchPrice(context.Background(), "0x"+ethUSD)
	require.NoError(t, err)

	assert.Equal(t, int64(310012345678), sample.Price)
	assert.Equal(t, int32(-8), sample.Expo)
	assert.Equal(t, uint64(150000000), sample.Conf)
	assert.Equal(t, ethUSD, sample.FeedID)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), sample.PublishTime)
	assert.Equal(t, "3100.12345678", sample.String())
}

func TestFetchPriceMalformed(t *testing.T) {
	testCases := []struct {
		desc string
		body string
	}{
		{"empty parsed", `{"parsed": []}`},
		{"missing parsed", `{}`},
		{"non integer price", `{"parsed": [{"price": {"price": "31.5", "expo": -8}}]}`},
		{"price overflow", `{"parsed": [{"price": {"price": "99999999999999999999", "expo": -8}}]}`},
		{"not json", `<html>`},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, tc.body)
			_, err := New(srv.URL, time.Second).FetchPrice(context.Background(), ethUSD)
			require.ErrorIs(t, err, models.ErrFeedMalformed)
			assert.False(t, errors.Is(err, models.ErrFeedUnavailable))
		})
	}
}

func TestFetchPriceUnavailable(t *testing.T) {
	srv := newServer(t, http.StatusServiceUnavailable, `busy`)
	_, err := New(srv.URL, time.Second).FetchPrice(context.Background(), ethUSD)
	require.ErrorIs(t, err, models.ErrFeedUnavailable)
	assert.Contains(t, err.Error(), "503")

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()
	_, err = New(url, time.Second).FetchPrice(context.Background(), ethUSD)
	require.ErrorIs(t, err, models.ErrFeedUnavailable)
}

func TestFetchPriceCancelled(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"parsed": []}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, time.Second).FetchPrice(ctx, ethUSD)
	require.ErrorIs(t, err, models.ErrFeedUnavailable)
	require.ErrorIs(t, err, context.Canceled)
}
