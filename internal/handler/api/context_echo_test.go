package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"PriceSigner/internal/domain/models"
	"PriceSigner/internal/service/orderbook"
	"PriceSigner/internal/service/signer"
	"PriceSigner/internal/usecase"
	"PriceSigner/pkg/decimalfloat"
	xhttp "PriceSigner/pkg/http"
	xlogger "PriceSigner/pkg/logger"
	"PriceSigner/pkg/metrics"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	weth = common.HexToAddress("0x4200000000000000000000000000000000000006")
	usdc = common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
)

type stubFeed struct {
	sample models.PriceSample
	err    error
}

func (f stubFeed) FetchPrice(context.Context, string) (models.PriceSample, error) {
	return f.sample, f.err
}

type testServer struct {
	srv     *xhttp.Server
	decoder *orderbook.Decoder
}

func newTestServer(t *testing.T, feed stubFeed) *testServer {
	t.Helper()
	s, err := signer.New(testKey)
	require.NoError(t, err)
	dec, err := orderbook.NewDecoder()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	pair := models.TokenPair{Base: weth, Quote: usdc}
	att := usecase.NewAttestor(
		usecase.AttestorConfig{FeedID: "ff61", Expiry: 5 * time.Second, Pair: &pair},
		dec, feed, s, metrics.NewWithRegisterer(reg), xlogger.Nop(),
		usecase.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	)

	h := NewContextEchoHandler(xlogger.Nop(), att)
	return &testServer{
		srv:     xhttp.NewServer(h, xhttp.WithRegistry(reg), xhttp.WithLogger(xlogger.Nop())),
		decoder: dec,
	}
}

func (ts *testServer) do(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/octet-stream")
	rec := httptest.NewRecorder()
	ts.srv.Echo().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) body(t *testing.T, input, output common.Address, inIdx int64) []byte {
	t.Helper()
	io := func(tok common.Address) []orderbook.IO {
		return []orderbook.IO{{Token: tok, Decimals: 18, VaultId: big.NewInt(1)}}
	}
	b, err := ts.decoder.Encode(&orderbook.Request{
		Order: orderbook.Order{
			ValidInputs:  io(input),
			ValidOutputs: io(output),
			Evaluable:    orderbook.Evaluable{Bytecode: []byte{}},
		},
		InputIOIndex:  big.NewInt(inIdx),
		OutputIOIndex: big.NewInt(0),
	})
	require.NoError(t, err)
	return b
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, stubFeed{})
	rec := ts.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPostContext(t *testing.T) {
	ts := newTestServer(t, stubFeed{sample: models.PriceSample{Price: 310012345678, Expo: -8}})

	rec := ts.do(http.MethodPost, "/context", ts.body(t, usdc, weth, 0))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SignedContextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", resp.Signer)
	require.Len(t, resp.Context, 2)
	assert.Equal(t, "3100.12345678", resp.Context[0].Format())
	assert.Equal(t, decimalfloat.FromUint64(1700000005), resp.Context[1])

	sig, err := hexutil.Decode(resp.Signature)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	addr, err := signer.RecoverAddress(resp.Context, sig)
	require.NoError(t, err)
	assert.Equal(t, resp.Signer, addr.Hex())

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "0x000000000000000000000000000000000000000000000000000000006553f105", raw["context"].([]interface{})[1])
}

func TestPostContextErrors(t *testing.T) {
	testCases := []struct {
		desc   string
		feed   stubFeed
		body   func(ts *testServer) []byte
		status int
		code   string
	}{
		{
			desc:   "garbage body",
			body:   func(*testServer) []byte { return []byte("hello") },
			status: http.StatusBadRequest,
			code:   "invalid_body",
		},
		{
			desc:   "index out of range",
			body:   func(ts *testServer) []byte { return ts.body(t, usdc, weth, 2) },
			status: http.StatusBadRequest,
			code:   "invalid_index",
		},
		{
			desc:   "unsupported pair",
			body:   func(ts *testServer) []byte { return ts.body(t, usdc, usdc, 0) },
			status: http.StatusBadRequest,
			code:   "unsupported_token_pair",
		},
		{
			desc:   "feed down",
			feed:   stubFeed{err: errors.Join(models.ErrFeedUnavailable, errors.New("dial tcp: refused"))},
			body:   func(ts *testServer) []byte { return ts.body(t, usdc, weth, 0) },
			status: http.StatusInternalServerError,
			code:   "internal_error",
		},
		{
			desc:   "invert zero",
			feed:   stubFeed{sample: models.PriceSample{Price: 0, Expo: -8}},
			body:   func(ts *testServer) []byte { return ts.body(t, weth, usdc, 0) },
			status: http.StatusInternalServerError,
			code:   "internal_error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			ts := newTestServer(t, tc.feed)
			rec := ts.do(http.MethodPost, "/context", tc.body(ts))
			assert.Equal(t, tc.status, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp["error"])
			assert.NotEmpty(t, resp["detail"])
		})
	}
}

func TestNotFoundUsesErrorShape(t *testing.T) {
	ts := newTestServer(t, stubFeed{})
	rec := ts.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp["error"])
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, stubFeed{})
	req := httptest.NewRequest(http.MethodOptions, "/context", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, stubFeed{sample: models.PriceSample{Price: 310012345678, Expo: -8}})
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/context", ts.body(t, usdc, weth, 0)).Code)

	rec := ts.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pricesigner_attestations_total{direction="as_is"} 1`)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
