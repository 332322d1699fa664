// Package pyth fetches latest prices from the Pyth Hermes API.
package pyth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"PriceSigner/internal/domain/models"
	domrepo "PriceSigner/internal/domain/repository"
	xhttp "PriceSigner/pkg/http"
)

// DefaultBaseURL is the public Hermes endpoint.
const DefaultBaseURL = "https://hermes.pyth.network"

const latestPricePath = "/v2/updates/price/latest"

type hermesResponse struct {
	Parsed []parsedPriceFeed `json:"parsed"`
}

type parsedPriceFeed struct {
	ID    string    `json:"id"`
	Price priceInfo `json:"price"`
}

type priceInfo struct {
	Price       string `json:"price"`
	Conf        string `json:"conf"`
	Expo        int32  `json:"expo"`
	PublishTime int64  `json:"publish_time"`
}

// Client implements PriceFeed against Hermes. It never retries.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

var _ domrepo.PriceFeed = (*Client)(nil)

// New creates a Hermes client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, timeout time.Duration, opts ...xhttp.ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout > 0 {
		opts = append([]xhttp.ClientOption{xhttp.WithTimeout(timeout)}, opts...)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(opts...),
	}
}

// FetchPrice returns the latest sample for feedID (hex, with or without 0x).
func (c *Client) FetchPrice(ctx context.Context, feedID string) (models.PriceSample, error) {
	id := strings.TrimPrefix(strings.ToLower(feedID), "0x")

	var resp hermesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + latestPricePath,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: map[string][]string{"ids[]": {"0x" + id}},
	}, &resp)
	if err != nil {
		if errors.Is(err, xhttp.ErrDecode) {
			return models.PriceSample{}, fmt.Errorf("%w: %v", models.ErrFeedMalformed, err)
		}
		return models.PriceSample{}, fmt.Errorf("%w: %w", models.ErrFeedUnavailable, err)
	}

	if len(resp.Parsed) == 0 {
		return models.PriceSample{}, fmt.Errorf("%w: no price feed returned for %s", models.ErrFeedMalformed, id)
	}
	return toSample(id, resp.Parsed[0])
}

func toSample(id string, feed parsedPriceFeed) (models.PriceSample, error) {
	price, err := strconv.ParseInt(feed.Price.Price, 10, 64)
	if err != nil {
		return models.PriceSample{}, fmt.Errorf("%w: price %q: %v", models.ErrFeedMalformed, feed.Price.Price, err)
	}

	var conf uint64
	if feed.Price.Conf != "" {
		conf, err = strconv.ParseUint(feed.Price.Conf, 10, 64)
		if err != nil {
			return models.PriceSample{}, fmt.Errorf("%w: conf %q: %v", models.ErrFeedMalformed, feed.Price.Conf, err)
		}
	}

	sample := models.PriceSample{
		FeedID: id,
		Price:  price,
		Expo:   feed.Price.Expo,
		Conf:   conf,
	}
	if feed.Price.PublishTime > 0 {
		sample.PublishTime = time.Unix(feed.Price.PublishTime, 0).UTC()
	}
	if feed.ID != "" {
		sample.FeedID = strings.TrimPrefix(strings.ToLower(feed.ID), "0x")
	}
	return sample, nil
}
