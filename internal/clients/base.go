// Package clients holds the thin REST adapters for the vendor APIs the
// checkout orchestration calls: Stripe (payments + tax), EasyPost (address
// verification), and Resend (transactional email). No vendor call is ever
// retried here; failures surface synchronously to the caller.
package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/r-mccarty/opticworks-store-sub001/internal/middleware"
)

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
}

func NewClient(name string, baseURL string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient}
}

func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body io.Reader, headers http.Header) (*http.Response, error) {
	rel := &url.URL{Path: path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	u := c.BaseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	for k, vv := range headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	// Correlation id travels with every vendor call for log stitching
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	return c.HTTP.Do(req)
}
