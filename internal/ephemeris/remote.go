package ephemeris

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/natal/internal/astro"
	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/pkg/httputil"
)

// RemoteName identifies the HTTP source in summaries
const RemoteName = "remote"

// longitudeResponse is the wire form of GET /v1/longitude
type longitudeResponse struct {
	Body      string   `json:"body"`
	Instant   string   `json:"instant"`
	Longitude *float64 `json:"longitude"`
}

// Remote asks an HTTP ephemeris service for each longitude.
// The client is expected to have retries disabled: a failed lookup is a
// hard failure surfaced to the caller.
type Remote struct {
	endpoint string
	client   *httputil.Client
}

// NewRemote creates a remote provider for baseURL
func NewRemote(baseURL string, client *httputil.Client) (*Remote, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid ephemeris url %q", contracts.ErrInvalidConfig, baseURL)
	}
	return &Remote{
		endpoint: u.String() + "/v1/longitude",
		client:   client,
	}, nil
}

// Name implements contracts.EphemerisProvider
func (r *Remote) Name() string {
	return RemoteName
}

// LongitudeOf implements contracts.EphemerisProvider
func (r *Remote) LongitudeOf(ctx context.Context, instant contracts.Instant, body contracts.Body) (float64, error) {
	q := url.Values{}
	q.Set("body", string(body))
	q.Set("instant", instant.String())

	var resp longitudeResponse
	if err := r.client.GetJSON(ctx, r.endpoint+"?"+q.Encode(), &resp); err != nil {
		return 0, unavailable(RemoteName, body, err)
	}

	if resp.Longitude == nil {
		return 0, unavailable(RemoteName, body, fmt.Errorf("response without longitude"))
	}
	if resp.Body != "" && !strings.EqualFold(resp.Body, string(body)) {
		return 0, unavailable(RemoteName, body, fmt.Errorf("response for %q", resp.Body))
	}
	lon := *resp.Longitude
	if !astro.Finite(lon) || lon < 0 || lon > 360 {
		return 0, unavailable(RemoteName, body, fmt.Errorf("longitude %v out of range", lon))
	}
	return astro.Normalize360(lon), nil
}

// Close implements contracts.EphemerisProvider
func (r *Remote) Close() error {
	return nil
}
