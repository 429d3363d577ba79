// Package remote queries other wallcheck instances over their HTTP API.
// Comparing reports from vantage points inside and outside a filtered
// network is what separates local outages from actual blocking.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/imroc/req/v3"

	"github.com/wallcheck/wallcheck/internal/apperr"
	"github.com/wallcheck/wallcheck/internal/probe"
	"github.com/wallcheck/wallcheck/internal/version"
)

// Result is one remote instance's answer for a domain.
type Result struct {
	Endpoint string        `json:"endpoint"`
	Report   *probe.Report `json:"report,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// Client fans a check out to a set of remote wallcheck endpoints.
type Client struct {
	client *req.Client
	logger *slog.Logger
}

// NewClient builds a remote client. timeout bounds each remote call end to
// end; it should exceed the remote's own probe timeout or slow remotes will
// be cut off mid-probe.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	c := req.NewClient().
		SetTimeout(timeout).
		SetUserAgent("wallcheck/" + version.Version)
	return &Client{client: c, logger: logger}
}

// Check queries every endpoint concurrently and returns one Result per
// endpoint, in the order given. Per-endpoint failures are recorded in the
// Result, never returned; the error return covers input validation only.
func (c *Client) Check(ctx context.Context, endpoints []string, domain string) ([]Result, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("%w: no remote endpoints configured", apperr.ErrInvalidInput)
	}
	if domain == "" {
		return nil, fmt.Errorf("%w: domain must not be empty", apperr.ErrInvalidInput)
	}

	results := make([]Result, len(endpoints))
	var wg sync.WaitGroup
	for i, endpoint := range endpoints {
		wg.Add(1)
		go func(i int, endpoint string) {
			defer wg.Done()
			report, err := c.checkOne(ctx, endpoint, domain)
			results[i] = Result{Endpoint: endpoint, Report: report, Err: err}
			if err != nil {
				results[i].Error = err.Error()
			}
		}(i, endpoint)
	}
	wg.Wait()
	return results, nil
}

// checkOne performs GET <endpoint>/check?domain=<domain> and decodes the
// report.
func (c *Client) checkOne(ctx context.Context, endpoint, domain string) (*probe.Report, error) {
	checkURL, err := buildCheckURL(endpoint)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("querying remote", "endpoint", endpoint, "domain", domain)

	var report probe.Report
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("domain", domain).
		SetSuccessResult(&report).
		Get(checkURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrRequestFailed, err)
	}
	if !resp.IsSuccessState() {
		body := resp.String()
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		return nil, fmt.Errorf("%w: %s returned status %d: %s", apperr.ErrRequestFailed, endpoint, resp.StatusCode, body)
	}
	if report.Domain == "" {
		return nil, fmt.Errorf("%w: %s returned an empty report", apperr.ErrMalformedResponse, endpoint)
	}
	return &report, nil
}

// buildCheckURL normalizes an endpoint base URL into its check URL.
// A bare host:port gets an http scheme.
func buildCheckURL(endpoint string) (string, error) {
	s := strings.TrimRight(endpoint, "/")
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("%w: invalid remote endpoint %q", apperr.ErrInvalidInput, endpoint)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/check"
	return u.String(), nil
}
