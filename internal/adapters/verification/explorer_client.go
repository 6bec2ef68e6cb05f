package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const explorerRequestTimeout = 30 * time.Second

// ExplorerResponse is the generic etherscan-style API envelope
type ExplorerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// OK reports whether the explorer accepted the request
func (r ExplorerResponse) OK() bool {
	return r.Status == "1"
}

// ExplorerClient talks to an etherscan-compatible contract API
type ExplorerClient struct {
	apiKey  string
	client  *resty.Client
	limiter *rate.Limiter
}

// NewExplorerClient creates a client for the explorer API at baseURL, throttled by limiter
func NewExplorerClient(apiKey, baseURL string, limiter *rate.Limiter) *ExplorerClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(explorerRequestTimeout).
		SetHeader("Accept", "application/json")

	return &ExplorerClient{apiKey: apiKey, client: client, limiter: limiter}
}

// VerifyProxy asks the explorer to link a proxy to its implementation and returns the check guid
func (c *ExplorerClient) VerifyProxy(ctx context.Context, proxy string) (string, error) {
	resp, err := c.post(ctx, map[string]string{
		"module": "contract",
		"action": "verifyproxycontract",
	}, map[string]string{"address": proxy})
	if err != nil {
		return "", err
	}
	if !resp.OK() || resp.Result == "" {
		return "", fmt.Errorf("proxy verification of %s rejected: %s %s", proxy, resp.Message, resp.Result)
	}
	return resp.Result, nil
}

// CheckProxyVerification polls the outcome of a proxy verification request
func (c *ExplorerClient) CheckProxyVerification(ctx context.Context, guid string) (string, error) {
	resp, err := c.post(ctx, map[string]string{
		"module": "contract",
		"action": "checkproxyverification",
		"guid":   guid,
	}, nil)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("proxy verification %s: %s %s", guid, resp.Message, resp.Result)
	}
	return resp.Result, nil
}

func (c *ExplorerClient) post(ctx context.Context, query, form map[string]string) (*ExplorerResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var result ExplorerResponse
	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetQueryParam("apikey", c.apiKey).
		SetResult(&result)
	if form != nil {
		req.SetFormData(form)
	} else {
		req.SetHeader("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := req.Post("")
	if err != nil {
		return nil, fmt.Errorf("explorer request %s failed: %w", query["action"], err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("explorer request %s failed: %s", query["action"], resp.Status())
	}
	return &result, nil
}
