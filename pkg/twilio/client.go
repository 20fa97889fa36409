// Package twilio wraps the Twilio Voice API for outbound call creation.
package twilio

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/scrapex/outreach-engine/internal/resilience"
)

const (
	defaultBaseURL = "https://api.twilio.com"
	apiVersion     = "2010-04-01"
)

// Client performs call operations against the Twilio API.
type Client interface {
	CreateCall(ctx context.Context, req CallRequest) (*CallResponse, error)
}

// CallRequest describes an outbound call submission.
type CallRequest struct {
	To                      string
	From                    string
	TwiML                   string
	Record                  bool
	RecordingChannels       string
	RecordingStatusCallback string
}

// CallResponse is the call resource returned on submission.
type CallResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
	From   string `json:"from"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(base string) Option {
	return func(c *httpClient) {
		c.baseURL = base
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default outbound rate of 1 call/s.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// WithCircuitBreaker overrides the default circuit breaker.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *httpClient) {
		c.breaker = cb
	}
}

type httpClient struct {
	accountSID string
	authToken  string
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	breaker    *resilience.CircuitBreaker
}

// NewClient creates a Twilio API client. Calls are throttled to 1 req/s and
// routed through a circuit breaker so a dead provider fails fast instead of
// timing out every trigger.
func NewClient(accountSID, authToken string, opts ...Option) Client {
	c := &httpClient{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(1, 1),
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// wait blocks until the rate limiter allows one event, or ctx is cancelled.
func (c *httpClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *httpClient) CreateCall(ctx context.Context, req CallRequest) (*CallResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "twilio: rate limit")
	}

	return resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) (*CallResponse, error) {
		return c.createCall(ctx, req)
	})
}

func (c *httpClient) createCall(ctx context.Context, req CallRequest) (*CallResponse, error) {
	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", req.From)
	form.Set("Twiml", req.TwiML)
	if req.Record {
		form.Set("Record", "true")
		if req.RecordingChannels != "" {
			form.Set("RecordingChannels", req.RecordingChannels)
		}
		if req.RecordingStatusCallback != "" {
			form.Set("RecordingStatusCallback", req.RecordingStatusCallback)
		}
	}

	endpoint := c.baseURL + "/" + apiVersion + "/Accounts/" + c.accountSID + "/Calls.json"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "twilio: create request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "twilio: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "twilio: read response")
	}

	if resp.StatusCode >= 300 {
		return nil, eris.Errorf("twilio: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result CallResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "twilio: unmarshal response")
	}

	return &result, nil
}
