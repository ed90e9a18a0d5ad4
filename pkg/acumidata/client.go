// Package acumidata provides the HTTP client for the Acumidata valuation
// API. It issues exactly one outbound request per call: no retries, no
// caching, no memoization. A failed call is surfaced as a typed error and
// left to the caller's policy.
package acumidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for provider calls.
var (
	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acumidata_requests_total",
		Help: "Total provider requests by endpoint and status",
	}, []string{"endpoint", "status"})

	providerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "acumidata_request_duration_seconds",
		Help:    "Provider request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	providerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acumidata_errors_total",
		Help: "Total provider errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of provider call failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents responses that are not valid JSON.
	ErrorClassDecode ErrorClass = "decode"
)

// Environment selects the provider deployment to call.
type Environment string

const (
	// EnvProduction is the live API at api.acumidata.com.
	EnvProduction Environment = "prod"

	// EnvUAT is the acceptance API at uat.api.acumidata.com.
	EnvUAT Environment = "uat"
)

// BaseURLFor returns the base URL of a provider environment.
func BaseURLFor(env Environment) string {
	if env == EnvProduction {
		return "https://api.acumidata.com"
	}
	return "https://uat.api.acumidata.com"
}

// Recorder counts provider calls for usage accounting. Implementations must
// tolerate concurrent use; recording failures are logged, never returned to
// the caller of a fetch.
type Recorder interface {
	RecordRequest(ctx context.Context, endpoint string, status int) error
}

// Client is the Acumidata API client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
	usage      Recorder
}

// Config holds the client configuration.
type Config struct {
	// Environment selects the provider deployment (prod or uat).
	Environment Environment

	// BaseURL overrides the environment base URL when set. Used by tests
	// and local stubs.
	BaseURL string

	// APIKey is the bearer token for the selected environment. An empty
	// key is allowed; the provider rejects the calls and the rejection is
	// handled per record.
	APIKey string

	// UserAgent identifies this application to the provider.
	UserAgent string

	// Timeout bounds each outbound call. This is the only per-call limit;
	// there is no separate request deadline.
	Timeout time.Duration

	// Usage optionally counts every provider call (daily usage metering).
	Usage Recorder
}

// DefaultConfig returns a safe default configuration for an environment.
func DefaultConfig(env Environment, apiKey string) Config {
	return Config{
		Environment: env,
		APIKey:      apiKey,
		UserAgent:   "propdash/1.0 (github.com/acumidata/propdash)",
		Timeout:     30 * time.Second,
	}
}

// New creates a new Acumidata client.
func New(cfg Config) (*Client, error) {
	if cfg.Environment == "" {
		cfg.Environment = EnvUAT
	}
	if cfg.Environment != EnvProduction && cfg.Environment != EnvUAT {
		return nil, fmt.Errorf("unknown environment %q", cfg.Environment)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURLFor(cfg.Environment)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().
		Str("component", "acumidata-client").
		Str("environment", string(cfg.Environment)).
		Logger()

	if cfg.APIKey == "" {
		logger.Warn().Msg("No API key configured; provider calls will be rejected")
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
		usage:  cfg.Usage,
	}, nil
}

// get performs one GET against a provider endpoint and decodes the JSON
// body. Exactly one outbound call happens per invocation.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.URL.RawQuery = params.Encode()

	return c.do(req, endpoint)
}

// post performs one POST with a JSON body against a provider endpoint.
func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/"+endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, endpoint)
}

func (c *Client) do(req *http.Request, endpoint string) (map[string]any, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("User-Agent", c.config.UserAgent)

	startTime := time.Now()
	defer func() {
		providerRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("Executing provider request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		providerErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		providerRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.recordUsage(req.Context(), endpoint, 0)

		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Provider request failed")
		return nil, &ProviderError{
			Endpoint: endpoint,
			Class:    ErrorClassNetwork,
			Message:  "request failed",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	providerRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	c.recordUsage(req.Context(), endpoint, resp.StatusCode)

	if resp.StatusCode == http.StatusNoContent {
		return map[string]any{"message": "no content"}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		class := classifyStatus(resp.StatusCode)
		providerErrorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Provider request error")

		return nil, &ProviderError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Class:      class,
			Message:    fmt.Sprintf("provider returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		providerErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &ProviderError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Class:      ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}
	if len(body) == 0 {
		providerErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, &ProviderError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Class:      ErrorClassDecode,
			Message:    "empty body",
			Err:        ErrEmptyResponse,
		}
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		providerErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("Provider response is not valid JSON")
		return nil, &ProviderError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Class:      ErrorClassDecode,
			Message:    "malformed payload",
			Err:        err,
		}
	}

	return doc, nil
}

func (c *Client) recordUsage(ctx context.Context, endpoint string, status int) {
	if c.usage == nil {
		return
	}
	if err := c.usage.RecordRequest(ctx, endpoint, status); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record provider usage")
	}
}

// classifyStatus categorizes a non-success status for observability.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Environment returns the environment this client calls.
func (c *Client) Environment() Environment {
	return c.config.Environment
}
