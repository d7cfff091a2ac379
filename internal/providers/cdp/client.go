package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
	"github.com/feral-file/ff-buyer-indexer/internal/ratelimit"
	"github.com/feral-file/ff-buyer-indexer/internal/retry"
)

const PROVIDER_NAME = "cdp"

// Client runs SQL against the analytics API
//
//go:generate mockgen -source=client.go -destination=../../mocks/cdp_client.go -package=mocks -mock_names=Client=MockCDPClient
type Client interface {
	// Query runs sql once
	Query(ctx context.Context, sql string) ([]domain.QueryRow, error)

	// QueryWithRetry runs sql through the backoff executor
	QueryWithRetry(ctx context.Context, sql string) ([]domain.QueryRow, error)
}

// Config holds the client settings
type Config struct {
	APIURL  string
	Timeout time.Duration
	Retry   retry.Options
}

// CDPClient implements Client
type CDPClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	signer         *Signer
	config         Config
	host           string
	path           string
}

// queryResponse accepts both envelopes the API has used
type queryResponse struct {
	Data   []map[string]interface{} `json:"data"`
	Result []map[string]interface{} `json:"result"`
}

// NewClient creates a new analytics client
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, signer *Signer, cfg Config) (Client, error) {
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", cfg.APIURL)
	}

	return &CDPClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		signer:         signer,
		config:         cfg,
		host:           u.Host,
		path:           u.Path,
	}, nil
}

// QueryWithRetry runs sql, retrying rate limits and transient failures
func (c *CDPClient) QueryWithRetry(ctx context.Context, sql string) ([]domain.QueryRow, error) {
	opts := c.config.Retry
	if opts.OnRetry == nil {
		opts.OnRetry = func(attempt int, err error, delay time.Duration) {
			logger.WarnCtx(ctx, "Analytics query failed, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", c.config.Retry.MaxRetries),
				zap.Duration("delay", delay),
				zap.Error(err),
			)
		}
	}

	return retry.Do(ctx, opts, func(ctx context.Context) ([]domain.QueryRow, error) {
		return c.Query(ctx, sql)
	})
}

// Query runs sql once and maps the HTTP status onto the error taxonomy
func (c *CDPClient) Query(ctx context.Context, sql string) ([]domain.QueryRow, error) {
	token, err := c.signer.Token(http.MethodPost, c.host, c.path)
	if err != nil {
		return nil, err
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	resp, err := ratelimit.Request(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) (*adapter.Response, error) {
		return c.httpClient.PostJSON(ctx, c.config.APIURL, map[string]string{
			"Authorization": "Bearer " + token,
		}, map[string]string{"sql": sql})
	})
	if err != nil {
		return nil, &domain.ServiceError{StatusCode: 0, Message: err.Error()}
	}

	if err := adapter.StatusError(resp); err != nil {
		return nil, err
	}

	var body queryResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}

	raw := body.Data
	if raw == nil {
		raw = body.Result
	}

	rows := make([]domain.QueryRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, mapRow(r))
	}
	return rows, nil
}

// mapRow lifts the well-known columns and keeps the rest as extra payload
func mapRow(r map[string]interface{}) domain.QueryRow {
	row := domain.QueryRow{
		BlockTime: stringValue(r["block_time"]),
		TxHash:    stringValue(r["tx_hash"]),
		Buyer:     stringValue(r["buyer"]),
		PostToken: stringValue(r["post_token"]),
		Source:    domain.BuySourceCDP,
	}

	for k, v := range r {
		switch k {
		case "block_time", "tx_hash", "buyer", "post_token":
			continue
		}
		if row.Extra == nil {
			row.Extra = make(map[string]interface{})
		}
		row.Extra[k] = v
	}
	return row
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
