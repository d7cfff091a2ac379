package zora

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/ratelimit"
)

const PROVIDER_NAME = "zora"

// recentBuysQuery lists the newest BUY activities across all coins
const recentBuysQuery = `query GetRecentSwaps($limit: Int!) {
  coinActivities(first: $limit, orderBy: TIMESTAMP_DESC, filter: { type: BUY }) {
    nodes {
      id
      type
      timestamp
      txHash
      account {
        address
        profile {
          username
          displayName
        }
      }
      coin {
        address
        name
        creator {
          address
          profile {
            username
          }
        }
      }
      amountIn
      amountOut
    }
  }
}`

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query         string      `json:"query"`
	Variables     interface{} `json:"variables"`
	OperationName string      `json:"operationName,omitempty"`
}

// Activity is one node of the coinActivities connection
type Activity struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	TxHash    string `json:"txHash"`
	Account   struct {
		Address string `json:"address"`
		Profile *struct {
			Username    string `json:"username"`
			DisplayName string `json:"displayName"`
		} `json:"profile"`
	} `json:"account"`
	Coin struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Creator *struct {
			Address string `json:"address"`
			Profile *struct {
				Username string `json:"username"`
			} `json:"profile"`
		} `json:"creator"`
	} `json:"coin"`
	AmountIn  json.RawMessage `json:"amountIn"`
	AmountOut json.RawMessage `json:"amountOut"`
}

type activitiesResponse struct {
	Data struct {
		CoinActivities struct {
			Nodes []Activity `json:"nodes"`
		} `json:"coinActivities"`
	} `json:"data"`
	Errors gqlerror.List `json:"errors"`
}

// FeedClient reads the secondary activity feed
//
//go:generate mockgen -source=feed.go -destination=../../mocks/zora_feed.go -package=mocks -mock_names=FeedClient=MockFeedClient
type FeedClient interface {
	// RecentBuys returns up to limit of the newest buys, normalized to query rows
	RecentBuys(ctx context.Context, limit int) ([]domain.QueryRow, error)
}

// FeedConfig holds the feed settings
type FeedConfig struct {
	GraphQLURL string
	APIKey     string
	Timeout    time.Duration
}

// ZoraFeedClient implements FeedClient
type ZoraFeedClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	config         FeedConfig
	operationName  string
}

// NewFeedClient creates a feed client. The query document is parsed up front.
func NewFeedClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, cfg FeedConfig) (FeedClient, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "coinActivities", Input: recentBuysQuery})
	if err != nil {
		return nil, fmt.Errorf("invalid activity query: %w", err)
	}
	if len(doc.Operations) != 1 {
		return nil, fmt.Errorf("activity query must have exactly one operation, got %d", len(doc.Operations))
	}

	return &ZoraFeedClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		config:         cfg,
		operationName:  doc.Operations[0].Name,
	}, nil
}

// RecentBuys returns up to limit of the newest buys
func (c *ZoraFeedClient) RecentBuys(ctx context.Context, limit int) ([]domain.QueryRow, error) {
	if c.config.APIKey == "" {
		return nil, domain.ErrFeedDisabled
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	request := GraphQLRequest{
		Query:         recentBuysQuery,
		Variables:     map[string]interface{}{"limit": limit},
		OperationName: c.operationName,
	}

	resp, err := ratelimit.Request(ctx, c.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) (*adapter.Response, error) {
		return c.httpClient.PostJSON(ctx, c.config.GraphQLURL, map[string]string{"X-API-Key": c.config.APIKey}, request)
	})
	if err != nil {
		return nil, &domain.ServiceError{StatusCode: 0, Message: err.Error()}
	}
	if !resp.OK() {
		return nil, &domain.ServiceError{StatusCode: resp.StatusCode, Message: "activity feed request failed"}
	}

	var body activitiesResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode activity feed: %w", err)
	}
	if len(body.Errors) > 0 {
		return nil, &domain.ServiceError{StatusCode: resp.StatusCode, Message: body.Errors.Error()}
	}

	rows := make([]domain.QueryRow, 0, len(body.Data.CoinActivities.Nodes))
	for _, a := range body.Data.CoinActivities.Nodes {
		if a.Account.Address == "" || a.Coin.Address == "" || a.TxHash == "" {
			continue
		}
		rows = append(rows, activityRow(a))
	}
	return rows, nil
}

func activityRow(a Activity) domain.QueryRow {
	row := domain.QueryRow{
		BlockTime: a.Timestamp,
		TxHash:    a.TxHash,
		Buyer:     a.Account.Address,
		PostToken: a.Coin.Address,
		Source:    domain.BuySourceZora,
		Extra: map[string]interface{}{
			"activity_id": a.ID,
			"coin_name":   a.Coin.Name,
		},
	}
	if a.Account.Profile != nil {
		row.BuyerName = a.Account.Profile.Username
	}
	if len(a.AmountIn) > 0 {
		row.Extra["amount_in"] = string(a.AmountIn)
	}
	if len(a.AmountOut) > 0 {
		row.Extra["amount_out"] = string(a.AmountOut)
	}
	return row
}
