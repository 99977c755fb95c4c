package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// positionQuery is the single batched query this client ever issues. The
// endpoint is content-addressed by the query string, so there is no
// pagination and no variables.
const positionQuery = `{
  poolSnapshots(limit: 1000) {
    items {
      availableLiquidity
      timestamp
      blockNumber
      borrowRate
      eventType
      id
      lendingPool
      router
      supplyAPR
      totalBorrowAssets
      totalCollateral
      totalSupplyAssets
      utilization
    }
  }
  supplyCollateralEvents(limit: 1000) {
    items {
      amount
      lendingPool
      positionAddress
      timestamp
      user
    }
  }
  withdrawCollateralEvents(limit: 1000) {
    items {
      amount
      lendingPool
      timestamp
      user
    }
  }
}`

// Client issues the batched dashboard query against the indexer endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a subgraph client for the given GraphQL endpoint.
func NewClient(endpoint string, logger *zap.Logger) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// Fetch runs the batched query and returns the decoded raw collections.
// Any transport or envelope failure fails the whole cycle; missing
// collections inside a well-formed response decode to empty lists.
func (c *Client) Fetch(ctx context.Context) (FetchResult, error) {
	body, err := json.Marshal(map[string]string{"query": positionQuery})
	if err != nil {
		return FetchResult{}, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return FetchResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return FetchResult{}, fmt.Errorf("query endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FetchResult{}, fmt.Errorf("endpoint status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, fmt.Errorf("read response: %w", err)
	}

	return DecodeResponse(payload, c.logger)
}
