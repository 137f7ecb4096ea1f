package graphql

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/monitoring"

	"github.com/machinebox/graphql"
)

// RemoteError is a failure reported by the remote API or its transport.
type RemoteError struct {
	Operation string
	Message   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

type Client struct {
	gql *graphql.Client
	log *logger.Logger
}

func NewClient(endpoint string, timeout time.Duration, log *logger.Logger) *Client {
	httpClient := &http.Client{Timeout: timeout}
	return &Client{
		gql: graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		log: log,
	}
}

// Run executes op and decodes the data object into resp.
func (c *Client) Run(ctx context.Context, op Operation, vars map[string]interface{}, resp interface{}) error {
	req := graphql.NewRequest(op.Query)
	for k, v := range vars {
		req.Var(k, v)
	}
	if token := auth.TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	err := c.gql.Run(ctx, req, resp)
	monitoring.TrackRemoteCall("graphql", op.Name, err, time.Since(start))
	if err != nil {
		msg := strings.TrimPrefix(err.Error(), "graphql: ")
		c.log.LogGraphQL(op.Name, fmt.Sprintf("failed after %s: %s", time.Since(start), msg))
		return &RemoteError{Operation: op.Name, Message: msg}
	}
	c.log.LogGraphQL(op.Name, fmt.Sprintf("ok in %s", time.Since(start)))
	return nil
}
