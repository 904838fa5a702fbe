package interfaces

import (
	"context"
	"net/url"
)

// AnalyticsClient fetches raw JSON bodies from the analytics REST API
type AnalyticsClient interface {
	Fetch(ctx context.Context, endpoint string, query url.Values) ([]byte, error)
	BaseURL() string
}
