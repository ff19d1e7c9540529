package advisory

import (
	"context"
	"fmt"
	"time"

	xhttp "FinSight/pkg/http"
)

// httpServiceBase centralizes client construction and JSON GET handling for
// the internal advisory routes (sentiment, market intelligence).
type httpServiceBase struct {
	baseURL string
	client  *xhttp.Client
}

func newHTTPServiceBase(baseURL string, timeout time.Duration) *httpServiceBase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpServiceBase{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// getJSON fetches `path` under baseURL with query params and decodes JSON into dest.
func (b *httpServiceBase) getJSON(ctx context.Context, path string, params map[string]string, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("advisory http client not initialized")
	}
	query := make(map[string][]string, len(params))
	for k, v := range params {
		query[k] = []string{v}
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + path,
		QueryParams: query,
	}, dest)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}
