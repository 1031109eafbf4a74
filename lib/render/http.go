package render

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
)

const (
	userAgent      = "Mozilla/5.0 (compatible; StockMonitor/1.0)"
	acceptLanguage = "sv-SE,sv;q=0.9,en;q=0.8"
)

// HTTPRenderer fetches raw markup without executing scripts. Suitable for
// sites that embed their structured data server side.
type HTTPRenderer struct {
	transport http.RoundTripper
	timeout   time.Duration
}

func NewHTTPRenderer(transport http.RoundTripper, timeout time.Duration) *HTTPRenderer {
	return &HTTPRenderer{transport, timeout}
}

func (r *HTTPRenderer) Render(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var markup string
	err := requests.URL(url).
		Transport(r.transport).
		UserAgent(userAgent).
		Header("Accept-Language", acceptLanguage).
		AddValidator(rejectServerErrors).
		ToString(&markup).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return markup, nil
}

// Client errors still carry markup worth inspecting, so only 5xx is fatal.
func rejectServerErrors(res *http.Response) error {
	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("unexpected status: %d", res.StatusCode)
	}
	return nil
}
