// Package probe fetches the watched product page.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/armyhq/restockbot/pkg/utils"
)

// Shop CDNs vary the markup by device class; the mobile UA gets the
// lightest variant, which is also the one the keyword tables were tuned on.
const userAgent = "Mozilla/5.0 (Linux; Android 12) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120 Safari/537.36"

// Fetcher issues single GET requests against one product URL.
type Fetcher struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client // defaults to the shared utils client
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return utils.HttpClient
}

// Fetch returns the lowercased page body, or an error on any network
// failure, timeout or non-2xx status.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,pt-BR;q=0.8,es;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d fetching product page", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.ToLower(string(body)), nil
}
