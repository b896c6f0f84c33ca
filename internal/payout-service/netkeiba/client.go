package netkeiba

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/radieske/race-payout-reconciler/internal/payout-service/keiba"
)

const (
	DefaultBaseURL = "https://db.netkeiba.com"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/89.0.4389.82 Safari/537.36"
)

// Client busca páginas de resultado no db.netkeiba.com.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimSuffix(base, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// RaceURL retorna a URL da página de resultado da corrida.
func (c *Client) RaceURL(raceID string) string {
	return fmt.Sprintf("%s/race/%s/", c.BaseURL, raceID)
}

// Fetch implementa keiba.Source. O corpo é devolvido já convertido para UTF-8
// (o site serve EUC-JP).
func (c *Client) Fetch(ctx context.Context, raceID string) (io.ReadCloser, error) {
	url := c.RaceURL(raceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", c.BaseURL+"/")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &keiba.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	return readCloser{Reader: r, Closer: resp.Body}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
