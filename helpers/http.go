package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"golang.org/x/net/html/charset"
)

// DefaultTimeout bounds every outbound call made through NewHTTPClient.
const DefaultTimeout = 10 * time.Second

// BrowserHeaders identify a desktop browsing context to the offer API.
var BrowserHeaders = map[string]string{
	"Accept":                 "application/json",
	"User-Agent":             "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36",
	"Accept-Language":        "de-DE,de;q=0.9,en-US;q=0.8,en;q=0.7",
	"delivery_channel":       "dest.kaufda",
	"user_platform_category": "desktop.web.browser",
	"user_platform_os":       "windows",
}

// NewHTTPClient returns a client with the given timeout, or DefaultTimeout
// when timeout is not positive.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// FetchJSON sends a GET request with the given query and headers and returns
// the response body converted to UTF-8.
func FetchJSON(ctx context.Context, client *http.Client, rawURL string, query url.Values, headers map[string]string) ([]byte, error) {
	if client == nil {
		client = NewHTTPClient(0)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	// Rate limiting is reported, never retried
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return nil, fmt.Errorf("rate limited; retry after %s", resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return toUTF8(body, resp.Header.Get("Content-Type"))
}

// toUTF8 converts body to UTF-8 based on the Content-Type header and content
func toUTF8(body []byte, contentType string) ([]byte, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || name == "UTF-8" {
		return body, nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, encoding.NewDecoder().Reader(bytes.NewReader(body))); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}
	return buf.Bytes(), nil
}
