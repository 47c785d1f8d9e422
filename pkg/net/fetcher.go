package net

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "vireo/1.0 (compatible; Go)"

// Fetcher retrieves resources by URI, synchronously.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher fetches data URIs, file URIs and HTTP/HTTPS URLs,
// resolving relative URIs against a base URL.
type DefaultFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFetcher creates a DefaultFetcher with the given base URL.
// Relative URIs passed to Fetch are resolved against this base.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves the resource at the given URI.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	if IsDataURL(uri) {
		return DecodeDataURL(uri)
	}
	resolved := uri
	if !IsNetworkURL(uri) && f.BaseURL != "" {
		resolved = ResolveURL(f.BaseURL, uri)
	}
	if strings.HasPrefix(resolved, "file://") {
		body, err := readFileURL(resolved)
		return body, "", err
	}
	if !IsNetworkURL(resolved) {
		body, err := readFileURL(resolved)
		if err != nil {
			return nil, "", fmt.Errorf("cannot fetch non-network URI %s: %w", resolved, err)
		}
		return body, "", nil
	}
	return f.fetchHTTP(ctx, resolved)
}

func (f *DefaultFetcher) fetchHTTP(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// FetchCSS fetches a stylesheet URI and returns its text content.
// Returns an error if the content type does not look like CSS or text.
func (f *DefaultFetcher) FetchCSS(ctx context.Context, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}
