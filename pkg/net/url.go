// Package net fetches external document resources: stylesheets and
// image payloads referenced by a parsed document. Fetches run on a
// small worker pool; completions are delivered over a channel the
// embedder drains between frames.
package net

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ResolveURL resolves a possibly-relative URI against a base URL.
// If ref is already absolute, it is returned as-is.
func ResolveURL(base, ref string) string {
	if base == "" {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL reports whether the string looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsDataURL reports whether the string is an RFC 2397 data URI.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURL decodes a data URI into its payload and media type.
func DecodeDataURL(s string) (body []byte, contentType string, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI: missing comma")
	}
	if enc, found := strings.CutSuffix(meta, ";base64"); found {
		meta = enc
		body, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decoding data URI: %w", err)
		}
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decoding data URI: %w", err)
		}
		body = []byte(unescaped)
	}
	if meta == "" {
		meta = "text/plain"
	}
	if i := strings.IndexByte(meta, ';'); i >= 0 {
		meta = meta[:i]
	}
	return body, meta, nil
}

// readFileURL loads a file:// URI, or a bare filesystem path.
func readFileURL(s string) ([]byte, error) {
	path := strings.TrimPrefix(s, "file://")
	return os.ReadFile(path)
}
