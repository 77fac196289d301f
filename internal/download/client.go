// Package download is the HTTP transport collaborator: it fetches the
// appcast document and update artifacts, optionally bypassing intermediate
// caches.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Flags adjust how a fetch is performed.
type Flags int

const (
	// NoCache asks intermediaries to revalidate instead of serving a cached
	// copy. Manual checks use this so updates too new to propagate through
	// caches are still found.
	NoCache Flags = 1 << iota
)

const (
	maxErrorBody   = 512
	requestTimeout = 30 * time.Second
)

// Client fetches URLs on behalf of the checker.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient returns a client identifying itself as updrift/<version>.
func NewClient(version string) *Client {
	return &Client{
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: fmt.Sprintf("updrift/%s", version),
	}
}

// SetUserAgent replaces the default User-Agent, for deployments that need
// to identify the embedding application instead of updrift itself.
func (c *Client) SetUserAgent(ua string) {
	if ua != "" {
		c.userAgent = ua
	}
}

// Fetch downloads url and returns the response body.
func (c *Client) Fetch(ctx context.Context, rawURL string, flags Flags) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if flags&NoCache != 0 {
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("status %d from %s: %s", resp.StatusCode, rawURL, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return data, nil
}

// SaveTo writes data into dir under the URL's basename and returns the
// written path. The directory is created if needed.
func SaveTo(dir, rawURL string, data []byte) (string, error) {
	name, err := artifactName(rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir %s: %w", dir, err)
	}
	dest := filepath.Join(dir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}

// artifactName derives a safe local filename from a download URL.
func artifactName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse download url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("download url %s has no usable filename", rawURL)
	}
	return name, nil
}
