package registry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zjrosen/releasetrain/internal/log"
)

// DefaultIndexURL is the crates.io sparse index.
const DefaultIndexURL = "https://index.crates.io"

// IndexClient reads package metadata from a cargo sparse registry index.
type IndexClient struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

// Compile-time check that IndexClient implements Source.
var _ Source = (*IndexClient)(nil)

// NewIndexClient creates a client for the index at baseURL.
func NewIndexClient(baseURL string, timeout time.Duration, userAgent string) *IndexClient {
	if baseURL == "" {
		baseURL = DefaultIndexURL
	}
	return &IndexClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// IndexPath returns the index file path for a package name:
// 1/a, 2/ab, 3/a/abc, ab/cd/abcd...
func IndexPath(name string) string {
	name = strings.ToLower(name)
	switch len(name) {
	case 0:
		return ""
	case 1:
		return "1/" + name
	case 2:
		return "2/" + name
	case 3:
		return "3/" + name[:1] + "/" + name
	}
	return name[:2] + "/" + name[2:4] + "/" + name
}

// Releases implements Source.
func (c *IndexClient) Releases(ctx context.Context, name string) ([]Release, error) {
	url := c.baseURL + "/" + IndexPath(name)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building index request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying index for %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug(log.CatRegistry, "index request", "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone, http.StatusForbidden:
		// crates.io answers 404 (and some mirrors 403/410) for unknown packages.
		return nil, nil
	default:
		return nil, fmt.Errorf("querying index for %s: unexpected status %s", name, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading index entry for %s: %w", name, err)
	}
	return parseIndexEntry(body)
}

// parseIndexEntry decodes one JSON object per line.
func parseIndexEntry(body []byte) ([]Release, error) {
	var releases []Release
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var r Release
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("parsing index entry: %w", err)
		}
		releases = append(releases, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading index entry: %w", err)
	}
	return releases, nil
}
