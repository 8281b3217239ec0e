// Package imagesearch wraps the Unsplash-style photo search API and the plain
// HTTP fetch of the chosen image. Both calls carry bounded timeouts and report
// failures as wrapped domain errors for the banner pipeline to substitute.
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"server/internal/domain"
)

const (
	defaultBaseURL = "https://api.unsplash.com"
	defaultTimeout = 30 * time.Second

	fetchUserAgent = "SkillSync-Banner-Bot/1.0"

	// Responses larger than this are cut off; banner images are modest.
	maxImageBytes = 8 << 20
)

type Options struct {
	AccessKey  string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	accessKey string
	baseURL   string
	client    *http.Client
}

// Image is a fetched binary payload plus its content type.
type Image struct {
	Data        []byte
	ContentType string
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{accessKey: strings.TrimSpace(opts.AccessKey), baseURL: baseURL, client: client}
}

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Search returns the URL of the best landscape photo for the term. An absent
// credential is reported as domain.ErrNoCredential so callers can skip the
// call instead of treating it as an outage.
func (c *Client) Search(ctx context.Context, term string) (string, error) {
	if c.accessKey == "" {
		return "", fmt.Errorf("imagesearch: access key not configured: %w", domain.ErrNoCredential)
	}

	params := url.Values{}
	params.Set("query", term)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")
	params.Set("content_filter", "high")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("imagesearch: build request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("imagesearch: search photos: %v: %w", err, domain.ErrProviderFailure)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("imagesearch: search status %d: %w", resp.StatusCode, domain.ErrProviderFailure)
	}
	var out searchResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return "", fmt.Errorf("imagesearch: decode search response: %v: %w", err, domain.ErrProviderFailure)
	}
	for _, result := range out.Results {
		if result.URLs.Regular != "" {
			return result.URLs.Regular, nil
		}
	}
	return "", fmt.Errorf("imagesearch: no results for %q: %w", term, domain.ErrProviderFailure)
}

// Fetch downloads the image at the given URL.
func (c *Client) Fetch(ctx context.Context, imageURL string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("imagesearch: build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagesearch: fetch image: %v: %w", err, domain.ErrProviderFailure)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("imagesearch: fetch status %d: %w", resp.StatusCode, domain.ErrProviderFailure)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("imagesearch: read image body: %v: %w", err, domain.ErrProviderFailure)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("imagesearch: empty image body: %w", domain.ErrProviderFailure)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &Image{Data: data, ContentType: contentType}, nil
}

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
