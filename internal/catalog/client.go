// Package catalog talks to the Met Collection API and fills the local
// artwork catalog that recognition results are resolved against.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public Met Collection API.
const DefaultBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

const userAgent = "lensa/1.0"

// MetObject is the subset of a Met object record the catalog keeps.
type MetObject struct {
	ObjectID          int64  `json:"objectID"`
	Title             string `json:"title"`
	ArtistDisplayName string `json:"artistDisplayName"`
	ArtistAlphaSort   string `json:"artistAlphaSort"`
	ObjectDate        string `json:"objectDate"`
	Medium            string `json:"medium"`
	Department        string `json:"department"`
	PrimaryImage      string `json:"primaryImage"`
	PrimaryImageSmall string `json:"primaryImageSmall"`
}

// Artist returns the best available artist name.
func (o *MetObject) Artist() string {
	if o.ArtistDisplayName != "" {
		return o.ArtistDisplayName
	}
	if o.ArtistAlphaSort != "" {
		return o.ArtistAlphaSort
	}
	return "Unknown"
}

// ImageURL returns the best available image URL, or empty when the record
// has none.
func (o *MetObject) ImageURL() string {
	if o.PrimaryImage != "" {
		return o.PrimaryImage
	}
	return o.PrimaryImageSmall
}

// Client is an HTTP client for the Met Collection API with bounded retries.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	MaxRetries int
}

// NewClient creates a catalog API client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		MaxRetries: 3,
	}
}

// SearchHighlights returns the object IDs of highlighted artworks with
// images matching a query term.
func (c *Client) SearchHighlights(ctx context.Context, query string) ([]int64, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hasImages", "true")
	params.Set("isHighlight", "true")

	var result struct {
		ObjectIDs []int64 `json:"objectIDs"`
	}
	if err := c.getJSON(ctx, "/search?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result.ObjectIDs, nil
}

// AllObjectIDs returns every object ID the API exposes. Used as a final
// fallback when the highlight pool runs dry.
func (c *Client) AllObjectIDs(ctx context.Context) ([]int64, error) {
	var result struct {
		ObjectIDs []int64 `json:"objectIDs"`
	}
	if err := c.getJSON(ctx, "/objects", &result); err != nil {
		return nil, err
	}
	return result.ObjectIDs, nil
}

// GetObject fetches one object record. A record without an object ID is
// treated as not found.
func (c *Client) GetObject(ctx context.Context, objectID int64) (*MetObject, error) {
	var obj MetObject
	if err := c.getJSON(ctx, fmt.Sprintf("/objects/%d", objectID), &obj); err != nil {
		return nil, err
	}
	if obj.ObjectID == 0 {
		return nil, fmt.Errorf("object %d not found", objectID)
	}
	return &obj, nil
}

// getJSON issues a GET with retries and linear backoff, decoding the JSON
// response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	var lastErr error

	for attempt := 1; attempt <= c.MaxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * 500 * time.Millisecond):
			}
		}

		lastErr = c.tryGetJSON(ctx, path, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.MaxRetries, lastErr)
}

func (c *Client) tryGetJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}
