// Package images downloads artwork images over HTTP.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// Downloader fetches images with bounded retries and cleans up partial
// files on failure.
type Downloader struct {
	HTTPClient *http.Client
	MaxRetries int
}

// NewDownloader creates a downloader with a sane timeout.
func NewDownloader() *Downloader {
	return &Downloader{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		MaxRetries: 3,
	}
}

// Download fetches imageURL into destPath. An existing destination is left
// untouched and counts as success.
func (d *Downloader) Download(ctx context.Context, imageURL, destPath string) error {
	if imageURL == "" {
		return fmt.Errorf("empty image URL")
	}
	if _, err := os.Stat(destPath); err == nil {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= d.MaxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt-1) * 500 * time.Millisecond):
			}
		}

		lastErr = d.tryDownload(ctx, imageURL, destPath)
		if lastErr == nil {
			return nil
		}
		os.Remove(destPath)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("download failed after %d attempts: %w", d.MaxRetries, lastErr)
}

func (d *Downloader) tryDownload(ctx context.Context, imageURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return f.Close()
}

// ExtensionFor normalizes the file extension for an image URL. Unknown
// extensions fall back to .jpg.
func ExtensionFor(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ".jpg"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
		return ext
	}
	return ".jpg"
}
