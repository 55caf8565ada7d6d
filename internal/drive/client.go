package drive

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/corpix/uarand"

	"github.com/datara-labs/datara-bot/internal/config"
	apperrors "github.com/datara-labs/datara-bot/internal/errors"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/metrics"
)

// DefaultFilename is used when the server does not name the file.
const DefaultFilename = "document.pdf"

// Document is an open download stream. Callers must close Content.
type Document struct {
	Name    string
	Size    int64
	Content io.ReadCloser
}

func (d *Document) Close() error {
	if d.Content == nil {
		return nil
	}
	return d.Content.Close()
}

// Client downloads documents from Google Drive share links.
type Client struct {
	httpClient *http.Client
	maxRetries int
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a download client. metrics may be nil.
func NewClient(timeout time.Duration, maxRetries int, log *logger.Logger, m *metrics.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxRetries: maxRetries,
		log:        log.WithModule("drive"),
		metrics:    m,
	}
}

// Fetch downloads the document behind a share link and returns an open
// stream. The share link is rewritten to a direct-download URL first.
func (c *Client) Fetch(ctx context.Context, shareURL string) (*Document, error) {
	downloadURL := DownloadURL(shareURL)
	start := time.Now()

	var doc *Document
	err := retryWithBackoff(ctx, c.maxRetries, config.DownloadRetryInitial, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
		if err != nil {
			return permanent(apperrors.NewDownloadError(downloadURL, 0, err))
		}
		req.Header.Set("User-Agent", uarand.GetRandom())
		req.Header.Set("Accept", "application/pdf,application/octet-stream,*/*")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return apperrors.NewDownloadError(downloadURL, 0, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_ = resp.Body.Close()

			dlErr := apperrors.NewDownloadError(downloadURL, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
			switch resp.StatusCode {
			case http.StatusTooManyRequests,
				http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
				return dlErr
			default:
				return permanent(dlErr)
			}
		}

		doc = &Document{
			Name:    filenameFromResponse(resp),
			Size:    resp.ContentLength,
			Content: resp.Body,
		}
		return nil
	})

	if err != nil {
		c.recordDownload("error", start)
		c.log.WithError(err).WithField("url", shareURL).Error("document download failed")
		return nil, err
	}

	c.recordDownload("success", start)
	return doc, nil
}

func (c *Client) recordDownload(status string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordDownload(status, time.Since(start).Seconds())
	}
}

// filenameFromResponse extracts the filename from Content-Disposition.
func filenameFromResponse(resp *http.Response) string {
	disposition := resp.Header.Get("Content-Disposition")
	if disposition == "" {
		return DefaultFilename
	}

	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return DefaultFilename
	}
	if name := params["filename"]; name != "" {
		return name
	}
	return DefaultFilename
}
