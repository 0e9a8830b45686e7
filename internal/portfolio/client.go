package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"easel/internal/config"
	"easel/internal/logging"
)

// ErrAuthExpired is returned when the portfolio API rejects the bearer token.
// Callers should prompt for re-authentication rather than retry.
var ErrAuthExpired = errors.New("portfolio session expired")

const uploadPath = "/api/media"

// HTTPDoer describes the HTTP client used by the upload client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client submits prepared media to the portfolio API. It carries no retry
// logic; a failed upload is reported to the caller as-is.
type Client struct {
	baseURL string
	token   string
	http    HTTPDoer
	logger  *slog.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	return NewClientWithDoer(cfg.API.BaseURL, cfg.API.Token, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithDoer builds a client over an explicit HTTP doer.
func NewClientWithDoer(baseURL, token string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		http:    doer,
		logger:  logging.NewComponentLogger(logger, "portfolio"),
	}
}

// UploadItem describes one media file and its listing metadata.
type UploadItem struct {
	Path        string
	MIME        string
	Title       string
	Description string
}

// UploadResult reports where the API stored the item.
type UploadResult struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Bytes    int64  `json:"bytes"`
}

// Upload submits the item as a multipart form. A 401 or 403 response wraps
// ErrAuthExpired.
func (c *Client) Upload(ctx context.Context, item UploadItem) (*UploadResult, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("portfolio client: not configured")
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("portfolio client: missing base url")
	}
	if c.token == "" {
		return nil, fmt.Errorf("portfolio client: missing api token")
	}

	file, err := os.Open(item.Path)
	if err != nil {
		return nil, fmt.Errorf("portfolio client: open media: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("portfolio client: stat media: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(item.Path), filepath.Ext(item.Path))
	}
	if err := writer.WriteField("title", title); err != nil {
		return nil, fmt.Errorf("portfolio client: write title field: %w", err)
	}
	if item.Description != "" {
		if err := writer.WriteField("description", item.Description); err != nil {
			return nil, fmt.Errorf("portfolio client: write description field: %w", err)
		}
	}

	field, err := writer.CreatePart(mediaPartHeader(filepath.Base(item.Path), item.MIME))
	if err != nil {
		return nil, fmt.Errorf("portfolio client: create media field: %w", err)
	}
	if _, err := io.Copy(field, file); err != nil {
		return nil, fmt.Errorf("portfolio client: copy media: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("portfolio client: close multipart writer: %w", err)
	}

	endpoint := c.baseURL + uploadPath
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("portfolio client: build request: %w", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Authorization", "Bearer "+c.token)

	c.logger.Info("uploading media",
		logging.String("file", filepath.Base(item.Path)),
		logging.Int64("bytes", info.Size()))

	resp, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("portfolio client: http request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("portfolio client: read response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("portfolio client: status %d: %w", resp.StatusCode, ErrAuthExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("portfolio client: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	result := &UploadResult{Bytes: info.Size()}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, result); err != nil {
			return nil, fmt.Errorf("portfolio client: decode response: %w", err)
		}
	}
	if result.Location == "" {
		result.Location = resp.Header.Get("Location")
	}
	return result, nil
}

func mediaPartHeader(filename, mimeType string) textproto.MIMEHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, filename))
	if mimeType != "" {
		header.Set("Content-Type", mimeType)
	}
	return header
}
