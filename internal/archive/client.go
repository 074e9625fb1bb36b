package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	pErrors "github.com/zhubert/chatlog/internal/errors"
	"github.com/zhubert/chatlog/internal/logger"
)

const (
	// DefaultTimeout bounds a request when no timeout is configured
	DefaultTimeout = 30 * time.Second

	// UploadField is the multipart field carrying the archive file
	UploadField = "file"

	// RequestIDHeader carries a per-request id the backend can log
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of a failed response is kept as detail
	maxErrorBody = 4096
)

// Client talks to the archive backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        *slog.Logger
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{}, timeout)
}

// NewClientWithHTTP creates a client with a custom HTTP client (for testing).
func NewClientWithHTTP(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		log:        logger.WithComponent("archive"),
	}
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Conversations fetches the full catalog.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var out []Conversation
	if err := c.getJSON(ctx, "archive.Conversations", "/api/conversations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Messages fetches the transcript of one conversation.
func (c *Client) Messages(ctx context.Context, conversationID string) (*Transcript, error) {
	var out Transcript
	path := "/api/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.getJSON(ctx, "archive.Messages", path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleFavorite flips the favorite flag on the server and returns the
// resulting state.
func (c *Client) ToggleFavorite(ctx context.Context, conversationID string) (FavoriteState, error) {
	const op = pErrors.Op("archive.ToggleFavorite")
	var out FavoriteState
	q := url.Values{"conv_id": {conversationID}}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/toggle_favorite?"+q.Encode(), nil)
	if err != nil {
		return out, pErrors.E(op, err)
	}
	err = c.do(req, op, &out)
	return out, err
}

// Activity fetches the per-day user message counts.
func (c *Client) Activity(ctx context.Context) (Activity, error) {
	var out Activity
	if err := c.getJSON(ctx, "archive.Activity", "/api/activity", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivityLast24h fetches hourly message counts for the last day. An empty
// role counts every message.
func (c *Client) ActivityLast24h(ctx context.Context, role string) ([]HourBucket, error) {
	path := "/api/activity/last24h"
	if role != "" {
		path += "?" + url.Values{"role": {role}}.Encode()
	}
	var out []HourBucket
	if err := c.getJSON(ctx, "archive.ActivityLast24h", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Statistics fetches the statistics report, preserving key order.
func (c *Client) Statistics(ctx context.Context) (Statistics, error) {
	var out Statistics
	if err := c.getJSON(ctx, "archive.Statistics", "/api/statistics", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search runs a query. Queries wrapped in double quotes are exact-phrase
// searches on the backend; the query is percent-encoded either way.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var out []SearchResult
	path := "/api/search?query=" + EncodeQuery(query)
	if err := c.getJSON(ctx, "archive.Search", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AICost fetches the monthly API cost estimate.
func (c *Client) AICost(ctx context.Context) ([]CostPoint, error) {
	var out []CostPoint
	if err := c.getJSON(ctx, "archive.AICost", "/api/ai-cost", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadArchive sends one archive file as a multipart request.
func (c *Client) UploadArchive(ctx context.Context, filename string, content io.Reader) (*UploadResult, error) {
	const op = pErrors.Op("archive.UploadArchive")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(UploadField, filename)
	if err != nil {
		return nil, pErrors.E(op, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, pErrors.E(op, pErrors.KindIO, "reading archive", err)
	}
	if err := mw.Close(); err != nil {
		return nil, pErrors.E(op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload_zip", &body)
	if err != nil {
		return nil, pErrors.E(op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadResult
	if err := c.do(req, op, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EncodeQuery percent-encodes a search query, spaces included.
func EncodeQuery(query string) string {
	return strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

func (c *Client) getJSON(ctx context.Context, op pErrors.Op, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return pErrors.E(op, err)
	}
	return c.do(req, op, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.New().String())
	return req, nil
}

// do sends req under the client timeout and decodes a 2xx JSON body into out.
func (c *Client) do(req *http.Request, op pErrors.Op, out any) error {
	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	defer cancel()
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "op", op, "url", req.URL.Path, "error", err)
		return pErrors.TransportFailed(op, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request completed",
		"op", op,
		"method", req.Method,
		"url", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(RequestIDHeader),
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return pErrors.ServerFailed(op, resp.StatusCode, errorDetail(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pErrors.DecodeFailed(op, err)
	}
	return nil
}

// errorDetail extracts the explanation from a failed response: the "detail"
// member of a JSON body when present, otherwise the raw body text.
func errorDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 && string(body.Detail) != "null" {
		return rawToText(body.Detail)
	}
	return strings.TrimSpace(string(raw))
}
