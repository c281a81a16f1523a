// Package zotero is a rate-limited client for the Zotero Web API v3,
// covering library reads and the attachment upload flow.
package zotero

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Zotero Web API base URL.
	BaseURL = "https://api.zotero.org"

	// APIVersion is the Zotero-API-Version header value.
	APIVersion = "3"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit keeps request bursts well under Zotero's backoff threshold.
	RateLimit = 5.0

	// DefaultPageSize is the item page size for library reads.
	DefaultPageSize = 100
)

// Client is a rate-limited HTTP client for one Zotero user library.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	userID     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// NewClient creates a client for the given user library.
func NewClient(userID string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		userID:     userID,
	}

	if key := os.Getenv("ZOTERO_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode == 404 {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return nil
}

// do executes one API request with rate limiting and shared headers.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Zotero-API-Version", APIVersion)
	if c.apiKey != "" {
		req.Header.Set("Zotero-API-Key", c.apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	if err := checkHTTPErrors(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// getJSON fetches a path and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// CurrentKey verifies the configured API key and reports its privileges.
func (c *Client) CurrentKey(ctx context.Context) (*KeyInfo, error) {
	var info KeyInfo
	if err := c.getJSON(ctx, "/keys/current", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Items fetches the full library, paging through until the server runs out
// of results.
func (c *Client) Items(ctx context.Context) ([]Item, error) {
	var all []Item
	for start := 0; ; start += DefaultPageSize {
		path := fmt.Sprintf("/users/%s/items?format=json&limit=%d&start=%d",
			c.userID, DefaultPageSize, start)

		var page []Item
		if err := c.getJSON(ctx, path, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < DefaultPageSize {
			break
		}
	}
	return all, nil
}

// SearchItems runs a quick-search query against item titles and creators.
func (c *Client) SearchItems(ctx context.Context, query string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	path := fmt.Sprintf("/users/%s/items?format=json&q=%s&limit=%d",
		c.userID, url.QueryEscape(query), limit)

	var items []Item
	if err := c.getJSON(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateAttachment registers an imported-file attachment item under the
// given parent and returns its key.
func (c *Client) CreateAttachment(ctx context.Context, parentKey, filename, contentType string) (string, error) {
	payload, err := json.Marshal([]attachmentTemplate{{
		ItemType:    "attachment",
		LinkMode:    "imported_file",
		Title:       filename,
		ParentItem:  parentKey,
		ContentType: contentType,
		Filename:    filename,
	}})
	if err != nil {
		return "", fmt.Errorf("marshaling attachment item: %w", err)
	}

	path := fmt.Sprintf("/users/%s/items", c.userID)
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(payload),
		map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var created createResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	for _, fail := range created.Failed {
		return "", &APIError{
			StatusCode: fail.Code,
			Message:    fail.Message,
			ItemKey:    parentKey,
		}
	}
	for _, item := range created.Successful {
		return item.Key, nil
	}
	return "", fmt.Errorf("%w: empty creation response", ErrInvalidResponse)
}

// AuthorizeUpload asks the server for upload coordinates for a file about
// to be attached. ErrUploadExists means the identical file is already
// stored and no upload is needed.
func (c *Client) authorizeUpload(ctx context.Context, itemKey string, filename string, data []byte, mtime int64) (*uploadAuthorization, error) {
	form := url.Values{}
	form.Set("md5", fmt.Sprintf("%x", md5.Sum(data)))
	form.Set("filename", filename)
	form.Set("filesize", strconv.Itoa(len(data)))
	form.Set("mtime", strconv.FormatInt(mtime, 10))

	path := fmt.Sprintf("/users/%s/items/%s/file", c.userID, itemKey)
	resp, err := c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()),
		map[string]string{
			"Content-Type":  "application/x-www-form-urlencoded",
			"If-None-Match": "*",
		})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var auth uploadAuthorization
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if auth.Exists == 1 {
		return nil, ErrUploadExists
	}
	if auth.URL == "" || auth.UploadKey == "" {
		return nil, fmt.Errorf("%w: incomplete upload authorization", ErrInvalidResponse)
	}
	return &auth, nil
}

// registerUpload completes the upload flow after the storage POST.
func (c *Client) registerUpload(ctx context.Context, itemKey, uploadKey string) error {
	form := url.Values{}
	form.Set("upload", uploadKey)

	path := fmt.Sprintf("/users/%s/items/%s/file", c.userID, itemKey)
	resp, err := c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()),
		map[string]string{
			"Content-Type":  "application/x-www-form-urlencoded",
			"If-None-Match": "*",
		})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// UploadAttachment runs the full three-step upload flow for a local file
// under an existing attachment item: authorization, storage POST,
// registration. A file the server already holds is treated as success.
func (c *Client) UploadAttachment(ctx context.Context, itemKey, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading attachment file: %w", err)
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("stating attachment file: %w", err)
	}

	auth, err := c.authorizeUpload(ctx, itemKey, filepath.Base(filePath), data, info.ModTime().UnixMilli())
	if err != nil {
		if err == ErrUploadExists {
			return nil
		}
		return err
	}

	var body bytes.Buffer
	body.WriteString(auth.Prefix)
	body.Write(data)
	body.WriteString(auth.Suffix)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, auth.URL, &body)
	if err != nil {
		return fmt.Errorf("creating storage request: %w", err)
	}
	req.Header.Set("Content-Type", auth.ContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    "storage upload failed",
			ItemKey:    itemKey,
		}
	}

	return c.registerUpload(ctx, itemKey, auth.UploadKey)
}
