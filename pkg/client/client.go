// Package client is a Go client for the asset tracker HTTP API. Failures are
// reported with the custom_error taxonomy: 400 answers become ValidationError,
// 404 answers NotFoundError and anything else TransportError.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/models"

	"github.com/goccy/go-json"
)

const DefaultBaseURL = "http://localhost:8080"

var defaultHTTPClient = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sends token as a bearer token on every request. An empty token is ignored.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.token = token
		}
	}
}

// WithBaseURL overrides the base URL. An empty value is ignored.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: defaultHTTPClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromEnv reads ASSET_API_URL and ASSET_API_TOKEN.
func NewFromEnv(opts ...Option) *Client {
	opts = append([]Option{WithToken(os.Getenv("ASSET_API_TOKEN"))}, opts...)
	return New(os.Getenv("ASSET_API_URL"), opts...)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListAssets(ctx context.Context) (models.AssetList, error) {
	var list models.AssetList
	if err := c.do(ctx, http.MethodGet, "/api/assets", "", nil, &list); err != nil {
		return models.AssetList{}, err
	}
	if list.Assets == nil {
		list.Assets = []models.Asset{}
	}
	return list, nil
}

func (c *Client) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	if err := c.do(ctx, http.MethodGet, assetPath(id), id, nil, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (c *Client) CreateAsset(ctx context.Context, req models.CreateAssetRequest) (*models.Asset, error) {
	var asset models.Asset
	if err := c.do(ctx, http.MethodPost, "/api/assets", "", req, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (c *Client) UpdateAsset(ctx context.Context, id string, req models.UpdateAssetRequest) (*models.Asset, error) {
	var asset models.Asset
	if err := c.do(ctx, http.MethodPut, assetPath(id), id, req, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (c *Client) DeleteAsset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, assetPath(id), id, nil, nil)
}

func (c *Client) AssetHistory(ctx context.Context, id string) ([]models.AuditLog, error) {
	history := []models.AuditLog{}
	if err := c.do(ctx, http.MethodGet, assetPath(id)+"/history", id, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func assetPath(id string) string {
	return "/api/assets/" + url.PathEscape(id)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (c *Client) do(ctx context.Context, method, path, id string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &custom_error.TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &custom_error.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &custom_error.TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw, id)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &custom_error.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func decodeError(status int, raw []byte, id string) error {
	var body errorResponse
	_ = json.Unmarshal(raw, &body)

	message := body.Error
	if body.Details != "" {
		message = body.Details
	}
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest:
		return custom_error.NewValidationError("", message)
	case http.StatusNotFound:
		return custom_error.NewNotFoundError("asset", id)
	default:
		return &custom_error.TransportError{StatusCode: status, Err: errors.New(message)}
	}
}
