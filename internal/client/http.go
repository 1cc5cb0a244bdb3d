package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/avi-perl/posthole/internal/model"
)

// HTTPClient talks to the Post Hole HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new client targeting the given base URL
// (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

func (c *HTTPClient) CreateItem(ctx context.Context, req *CreateItemRequest) (*model.Item, error) {
	var item model.Item
	if err := c.doJSON(ctx, http.MethodPost, "/v1/items", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) GetItem(ctx context.Context, id string, showDeleted bool) (*model.Item, error) {
	path := "/v1/items/" + url.PathEscape(id)
	if showDeleted {
		path += "?show_deleted=true"
	}
	var item model.Item
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) ListItems(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error) {
	q := url.Values{}
	if req.ShowDeleted {
		q.Set("show_deleted", "true")
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}

	path := "/v1/items"
	if req.Model != "" {
		path = "/v1/models/" + url.PathEscape(req.Model)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListItemsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteItem(ctx context.Context, id string, permanent bool) error {
	path := "/v1/items/" + url.PathEscape(id)
	if permanent {
		path += "?permanent=true"
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) ModelSummary(ctx context.Context) (*ModelSummaryResponse, error) {
	var resp ModelSummaryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/models", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// doJSON performs an HTTP request with an optional JSON body and decodes the
// JSON response into result (when non-nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
