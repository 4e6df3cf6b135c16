// Copyright 2026 Gavelworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package rest implements index.VectorIndex over the similarity
// service's JSON HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gavelworks/lotmatch/index"
)

// ErrBaseURLRequired is returned when constructing a client without a base URL.
var ErrBaseURLRequired = errors.New("index base URL is required")

// Client talks to the vector index service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ index.VectorIndex = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the Api-Key header sent on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the default HTTP client.
// Per-query deadlines still come from the request context.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a client for the index service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type queryRequest struct {
	ID   string `json:"id"`
	TopK int    `json:"top_k"`
}

type queryMatch struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

// Query returns up to topK nearest neighbors of the vector stored
// under id, in the service's own descending-similarity order.
func (c *Client) Query(ctx context.Context, id string, topK int) ([]index.Hit, error) {
	var response queryResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/query", &queryRequest{ID: id, TopK: topK}, &response); err != nil {
		return nil, err
	}

	hits := make([]index.Hit, len(response.Matches))
	for i, match := range response.Matches {
		hits[i] = index.Hit{ID: match.ID, Score: match.Score}
	}
	return hits, nil
}

// Ping verifies the index service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodGet, "/healthz", nil, nil)
}

// doJSONRequest sends one JSON request and decodes the response.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return index.ErrUnknownKey
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("index returned status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
