// Package client calls the recipe API. Every response is checked against the
// contract for its status before it is returned, and the recipe list is cached
// by operation until a mutation succeeds.
package client

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

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pageza/alchemorsel-menu/backend/internal/contract"
	"github.com/pageza/alchemorsel-menu/backend/internal/types"
)

// APIError is a non-success response from the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client is a typed client for the recipe API
type Client struct {
	baseURL string
	http    *http.Client
	cache   *lru.Cache[string, any]
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the API served at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	cache, err := lru.New[string, any](16)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 90 * time.Second},
		cache:   cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Invalidate drops the cached results of the named operations
func (c *Client) Invalidate(operations ...string) {
	for _, op := range operations {
		c.cache.Remove(op)
	}
}

// ListRecipes returns every saved recipe, newest first. Results are cached
// until a save, delete or favorite toggle succeeds.
func (c *Client) ListRecipes(ctx context.Context) ([]types.Recipe, error) {
	if cached, ok := c.cache.Get(contract.List.Name); ok {
		return cloneRecipes(cached.([]types.Recipe)), nil
	}

	out, err := c.do(ctx, contract.List, nil, nil)
	if err != nil {
		return nil, err
	}
	recipes := *out.(*[]types.Recipe)
	c.cache.Add(contract.List.Name, cloneRecipes(recipes))
	return recipes, nil
}

// GenerateRecipe asks the API for a recipe proposal. Nothing is saved.
func (c *Client) GenerateRecipe(ctx context.Context, req types.GenerateRecipeRequest) (*types.GeneratedRecipe, error) {
	out, err := c.do(ctx, contract.Generate, nil, &req)
	if err != nil {
		return nil, err
	}
	return out.(*types.GeneratedRecipe), nil
}

// SaveRecipe stores a recipe and returns it with its assigned id
func (c *Client) SaveRecipe(ctx context.Context, in types.InsertRecipe) (*types.Recipe, error) {
	out, err := c.do(ctx, contract.Save, nil, &in)
	if err != nil {
		return nil, err
	}
	c.Invalidate(contract.List.Name)
	return out.(*types.Recipe), nil
}

// DeleteRecipe removes a recipe. Deleting an unknown id succeeds.
func (c *Client) DeleteRecipe(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, contract.Delete, map[string]any{"id": id}, nil); err != nil {
		return err
	}
	c.Invalidate(contract.List.Name)
	return nil
}

// ToggleFavorite sets the favorite flag of a recipe
func (c *Client) ToggleFavorite(ctx context.Context, id int64, isFavorite bool) (*types.Recipe, error) {
	out, err := c.do(ctx, contract.ToggleFavorite, map[string]any{"id": id}, &types.ToggleFavoriteRequest{IsFavorite: &isFavorite})
	if err != nil {
		return nil, err
	}
	c.Invalidate(contract.List.Name)
	return out.(*types.Recipe), nil
}

// do sends one request for route and returns the decoded success body, or nil
// for routes that answer with an empty body.
func (c *Client) do(ctx context.Context, route contract.Route, params map[string]any, input any) (any, error) {
	path, err := contract.BuildURL(route.Path, params)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if input != nil {
		if err := contract.Validate(input); err != nil {
			return nil, err
		}
		data, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", route.Name, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", route.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	if input != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", route.Name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", route.Name, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(route, resp.StatusCode, data)}
	}

	out, err := route.DecodeResponse(resp.StatusCode, data)
	if err != nil {
		return nil, fmt.Errorf("unexpected %s response (%d): %w", route.Name, resp.StatusCode, err)
	}
	return out, nil
}

// errorMessage extracts the message of an error body, falling back to the
// status text when the body is not an error response.
func errorMessage(route contract.Route, status int, data []byte) string {
	if out, err := route.DecodeResponse(status, data); err == nil {
		if e, ok := out.(*types.ErrorResponse); ok {
			return e.Message
		}
	}
	var e types.ErrorResponse
	if json.Unmarshal(data, &e) == nil && e.Message != "" {
		return e.Message
	}
	return http.StatusText(status)
}

func cloneRecipes(in []types.Recipe) []types.Recipe {
	out := make([]types.Recipe, len(in))
	for i, r := range in {
		r.Ingredients = append([]string{}, r.Ingredients...)
		r.Instructions = append([]string{}, r.Instructions...)
		out[i] = r
	}
	return out
}
