package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/cart"
	"storefront/internal/domain/orders"
	"storefront/internal/domain/products"
)

// apiError is the error envelope written by the API.
type apiError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient(baseURL, token string) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return json.Unmarshal(env.Data, out)
}

// Products lists the storefront catalog: live products in active categories.
func (c *client) Products(ctx context.Context, search, category string, page int) (*products.Page, error) {
	q := url.Values{}
	q.Set("activeCategoriesOnly", "true")
	if search != "" {
		q.Set("search", search)
	}
	if category != "" {
		q.Set("category", category)
	}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}

	var out products.Page
	if err := c.do(ctx, http.MethodGet, "/v1/products?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) Product(ctx context.Context, id string) (*products.Product, error) {
	var out products.Product
	if err := c.do(ctx, http.MethodGet, "/v1/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var errNoToken = errors.New("checkout needs a token: pass -token or set STOREFRONT_TOKEN")

func (c *client) Checkout(ctx context.Context, req cart.CheckoutRequest) (*orders.Order, error) {
	if c.token == "" {
		return nil, errNoToken
	}
	var out struct {
		Message     string        `json:"message"`
		Transaction *orders.Order `json:"transaction"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/transactions", req, &out); err != nil {
		return nil, err
	}
	return out.Transaction, nil
}
