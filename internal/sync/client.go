package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteProduct is the commerce API's product representation. Remote ids are
// opaque strings; money travels as plain JSON numbers.
type RemoteProduct struct {
	ID                string  `json:"id,omitempty"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Stock             int     `json:"stock"`
	SKU               *string `json:"sku,omitempty"`
	Description       *string `json:"description,omitempty"`
	Barcode           *string `json:"barcode,omitempty"`
	BuyingPrice       float64 `json:"buying_price"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	Category          *string `json:"category,omitempty"`
}

type RemoteCategory struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type RemoteSupplier struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Phone         *string `json:"phone,omitempty"`
}

// RemoteSale mirrors a recorded sale for the remote reporting endpoint.
type RemoteSale struct {
	LocalID    uint    `json:"local_id"`
	Total      float64 `json:"total"`
	Discount   float64 `json:"discount"`
	TaxRate    float64 `json:"tax_rate"`
	SaleDate   string  `json:"sale_date"`
	CustomerID *string `json:"customer_id,omitempty"`
}

type RemotePurchase struct {
	LocalID      uint    `json:"local_id"`
	TotalCost    float64 `json:"total_cost"`
	PurchaseDate string  `json:"purchase_date"`
	Supplier     *string `json:"supplier,omitempty"`
}

// Client is the boundary to the external commerce API. 200/201 carry a JSON
// body, 204 none; any other status is a failure carrying the response body.
type Client interface {
	Health(ctx context.Context) error

	ListProducts(ctx context.Context, updatedSince *time.Time) ([]RemoteProduct, error)
	CreateProduct(ctx context.Context, p RemoteProduct) (*RemoteProduct, error)
	UpdateProduct(ctx context.Context, id string, p RemoteProduct) error
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]RemoteCategory, error)
	CreateCategory(ctx context.Context, c RemoteCategory) (*RemoteCategory, error)
	UpdateCategory(ctx context.Context, id string, c RemoteCategory) error
	DeleteCategory(ctx context.Context, id string) error

	ListSuppliers(ctx context.Context) ([]RemoteSupplier, error)
	CreateSupplier(ctx context.Context, s RemoteSupplier) (*RemoteSupplier, error)
	UpdateSupplier(ctx context.Context, id string, s RemoteSupplier) error
	DeleteSupplier(ctx context.Context, id string) error

	CreateSale(ctx context.Context, s RemoteSale) error
	CreatePurchase(ctx context.Context, p RemotePurchase) error
}

// HTTPClient talks to the commerce API with bearer auth and linear-backoff
// retries on transient network failures and 5xx responses.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	attempts   int
	retryDelay time.Duration
	httpClient *http.Client
}

type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
}

func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// do runs one API call, retrying network errors and 5xx responses with a
// linearly increasing delay. out may be nil for calls without a body.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("sync client: marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt-1)):
			}
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return fmt.Errorf("sync client: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("sync client: %s %s: %w", method, path, err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNoContent:
			resp.Body.Close()
			return nil
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
			if out == nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				return nil
			}
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("sync client: decode response: %w", err)
			}
			return nil
		case resp.StatusCode >= 500:
			msg, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("sync client: %s %s: status %d: %s", method, path, resp.StatusCode, string(msg))
			continue
		default:
			msg, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("sync client: %s %s: status %d: %s", method, path, resp.StatusCode, string(msg))
		}
	}
	return lastErr
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *HTTPClient) ListProducts(ctx context.Context, updatedSince *time.Time) ([]RemoteProduct, error) {
	path := "/products"
	if updatedSince != nil {
		path += "?updated_since=" + updatedSince.UTC().Format(time.RFC3339)
	}
	var out []RemoteProduct
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateProduct(ctx context.Context, p RemoteProduct) (*RemoteProduct, error) {
	var out RemoteProduct
	if err := c.do(ctx, http.MethodPost, "/products", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateProduct(ctx context.Context, id string, p RemoteProduct) error {
	return c.do(ctx, http.MethodPut, "/products/"+id, p, nil)
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]RemoteCategory, error) {
	var out []RemoteCategory
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateCategory(ctx context.Context, cat RemoteCategory) (*RemoteCategory, error) {
	var out RemoteCategory
	if err := c.do(ctx, http.MethodPost, "/categories", cat, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateCategory(ctx context.Context, id string, cat RemoteCategory) error {
	return c.do(ctx, http.MethodPut, "/categories/"+id, cat, nil)
}

func (c *HTTPClient) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id, nil, nil)
}

func (c *HTTPClient) ListSuppliers(ctx context.Context) ([]RemoteSupplier, error) {
	var out []RemoteSupplier
	if err := c.do(ctx, http.MethodGet, "/suppliers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateSupplier(ctx context.Context, s RemoteSupplier) (*RemoteSupplier, error) {
	var out RemoteSupplier
	if err := c.do(ctx, http.MethodPost, "/suppliers", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateSupplier(ctx context.Context, id string, s RemoteSupplier) error {
	return c.do(ctx, http.MethodPut, "/suppliers/"+id, s, nil)
}

func (c *HTTPClient) DeleteSupplier(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/suppliers/"+id, nil, nil)
}

func (c *HTTPClient) CreateSale(ctx context.Context, s RemoteSale) error {
	return c.do(ctx, http.MethodPost, "/sales", s, nil)
}

func (c *HTTPClient) CreatePurchase(ctx context.Context, p RemotePurchase) error {
	return c.do(ctx, http.MethodPost, "/purchases", p, nil)
}
