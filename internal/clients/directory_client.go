package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"
)

// AuthContext carries the caller's credentials through to the directory
// services. The token is an opaque pass-through; this service never inspects
// or refreshes it.
type AuthContext struct {
	Token     string
	TenantID  string
	UserID    string
	UserEmail string
}

// Category as exposed by the categories-service
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Supplier as exposed by the suppliers-service
type Supplier struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Supermarket as exposed by the supermarkets-service
type Supermarket struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// CreateSupermarketRequest for registering a new supermarket
type CreateSupermarketRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	IsSubStore bool   `json:"is_sub_store"`
	IsVerified bool   `json:"is_verified"`
}

// DirectoryClient handles communication with the three directory services
// (categories, suppliers, supermarkets).
type DirectoryClient struct {
	categoriesURL   string
	suppliersURL    string
	supermarketsURL string
	httpClient      *http.Client
}

// NewDirectoryClient creates a new directory client
func NewDirectoryClient(categoriesURL, suppliersURL, supermarketsURL string) *DirectoryClient {
	return &DirectoryClient{
		categoriesURL:   strings.TrimSuffix(categoriesURL, "/"),
		suppliersURL:    strings.TrimSuffix(suppliersURL, "/"),
		supermarketsURL: strings.TrimSuffix(supermarketsURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListCategories retrieves all categories for the tenant
func (c *DirectoryClient) ListCategories(ctx context.Context, auth AuthContext) ([]Category, error) {
	body, err := c.getList(ctx, auth, c.categoriesURL+"/api/v1/categories")
	if err != nil {
		return nil, err
	}

	items, err := normalizeList(body)
	if err != nil {
		return nil, fmt.Errorf("unexpected categories response shape: %w", err)
	}

	categories := make([]Category, 0, len(items))
	for _, item := range items {
		var cat Category
		if err := json.Unmarshal(item, &cat); err != nil {
			return nil, fmt.Errorf("failed to decode category entry: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

// ListSuppliers retrieves all suppliers for the tenant
func (c *DirectoryClient) ListSuppliers(ctx context.Context, auth AuthContext) ([]Supplier, error) {
	body, err := c.getList(ctx, auth, c.suppliersURL+"/api/v1/suppliers")
	if err != nil {
		return nil, err
	}

	items, err := normalizeList(body)
	if err != nil {
		return nil, fmt.Errorf("unexpected suppliers response shape: %w", err)
	}

	suppliers := make([]Supplier, 0, len(items))
	for _, item := range items {
		var sup Supplier
		if err := json.Unmarshal(item, &sup); err != nil {
			return nil, fmt.Errorf("failed to decode supplier entry: %w", err)
		}
		suppliers = append(suppliers, sup)
	}
	return suppliers, nil
}

// ListSupermarkets retrieves all supermarkets for the tenant
func (c *DirectoryClient) ListSupermarkets(ctx context.Context, auth AuthContext) ([]Supermarket, error) {
	body, err := c.getList(ctx, auth, c.supermarketsURL+"/api/v1/supermarkets")
	if err != nil {
		return nil, err
	}

	items, err := normalizeList(body)
	if err != nil {
		return nil, fmt.Errorf("unexpected supermarkets response shape: %w", err)
	}

	supermarkets := make([]Supermarket, 0, len(items))
	for _, item := range items {
		var sm Supermarket
		if err := json.Unmarshal(item, &sm); err != nil {
			return nil, fmt.Errorf("failed to decode supermarket entry: %w", err)
		}
		supermarkets = append(supermarkets, sm)
	}
	return supermarkets, nil
}

// CreateSupermarket registers a new supermarket and returns the created
// entity including its assigned ID
func (c *DirectoryClient) CreateSupermarket(ctx context.Context, auth AuthContext, req CreateSupermarketRequest) (*Supermarket, error) {
	url := c.supermarketsURL + "/api/v1/supermarkets"

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq, auth)

	log.Printf("[DirectoryClient] Creating supermarket '%s' for tenant %s", req.Name, auth.TenantID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to create supermarket: %d - %s", resp.StatusCode, string(respBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var created Supermarket
	if err := json.Unmarshal(body, &created); err != nil || created.ID == "" {
		// Some services wrap the created entity in a data envelope
		var envelope struct {
			Data *Supermarket `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil || envelope.Data == nil || envelope.Data.ID == "" {
			return nil, fmt.Errorf("create supermarket response missing entity id")
		}
		created = *envelope.Data
	}

	log.Printf("[DirectoryClient] Successfully created supermarket '%s' (ID: %s)", created.Name, created.ID)
	return &created, nil
}

func (c *DirectoryClient) getList(ctx context.Context, auth AuthContext, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[DirectoryClient] Error calling %s: %v", url, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[DirectoryClient] %s returned %d: %s", url, resp.StatusCode, string(body))
		return nil, fmt.Errorf("directory request failed: %d - %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

func (c *DirectoryClient) setHeaders(req *http.Request, auth AuthContext) {
	req.Header.Set("Content-Type", "application/json")
	if auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}
	if auth.TenantID != "" {
		req.Header.Set("X-Tenant-ID", auth.TenantID)
	}
	if auth.UserID != "" {
		req.Header.Set("X-User-ID", auth.UserID)
	}
	if auth.UserEmail != "" {
		req.Header.Set("X-User-Email", auth.UserEmail)
	}
}

// normalizeList accepts the three list response shapes the directory services
// are known to produce - a bare array, a results envelope, or a keyed object
// map - and returns an ordered sequence of raw entries. Map entries are
// ordered by key so repeated fetches see a stable order.
func normalizeList(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	if trimmed[0] != '{' {
		return nil, fmt.Errorf("response is neither an array nor an object")
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return nil, err
	}

	if results, ok := object["results"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(results, &items); err != nil {
			return nil, fmt.Errorf("results field is not an array: %w", err)
		}
		return items, nil
	}

	// Keyed object map: values are the entries
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	items := make([]json.RawMessage, 0, len(keys))
	for _, key := range keys {
		items = append(items, object[key])
	}
	return items, nil
}
