package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// BulkCreateError describes a single failed record in a bulk create call
type BulkCreateError struct {
	Index   int    `json:"index"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkCreateResult is the products-service response to a bulk create
type BulkCreateResult struct {
	Success    bool              `json:"success"`
	CreatedIDs []string          `json:"createdIds"`
	Errors     []BulkCreateError `json:"errors,omitempty"`
}

// ProductsClient handles communication with the products-service
type ProductsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProductsClient creates a new products client
func NewProductsClient(baseURL string) *ProductsClient {
	return &ProductsClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BulkCreateProducts submits converted import records for creation
func (c *ProductsClient) BulkCreateProducts(ctx context.Context, auth AuthContext, records []map[string]interface{}) (*BulkCreateResult, error) {
	url := c.baseURL + "/api/v1/products/bulk"

	payload, err := json.Marshal(map[string]interface{}{"products": records})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}
	req.Header.Set("X-Tenant-ID", auth.TenantID)
	if auth.UserID != "" {
		req.Header.Set("X-User-ID", auth.UserID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[ProductsClient] Error calling products API: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bulk create failed: %d - %s", resp.StatusCode, string(body))
	}

	var result BulkCreateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	log.Printf("[ProductsClient] Bulk create: %d created, %d failed", len(result.CreatedIDs), len(result.Errors))
	return &result, nil
}
