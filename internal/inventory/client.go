// Package inventory looks up product SKUs in the ERP and pushes saved
// artwork filenames back onto them.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nanopack/internal/errors"
)

// SKU is one product record.
type SKU struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Category   string `json:"category"` // Food, Agriculture, Cosmetics, General
	Dimensions string `json:"dimensions"`
	Status     string `json:"status"` // Active, Discontinued, Draft
}

// sampleCatalog backs SKU lookups when no ERP endpoint is configured.
var sampleCatalog = []SKU{
	{ID: "1", Code: "bev-001-org", Name: "Organic Orange Juice 16oz", Category: "Food", Dimensions: "3x3x8 in", Status: "Active"},
	{ID: "2", Code: "snk-chips-bbq", Name: "BBQ Potato Chips", Category: "Food", Dimensions: "6x2x9 in", Status: "Active"},
	{ID: "3", Code: "agri-fert-55", Name: "Nitrogen Fertilizer 50lb", Category: "Agriculture", Dimensions: "20x5x30 in", Status: "Active"},
	{ID: "4", Code: "cos-face-crm", Name: "Night Repair Cream", Category: "Cosmetics", Dimensions: "2x2x2 in", Status: "Draft"},
}

// Client talks to the inventory service. With an empty base URL it
// serves the built-in sample catalog and artwork sync becomes a logged
// no-op.
type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewClient creates an inventory client. baseURL may be empty.
func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// Search returns SKUs whose code or name contains the query,
// case-insensitively. An empty query matches nothing.
func (c *Client) Search(ctx context.Context, query string) ([]SKU, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if c.baseURL == "" {
		q := strings.ToLower(query)
		var matches []SKU
		for _, s := range sampleCatalog {
			if strings.Contains(strings.ToLower(s.Code), q) ||
				strings.Contains(strings.ToLower(s.Name), q) {
				matches = append(matches, s)
			}
		}
		return matches, nil
	}

	var skus []SKU
	if err := c.getJSON(ctx, "/skus?q="+url.QueryEscape(query), &skus); err != nil {
		return nil, err
	}
	return skus, nil
}

// Get returns the SKU with the given id.
func (c *Client) Get(ctx context.Context, id string) (*SKU, error) {
	if c.baseURL == "" {
		for _, s := range sampleCatalog {
			if s.ID == id {
				sku := s
				return &sku, nil
			}
		}
		return nil, errors.NewNotFound(id)
	}

	var sku SKU
	if err := c.getJSON(ctx, "/skus/"+id, &sku); err != nil {
		return nil, err
	}
	return &sku, nil
}

// SyncArtwork records a saved artwork filename against a SKU. The call
// is fire-and-forget from the caller's perspective; a failure never
// undoes the local save.
func (c *Client) SyncArtwork(ctx context.Context, skuID, fileName string) error {
	if c.baseURL == "" {
		c.log.Info("artwork sync skipped, no inventory endpoint configured",
			zap.String("sku_id", skuID),
			zap.String("file_name", fileName))
		return nil
	}

	body, err := json.Marshal(map[string]string{"file_name": fileName})
	if err != nil {
		return errors.NewSyncFailed(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/skus/"+skuID+"/artwork", bytes.NewReader(body))
	if err != nil {
		return errors.NewSyncFailed(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewSyncFailed(err.Error())
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("artwork sync rejected",
			zap.String("sku_id", skuID),
			zap.Int("status", resp.StatusCode))
		return errors.NewSyncFailed(fmt.Sprintf("inventory service returned status %d", resp.StatusCode))
	}

	c.log.Info("artwork synced",
		zap.String("sku_id", skuID),
		zap.String("file_name", fileName))
	return nil
}

// getJSON performs a lookup request. SYNC_FAILED is reserved for the
// artwork push, so lookup failures surface as INTERNAL.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.NewNotFound(strings.TrimPrefix(path, "/skus/"))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewInternal(fmt.Errorf("inventory service returned status %d", resp.StatusCode))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
