package mechshop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/coolx3/mechshop-go/routes"
)

// InventoryItem is a part in the shop's inventory.
type InventoryItem struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	UsageCount int64   `json:"usage_count"`
}

// InventoryClient wraps inventory endpoints. Inventory reads are public;
// no session is required.
type InventoryClient struct {
	client *Client
}

func (c *InventoryClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("mechshop: inventory client not initialized")
	}
	return nil
}

// List returns all inventory items.
func (c *InventoryClient) List(ctx context.Context) ([]InventoryItem, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.client.gateway.DoJSON(ctx, http.MethodGet, routes.Inventory, nil, &raw); err != nil {
		return nil, err
	}
	return decodeListPayload[InventoryItem](raw, "inventory")
}

// Search returns inventory items whose name matches the query.
func (c *InventoryClient) Search(ctx context.Context, query string) ([]InventoryItem, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("mechshop: search query is required")
	}
	path := routes.InventorySearch + "?" + url.Values{"name": {query}}.Encode()
	var raw json.RawMessage
	if err := c.client.gateway.DoJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeListPayload[InventoryItem](raw, "inventory")
}
