package mechshop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coolx3/mechshop-go/routes"
)

// Customer is a customer record as returned by the backend.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// CustomerRegistration contains the fields to create a customer account.
type CustomerRegistration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Password  string `json:"password"`
}

// Validate checks that required fields are present.
func (r CustomerRegistration) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if strings.TrimSpace(r.Password) == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// CustomersClient wraps customer endpoints.
type CustomersClient struct {
	client *Client
}

func (c *CustomersClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("mechshop: customers client not initialized")
	}
	return nil
}

// Register creates a customer account. No session is required.
func (c *CustomersClient) Register(ctx context.Context, req CustomerRegistration) (Customer, error) {
	if err := c.ensureInitialized(); err != nil {
		return Customer{}, err
	}
	if err := req.Validate(); err != nil {
		return Customer{}, fmt.Errorf("mechshop: %w", err)
	}
	var created Customer
	if err := c.client.gateway.DoJSON(ctx, http.MethodPost, routes.Customers, req, &created, WithBearer("")); err != nil {
		return Customer{}, err
	}
	return created, nil
}

// Profile returns the authenticated customer's profile.
func (c *CustomersClient) Profile(ctx context.Context) (Profile, error) {
	if err := c.ensureInitialized(); err != nil {
		return Profile{}, err
	}
	if err := c.client.session.RequireRole(RoleCustomer); err != nil {
		return Profile{}, err
	}
	var profile Profile
	if err := c.client.gateway.DoJSON(ctx, http.MethodGet, routes.CustomersProfile, nil, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// List returns all customers. Admin only.
func (c *CustomersClient) List(ctx context.Context) ([]Customer, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	if err := c.client.session.RequireRole(RoleAdmin); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.client.gateway.DoJSON(ctx, http.MethodGet, routes.Customers, nil, &raw); err != nil {
		return nil, err
	}
	return decodeListPayload[Customer](raw, "customers")
}

// decodeListPayload tolerates both a bare JSON array and an object
// wrapping the array under a known key; the backend has shipped both.
func decodeListPayload[T any](data []byte, keys ...string) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("mechshop: unexpected list payload: %w", err)
	}
	keys = append(keys, "items", "data")
	for _, key := range keys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
	}
	return nil, fmt.Errorf("mechshop: unexpected list payload shape")
}
