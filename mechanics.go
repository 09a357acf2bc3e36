package mechshop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coolx3/mechshop-go/routes"
)

// Mechanic is a mechanic record as returned by the backend.
type Mechanic struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Salary    float64 `json:"salary"`
	IsAdmin   bool    `json:"is_admin"`
}

// MechanicRegistration contains the fields to create a mechanic account.
type MechanicRegistration struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Salary    float64 `json:"salary,omitempty"`
	Password  string  `json:"password"`
}

// Validate checks that required fields are present.
func (r MechanicRegistration) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if strings.TrimSpace(r.Password) == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// MechanicsClient wraps mechanic endpoints.
type MechanicsClient struct {
	client *Client
}

func (c *MechanicsClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("mechshop: mechanics client not initialized")
	}
	return nil
}

// Register creates a mechanic account. No session is required.
func (c *MechanicsClient) Register(ctx context.Context, req MechanicRegistration) (Mechanic, error) {
	if err := c.ensureInitialized(); err != nil {
		return Mechanic{}, err
	}
	if err := req.Validate(); err != nil {
		return Mechanic{}, fmt.Errorf("mechshop: %w", err)
	}
	var created Mechanic
	if err := c.client.gateway.DoJSON(ctx, http.MethodPost, routes.Mechanics, req, &created, WithBearer("")); err != nil {
		return Mechanic{}, err
	}
	return created, nil
}

// Profile returns the authenticated mechanic's profile. Admin sessions
// read the same endpoint.
func (c *MechanicsClient) Profile(ctx context.Context) (Profile, error) {
	if err := c.ensureInitialized(); err != nil {
		return Profile{}, err
	}
	if err := c.client.session.RequireRole(RoleMechanic, RoleAdmin); err != nil {
		return Profile{}, err
	}
	var profile Profile
	if err := c.client.gateway.DoJSON(ctx, http.MethodGet, routes.MechanicsProfile, nil, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Jobs returns the tickets assigned to the authenticated mechanic.
func (c *MechanicsClient) Jobs(ctx context.Context) ([]ServiceTicket, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	if err := c.client.session.RequireRole(RoleMechanic, RoleAdmin); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.client.gateway.DoJSON(ctx, http.MethodGet, routes.MechanicJobs, nil, &raw); err != nil {
		return nil, err
	}
	return decodeListPayload[ServiceTicket](raw, "tickets", "jobs")
}

// List returns all mechanics. Admin only.
func (c *MechanicsClient) List(ctx context.Context) ([]Mechanic, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	if err := c.client.session.RequireRole(RoleAdmin); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.client.gateway.DoJSON(ctx, http.MethodGet, routes.Mechanics, nil, &raw); err != nil {
		return nil, err
	}
	return decodeListPayload[Mechanic](raw, "mechanics")
}
