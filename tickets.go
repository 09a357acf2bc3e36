package mechshop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coolx3/mechshop-go/routes"
)

// ServiceTicket is a service ticket record.
type ServiceTicket struct {
	ID                 int64   `json:"id"`
	VIN                string  `json:"vin"`
	ServiceDate        string  `json:"service_date"`
	ServiceDescription string  `json:"service_description"`
	Price              float64 `json:"price"`
	Status             string  `json:"status"`
	CustomerID         int64   `json:"customer_id"`
}

// TicketCreate contains the fields to open a service ticket.
type TicketCreate struct {
	VIN                string  `json:"vin"`
	ServiceDate        string  `json:"service_date"`
	ServiceDescription string  `json:"service_description"`
	Price              float64 `json:"price,omitempty"`
	CustomerID         int64   `json:"customer_id,omitempty"`
}

// Validate checks that required fields are present.
func (r TicketCreate) Validate() error {
	if strings.TrimSpace(r.VIN) == "" {
		return fmt.Errorf("vin is required")
	}
	if strings.TrimSpace(r.ServiceDescription) == "" {
		return fmt.Errorf("service_description is required")
	}
	return nil
}

// TicketAssignment links a mechanic to a ticket.
type TicketAssignment struct {
	TicketID   int64 `json:"ticket_id"`
	MechanicID int64 `json:"mechanic_id"`
}

// TicketsClient wraps service ticket endpoints.
type TicketsClient struct {
	client *Client
}

func (c *TicketsClient) ensureInitialized() error {
	if c == nil || c.client == nil {
		return fmt.Errorf("mechshop: tickets client not initialized")
	}
	return nil
}

// List returns all service tickets. Staff only.
func (c *TicketsClient) List(ctx context.Context) ([]ServiceTicket, error) {
	if err := c.ensureInitialized(); err != nil {
		return nil, err
	}
	if err := c.client.session.RequireRole(RoleMechanic, RoleAdmin); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.client.gateway.DoJSON(ctx, http.MethodGet, routes.ServiceTickets, nil, &raw); err != nil {
		return nil, err
	}
	return decodeListPayload[ServiceTicket](raw, "tickets")
}

// Create opens a service ticket for the authenticated customer (or for
// an arbitrary customer when called by an admin).
func (c *TicketsClient) Create(ctx context.Context, req TicketCreate) (ServiceTicket, error) {
	if err := c.ensureInitialized(); err != nil {
		return ServiceTicket{}, err
	}
	if err := req.Validate(); err != nil {
		return ServiceTicket{}, fmt.Errorf("mechshop: %w", err)
	}
	if err := c.client.session.RequireRole(RoleCustomer, RoleAdmin); err != nil {
		return ServiceTicket{}, err
	}
	var created ServiceTicket
	if err := c.client.gateway.DoJSON(ctx, http.MethodPost, routes.ServiceTickets, req, &created); err != nil {
		return ServiceTicket{}, err
	}
	return created, nil
}

// AssignMechanic links a mechanic to a ticket. Admin only.
func (c *TicketsClient) AssignMechanic(ctx context.Context, ticketID, mechanicID int64) error {
	if err := c.ensureInitialized(); err != nil {
		return err
	}
	if ticketID <= 0 || mechanicID <= 0 {
		return fmt.Errorf("mechshop: ticket_id and mechanic_id are required")
	}
	if err := c.client.session.RequireRole(RoleAdmin); err != nil {
		return err
	}
	return c.client.gateway.DoJSON(ctx, http.MethodPost, routes.TicketMechanics, TicketAssignment{
		TicketID:   ticketID,
		MechanicID: mechanicID,
	}, nil)
}
