// Package routes provides shared API route constants used by the
// mechshop clients to prevent path mismatches against the backend.
package routes

// API route paths. The backend exposes role-specific login and profile
// endpoints; there is no shared /auth surface.
const (
	// CustomersLogin authenticates a customer and returns a bearer token.
	CustomersLogin = "/customers/login"

	// MechanicsLogin authenticates a mechanic (or admin) and returns a bearer token.
	MechanicsLogin = "/mechanics/login"

	// Customers is the customer collection: POST registers, GET lists (admin only).
	Customers = "/customers"

	// Mechanics is the mechanic collection: POST registers, GET lists (admin only).
	Mechanics = "/mechanics"

	// CustomersProfile returns the authenticated customer's profile.
	CustomersProfile = "/customers/profile"

	// MechanicsProfile returns the authenticated mechanic's profile.
	// Admin sessions use this endpoint as well; the admin flag lives on
	// the mechanic record.
	MechanicsProfile = "/mechanics/profile"

	// ServiceTickets is the service ticket collection.
	ServiceTickets = "/service_ticket"

	// TicketMechanics assigns or removes mechanics on a ticket.
	TicketMechanics = "/ticket_mechanics"

	// MechanicJobs returns the authenticated mechanic's assigned tickets.
	MechanicJobs = "/mechanics/jobs"

	// Inventory is the inventory item collection.
	Inventory = "/inventory"

	// InventorySearch performs a name search over inventory items.
	InventorySearch = "/inventory/search"
)
