// Package mechshop provides the Go client SDK for the Cool X3 Mechanics API.
package mechshop

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultUserAgent = "mechshop-go/" + Version

// Config wires the backend origin, storage, and telemetry for the client.
type Config struct {
	// BaseURL is the explicitly configured backend origin. Optional; the
	// resolver falls back through environment candidates when empty.
	BaseURL string
	// Origin is the deployment's own origin, tried as-is and with /api
	// appended when set.
	Origin string
	// HTTPClient overrides the default 30s-timeout client.
	HTTPClient *http.Client
	// Store overrides session persistence. Defaults to a file store at
	// DefaultSessionPath.
	Store SessionStore
	// Telemetry receives observability callbacks.
	Telemetry TelemetryHooks
	// UserAgent overrides the default SDK user agent.
	UserAgent string
	// LookupEnv overrides environment access for the resolver.
	LookupEnv func(string) string
}

// Client provides high-level access to the Cool X3 Mechanics API. All
// requests flow through one authenticated gateway; session state lives
// in one controller.
type Client struct {
	resolver *Resolver
	gateway  *Gateway
	session  *Controller

	// Grouped service clients.
	Customers *CustomersClient
	Mechanics *MechanicsClient
	Tickets   *TicketsClient
	Inventory *InventoryClient
}

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL != "" {
		normalized, err := validateBaseURL(baseURL)
		if err != nil {
			return nil, err
		}
		baseURL = normalized
	}

	resolver := NewResolver(ResolverConfig{
		APIURL:    baseURL,
		Origin:    cfg.Origin,
		LookupEnv: cfg.LookupEnv,
	})

	store := cfg.Store
	if store == nil {
		store = NewFileStore(DefaultSessionPath())
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	client := &Client{resolver: resolver}

	session := NewController(nil, store, cfg.Telemetry)
	gateway := NewGateway(GatewayConfig{
		Resolver:   resolver,
		HTTPClient: cfg.HTTPClient,
		Token:      session.currentToken,
		Telemetry:  cfg.Telemetry,
		UserAgent:  ua,
	})
	session.gateway = gateway
	// Authorization failures on any post-login call invalidate the whole
	// session, the same reaction every protected view used to duplicate.
	gateway.SetAuthFailureHook(session.Logout)

	client.gateway = gateway
	client.session = session
	client.Customers = &CustomersClient{client: client}
	client.Mechanics = &MechanicsClient{client: client}
	client.Tickets = &TicketsClient{client: client}
	client.Inventory = &InventoryClient{client: client}
	return client, nil
}

// Session returns the session controller.
func (c *Client) Session() *Controller { return c.session }

// Gateway returns the authenticated request gateway for callers issuing
// requests the service clients don't cover.
func (c *Client) Gateway() *Gateway { return c.gateway }

// Resolver returns the base-URL resolver.
func (c *Client) Resolver() *Resolver { return c.resolver }

func validateBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("mechshop: base URL required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("mechshop: invalid base URL: %w", err)
	}
	if u.Scheme == "" {
		return "", errors.New("mechshop: base URL missing scheme (http/https)")
	}
	if u.Host == "" {
		return "", errors.New("mechshop: base URL missing host")
	}
	return normalizeBase(trimmed), nil
}
