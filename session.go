package mechshop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// SessionState names the controller's lifecycle states.
type SessionState string

const (
	// StateBootstrapping covers initial hydration from durable storage.
	StateBootstrapping SessionState = "bootstrapping"
	// StateAnonymous means no session is held.
	StateAnonymous SessionState = "anonymous"
	// StateAuthenticating covers an in-flight login.
	StateAuthenticating SessionState = "authenticating"
	// StateAuthenticated means a token was obtained and hydration succeeded.
	StateAuthenticated SessionState = "authenticated"
	// StateInvalid is terminal per attempt; the controller cleans up and
	// returns to StateAnonymous.
	StateInvalid SessionState = "invalid"
)

// Session is the in-memory authenticated identity.
type Session struct {
	Token   string
	Role    Role
	Profile *Profile
	// IsAdmin is kept separately from Role because the source-of-truth
	// flag can arrive independently of role classification.
	IsAdmin bool
	// Loading is true only while Bootstrap hydrates from durable storage.
	Loading bool
}

// Credentials identifies a user at login. Identifier is routed as an
// email field when it contains "@", otherwise as a username.
type Credentials struct {
	Identifier string
	Password   string
}

// Controller owns session state: it orchestrates login, profile
// hydration, logout, and persistence. Components read session state
// through Snapshot and react to changes through the store's broadcast
// channel; nothing reads durable storage directly.
type Controller struct {
	gateway   *Gateway
	store     SessionStore
	telemetry TelemetryHooks

	mu      sync.Mutex
	state   SessionState
	session Session
}

// NewController returns a controller in the anonymous state. Call
// Bootstrap to hydrate any session left in durable storage.
func NewController(gateway *Gateway, store SessionStore, telemetry TelemetryHooks) *Controller {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Controller{
		gateway:   gateway,
		store:     store,
		telemetry: telemetry,
		state:     StateAnonymous,
	}
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a listener for session-changed broadcasts.
func (c *Controller) Subscribe() (<-chan struct{}, func()) {
	return c.store.Subscribe()
}

// Bootstrap restores a persisted session at startup. A stored token that
// cannot be hydrated is cleared entirely; the controller lands in the
// anonymous state rather than holding an untrustworthy token.
func (c *Controller) Bootstrap(ctx context.Context) Session {
	c.mu.Lock()
	c.state = StateBootstrapping
	c.session = Session{Loading: true}
	c.mu.Unlock()

	rec, ok := c.store.Load()
	if !ok || rec.Empty() || !rec.Role.Valid() {
		c.mu.Lock()
		c.state = StateAnonymous
		c.session = Session{}
		c.mu.Unlock()
		return c.Snapshot()
	}

	c.mu.Lock()
	c.session = Session{Token: rec.Token, Role: rec.Role, IsAdmin: rec.IsAdmin, Loading: true}
	c.mu.Unlock()

	if _, err := c.FetchProfile(ctx, rec.Token, rec.Role); err != nil {
		if ctx.Err() != nil {
			// The stored token was never judged; keep it on disk and
			// revert memory so a later Bootstrap can retry.
			c.mu.Lock()
			c.state = StateAnonymous
			c.session = Session{}
			c.mu.Unlock()
			return c.Snapshot()
		}
		// FetchProfile already cleared everything.
		return c.Snapshot()
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.session.Loading = false
	c.mu.Unlock()
	return c.Snapshot()
}

// Login authenticates against the role-specific login endpoint and
// hydrates the profile. Any step that fails leaves no partial state: a
// rejection leaves the store untouched, a hydration failure clears the
// token that was provisionally persisted.
func (c *Controller) Login(ctx context.Context, creds Credentials, desired Role) (Session, error) {
	identifier := strings.TrimSpace(creds.Identifier)
	password := strings.TrimSpace(creds.Password)
	if identifier == "" {
		return Session{}, fmt.Errorf("mechshop: identifier is required")
	}
	if password == "" {
		return Session{}, fmt.Errorf("mechshop: password is required")
	}
	if !desired.Valid() {
		return Session{}, fmt.Errorf("mechshop: invalid role %q", desired)
	}

	c.setState(StateAuthenticating)

	resp, err := c.gateway.Do(ctx, http.MethodPost, desired.loginRoute(), loginBody(identifier, password), WithBearer(""))
	if err != nil {
		c.setState(StateAnonymous)
		return Session{}, err
	}
	data, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		c.setState(StateAnonymous)
		return Session{}, readErr
	}

	result := decodeLoginPayload(data)
	if resp.StatusCode >= 400 {
		c.setState(StateInvalid)
		c.setState(StateAnonymous)
		return Session{}, &InvalidCredentialsError{Status: resp.StatusCode, Message: result.Message}
	}
	if result.Token == "" {
		// Distinct from a rejection: the backend said yes but broke its
		// own contract.
		c.telemetry.log(ctx, LogLevelWarn, "login response contained no token", map[string]any{
			"role":   string(desired),
			"status": resp.StatusCode,
		})
		c.setState(StateInvalid)
		c.setState(StateAnonymous)
		return Session{}, &NoTokenError{}
	}

	// Login-time role and admin hints are advisory until the profile
	// confirms them. Customer logins never carry the admin flag.
	advisoryAdmin := result.IsAdmin && desired != RoleCustomer

	c.mu.Lock()
	c.session = Session{Token: result.Token, Role: desired, IsAdmin: advisoryAdmin}
	c.mu.Unlock()
	c.store.Save(SessionRecord{Token: result.Token, Role: desired, IsAdmin: advisoryAdmin})

	if _, err := c.FetchProfile(ctx, result.Token, desired); err != nil {
		if ctx.Err() != nil {
			// The provisional token was persisted but never validated.
			c.clearSession()
		}
		c.setState(StateInvalid)
		c.setState(StateAnonymous)
		return Session{}, err
	}

	c.setState(StateAuthenticated)
	return c.Snapshot(), nil
}

// LoginWithToken accepts a token obtained out-of-band and runs the same
// hydration path as Login.
func (c *Controller) LoginWithToken(ctx context.Context, token string, role Role) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, fmt.Errorf("mechshop: token is required")
	}
	if !role.Valid() {
		return Session{}, fmt.Errorf("mechshop: invalid role %q", role)
	}

	c.setState(StateAuthenticating)
	c.mu.Lock()
	c.session = Session{Token: token, Role: role, IsAdmin: role == RoleAdmin}
	c.mu.Unlock()
	c.store.Save(SessionRecord{Token: token, Role: role, IsAdmin: role == RoleAdmin})

	if _, err := c.FetchProfile(ctx, token, role); err != nil {
		if ctx.Err() != nil {
			c.clearSession()
		}
		c.setState(StateInvalid)
		c.setState(StateAnonymous)
		return Session{}, err
	}
	c.setState(StateAuthenticated)
	return c.Snapshot(), nil
}

// FetchProfile hydrates the session from the role-specific profile
// endpoint. A failure is equivalent to a full logout: an un-hydrate-able
// token is assumed expired or revoked, so the entire session is cleared,
// not just the profile. Cancellation is the exception: the token was
// never judged, so the caller's ctx error comes back as-is and stored
// state stays put. The hydrated profile is authoritative over any
// login-time role or admin hints.
func (c *Controller) FetchProfile(ctx context.Context, token string, role Role) (*Profile, error) {
	if strings.TrimSpace(token) == "" || !role.Valid() {
		return nil, ErrUnauthenticated
	}

	resp, err := c.gateway.Do(ctx, http.MethodGet, role.profileRoute(), nil, WithBearer(token))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.clearSession()
		return nil, &ProfileHydrationError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.clearSession()
		return nil, &ProfileHydrationError{Status: resp.StatusCode}
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.clearSession()
		return nil, &ProfileHydrationError{Err: err}
	}

	// The profile's admin flag overrides whatever the login response
	// claimed. An admin flag always implies the admin role; a mechanic
	// guess of admin without the flag is demoted back.
	final := role
	switch {
	case profile.IsAdmin:
		final = RoleAdmin
	case role == RoleAdmin:
		final = RoleMechanic
	}

	c.mu.Lock()
	c.session.Token = token
	c.session.Role = final
	c.session.Profile = &profile
	c.session.IsAdmin = profile.IsAdmin
	c.mu.Unlock()
	c.store.Save(SessionRecord{Token: token, Role: final, IsAdmin: profile.IsAdmin})

	return &profile, nil
}

// Logout clears durable storage and in-memory state and broadcasts.
// Navigation after logout is the caller's responsibility.
func (c *Controller) Logout() {
	c.clearSession()
}

// RequireRole is the precondition every role-gated caller checks before
// issuing reads: a token must be held and, when roles are given, the
// session's role must be among them. No network call is attempted when
// the check fails.
func (c *Controller) RequireRole(roles ...Role) error {
	s := c.Snapshot()
	if s.Token == "" {
		return ErrUnauthenticated
	}
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if s.Role == r {
			return nil
		}
	}
	return &RoleMismatchError{Have: s.Role, Want: roles}
}

func (c *Controller) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Token
}

func (c *Controller) clearSession() {
	c.mu.Lock()
	c.session = Session{}
	c.state = StateAnonymous
	c.mu.Unlock()
	c.store.Clear()
}

func (c *Controller) setState(state SessionState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}
