package mechshop

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coolx3/mechshop-go/headers"
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Gateway performs authenticated requests against the backend, probing
// the resolver's candidate origins in order. A 404 means "this origin
// doesn't serve this route" and advances the sweep; any other response
// is a legitimate answer from a reachable backend and is returned
// immediately. Transport failures also advance. The gateway never
// mutates session state itself.
type Gateway struct {
	resolver      *Resolver
	httpClient    *http.Client
	token         TokenSource
	telemetry     TelemetryHooks
	userAgent     string
	onAuthFailure func()
}

// GatewayConfig wires the gateway's collaborators.
type GatewayConfig struct {
	Resolver   *Resolver
	HTTPClient *http.Client
	Token      TokenSource
	Telemetry  TelemetryHooks
	UserAgent  string
}

// NewGateway returns a gateway over the given configuration.
func NewGateway(cfg GatewayConfig) *Gateway {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = NewResolver(ResolverConfig{})
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Gateway{
		resolver:   resolver,
		httpClient: httpClient,
		token:      cfg.Token,
		telemetry:  cfg.Telemetry,
		userAgent:  ua,
	}
}

// SetAuthFailureHook installs the shared reaction to 401/403 responses
// on decoded calls. The session controller wires its Logout here so
// invalidation propagates uniformly instead of per call site.
func (g *Gateway) SetAuthFailureHook(fn func()) { g.onAuthFailure = fn }

// RequestOption customizes a single outgoing request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	header http.Header
	bearer *string
}

// WithBearer overrides the gateway's token source for one request.
// Passing "" suppresses the Authorization header entirely.
func WithBearer(token string) RequestOption {
	return func(opts *requestOptions) {
		t := strings.TrimSpace(token)
		opts.bearer = &t
	}
}

// WithHeader adds a header to one request.
func WithHeader(key, value string) RequestOption {
	return func(opts *requestOptions) {
		if opts.header == nil {
			opts.header = http.Header{}
		}
		opts.header.Set(key, value)
	}
}

// WithRequestID sets the correlation ID header for one request instead
// of letting the gateway generate one.
func WithRequestID(id string) RequestOption {
	return WithHeader(headers.RequestID, strings.TrimSpace(id))
}

// Do performs one logical request, sweeping candidate origins. The
// caller owns the returned response body. Context cancellation is a
// distinct outcome: the caller's ctx.Err is returned as-is, never
// wrapped as a backend failure.
func (g *Gateway) Do(ctx context.Context, method, path string, payload any, opts ...RequestOption) (*http.Response, error) {
	var reqOpts requestOptions
	for _, opt := range opts {
		opt(&reqOpts)
	}

	var encoded []byte
	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}

	candidates := g.resolver.Candidates()
	var lastStatus int
	var lastErr error
	for _, base := range candidates {
		req, err := g.newRequest(ctx, method, buildURL(base, path), encoded, reqOpts)
		if err != nil {
			return nil, err
		}
		resp, err := g.attempt(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusNotFound {
			lastStatus = http.StatusNotFound
			drainAndClose(resp)
			continue
		}
		return resp, nil
	}
	g.telemetry.log(ctx, LogLevelError, "all backend candidates exhausted", map[string]any{
		"attempts": len(candidates),
		"path":     path,
	})
	return nil, &NoReachableBackendError{
		Attempts:   len(candidates),
		LastStatus: lastStatus,
		Err:        lastErr,
	}
}

// DoJSON performs a request and decodes a JSON response into out.
// Responses with status >= 400 become typed errors; a 401/403 fires the
// auth-failure hook before the error is returned.
func (g *Gateway) DoJSON(ctx context.Context, method, path string, payload, out any, opts ...RequestOption) error {
	resp, err := g.Do(ctx, method, path, payload, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			if g.onAuthFailure != nil {
				g.onAuthFailure()
			}
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (g *Gateway) newRequest(ctx context.Context, method, url string, encoded []byte, reqOpts requestOptions) (*http.Request, error) {
	var body io.Reader
	if encoded != nil {
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if encoded != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set(headers.Client, defaultUserAgent)
	for key, vals := range reqOpts.header {
		for _, v := range vals {
			req.Header.Set(key, v)
		}
	}
	if req.Header.Get(headers.RequestID) == "" {
		req.Header.Set(headers.RequestID, uuid.NewString())
	}
	g.applyAuth(req, reqOpts)
	injectTraceparent(ctx, req)
	return req, nil
}

func (g *Gateway) applyAuth(req *http.Request, reqOpts requestOptions) {
	token := ""
	if reqOpts.bearer != nil {
		token = *reqOpts.bearer
	} else if g.token != nil {
		token = strings.TrimSpace(g.token())
	}
	if token == "" {
		return
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func (g *Gateway) attempt(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if g.telemetry.OnHTTPRequest != nil {
		g.telemetry.OnHTTPRequest(ctx, req)
	}
	start := time.Now()
	resp, err := g.httpClient.Do(req)
	latency := time.Since(start)
	if g.telemetry.OnHTTPResponse != nil {
		g.telemetry.OnHTTPResponse(ctx, req, resp, err, latency)
	}
	g.telemetry.metric(ctx, "mechshop_http_request_latency_ms", float64(latency.Milliseconds()), map[string]string{
		"path": req.URL.Path,
	})
	return resp, err
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
