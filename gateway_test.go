package mechshop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/coolx3/mechshop-go/headers"
	"github.com/coolx3/mechshop-go/testutil"
)

// resolverFor builds a resolver whose first candidates are exactly the
// given bases (the hardcoded local fallback still trails them).
func resolverFor(bases ...string) *Resolver {
	env := map[string]string{}
	keys := []string{EnvAPIURL, EnvLegacyAPIURL}
	r := NewResolver(ResolverConfig{
		APIURL:    bases[0],
		LookupEnv: func(key string) string { return env[key] },
	})
	for i, base := range bases[1:] {
		if i < len(keys) {
			env[keys[i]] = base
		}
	}
	return r
}

func TestGatewaySkips404AndStopsAtFirstAnswer(t *testing.T) {
	a := httptest.NewServer(testutil.JSONHandler(http.StatusNotFound, map[string]string{"error": "not here"}))
	defer a.Close()
	b := httptest.NewServer(testutil.JSONHandler(http.StatusOK, map[string]string{"ok": "yes"}))
	defer b.Close()
	var cHits atomic.Int64
	c := httptest.NewServer(testutil.Counting(&cHits, testutil.JSONHandler(http.StatusOK, nil)))
	defer c.Close()

	g := NewGateway(GatewayConfig{Resolver: resolverFor(a.URL, b.URL, c.URL)})
	resp, err := g.Do(context.Background(), http.MethodGet, "/inventory", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from second candidate, got %d", resp.StatusCode)
	}
	if cHits.Load() != 0 {
		t.Fatalf("third candidate should never be probed, got %d hits", cHits.Load())
	}
}

func TestGatewayTransportFailureAdvancesAndNon404IsTerminal(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close() // connection refused from here on
	b := httptest.NewServer(testutil.JSONHandler(http.StatusInternalServerError, map[string]string{"error": "boom"}))
	defer b.Close()

	g := NewGateway(GatewayConfig{Resolver: resolverFor(dead.URL, b.URL)})
	resp, err := g.Do(context.Background(), http.MethodGet, "/inventory", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()
	// A non-404 server error is a legitimate terminal answer, not a
	// reason to keep probing.
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestGatewayExhaustedCandidates(t *testing.T) {
	a := httptest.NewServer(testutil.JSONHandler(http.StatusNotFound, nil))
	defer a.Close()

	g := NewGateway(GatewayConfig{Resolver: resolverFor(a.URL)})
	_, err := g.Do(context.Background(), http.MethodGet, "/nowhere", nil)
	if !IsNoReachableBackend(err) {
		t.Fatalf("expected NoReachableBackendError, got %v", err)
	}
	var nre *NoReachableBackendError
	errors.As(err, &nre)
	if nre.Attempts < 2 {
		t.Fatalf("expected sweep over all candidates, got %d attempts", nre.Attempts)
	}
}

func TestGatewayAppliesBearerAndRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if r.Header.Get(headers.RequestID) == "" {
			t.Error("expected a generated request ID")
		}
		if r.Header.Get(headers.Client) == "" {
			t.Error("expected client identification header")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := NewGateway(GatewayConfig{
		Resolver: resolverFor(srv.URL),
		Token:    func() string { return "tok-1" },
	})
	resp, err := g.Do(context.Background(), http.MethodGet, "/customers/profile", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()
}

func TestGatewayBearerOverrideSuppressesHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := NewGateway(GatewayConfig{
		Resolver: resolverFor(srv.URL),
		Token:    func() string { return "tok-1" },
	})
	resp, err := g.Do(context.Background(), http.MethodPost, "/customers/login", map[string]string{"email": "x@y.z"}, WithBearer(""))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()
}

func TestGatewayStripsBearerPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-2" {
			t.Errorf("expected single bearer prefix, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := NewGateway(GatewayConfig{Resolver: resolverFor(srv.URL)})
	resp, err := g.Do(context.Background(), http.MethodGet, "/x", nil, WithBearer("Bearer tok-2"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()
}

func TestGatewayCancellationIsDistinct(t *testing.T) {
	srv := httptest.NewServer(testutil.JSONHandler(http.StatusOK, nil))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGateway(GatewayConfig{Resolver: resolverFor(srv.URL)})
	_, err := g.Do(ctx, http.MethodGet, "/inventory", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if IsNoReachableBackend(err) {
		t.Fatal("cancellation must not be reported as an unreachable backend")
	}
}

func TestGatewayDoJSONCarriesRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headers.RequestID, "req-123")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad vin"}`))
	}))
	defer srv.Close()

	g := NewGateway(GatewayConfig{Resolver: resolverFor(srv.URL)})
	err := g.DoJSON(context.Background(), http.MethodPost, "/service_ticket", map[string]string{"vin": ""}, nil)
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.RequestID != "req-123" {
		t.Fatalf("expected correlation ID to round-trip, got %q", apiErr.RequestID)
	}
	if apiErr.Message != "bad vin" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestGatewayDoJSONFiresAuthFailureHook(t *testing.T) {
	srv := httptest.NewServer(testutil.JSONHandler(http.StatusUnauthorized, map[string]string{"message": "expired"}))
	defer srv.Close()

	var fired atomic.Int64
	g := NewGateway(GatewayConfig{Resolver: resolverFor(srv.URL)})
	g.SetAuthFailureHook(func() { fired.Add(1) })

	err := g.DoJSON(context.Background(), http.MethodGet, "/service_ticket", nil, nil)
	if !IsAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}
	if fired.Load() != 1 {
		t.Fatalf("expected hook to fire once, got %d", fired.Load())
	}
}
