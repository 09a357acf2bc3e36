package mechshop

import (
	"os"
	"strings"
	"sync"
)

// Environment sources consulted by the resolver, in priority order after
// any explicitly configured API URL.
const (
	// EnvAPIURL is the primary backend origin variable.
	EnvAPIURL = "MECHSHOP_API_URL"
	// EnvLegacyAPIURL is the legacy-named equivalent, still honored so
	// older deployment configs keep working.
	EnvLegacyAPIURL = "REACT_APP_API_URL"
	// EnvPlatformHost carries the deployment platform's own hostname,
	// published without a scheme.
	EnvPlatformHost = "VERCEL_URL"
)

// fallbackBaseURL guarantees resolution always yields at least one
// candidate, pointing at a local development backend.
const fallbackBaseURL = "http://localhost:8000"

const apiPathSuffix = "/api"

// Resolver assembles the ordered list of backend origin candidates for a
// request. Candidates are recomputed on every call since the runtime
// override and environment may change between calls.
type Resolver struct {
	mu        sync.RWMutex
	apiURL    string
	origin    string
	override  string
	lookupEnv func(string) string
}

// ResolverConfig wires the configured sources for candidate assembly.
type ResolverConfig struct {
	// APIURL is the explicitly configured backend origin, highest priority.
	APIURL string
	// Origin is the deployment's own origin, tried as-is and with the
	// conventional /api suffix.
	Origin string
	// LookupEnv overrides environment access; defaults to os.Getenv.
	LookupEnv func(string) string
}

// NewResolver returns a resolver over the given configuration.
func NewResolver(cfg ResolverConfig) *Resolver {
	lookup := cfg.LookupEnv
	if lookup == nil {
		lookup = os.Getenv
	}
	return &Resolver{
		apiURL:    normalizeBase(cfg.APIURL),
		origin:    normalizeBase(cfg.Origin),
		lookupEnv: lookup,
	}
}

// SetOverride installs (or, with an empty string, removes) a runtime
// backend override that outranks environment-derived candidates.
func (r *Resolver) SetOverride(raw string) {
	r.mu.Lock()
	r.override = normalizeBase(raw)
	r.mu.Unlock()
}

// Candidates returns the ordered, deduplicated, non-empty sequence of
// base URLs to probe. First-seen order wins on duplicates.
func (r *Resolver) Candidates() []string {
	r.mu.RLock()
	apiURL, origin, override := r.apiURL, r.origin, r.override
	r.mu.RUnlock()

	raw := make([]string, 0, 8)
	raw = append(raw, apiURL)
	raw = append(raw, normalizeBase(r.lookupEnv(EnvAPIURL)))
	raw = append(raw, normalizeBase(r.lookupEnv(EnvLegacyAPIURL)))
	raw = append(raw, override)
	if host := normalizeBase(r.lookupEnv(EnvPlatformHost)); host != "" {
		if strings.Contains(host, "://") {
			raw = append(raw, host)
		} else {
			raw = append(raw, "https://"+host)
		}
	}
	if origin != "" {
		raw = append(raw, origin, origin+apiPathSuffix)
	}
	raw = append(raw, fallbackBaseURL)

	seen := make(map[string]struct{}, len(raw))
	candidates := make([]string, 0, len(raw))
	for _, c := range raw {
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		candidates = append(candidates, c)
	}
	return candidates
}

// normalizeBase strips trailing slashes so bases join cleanly with paths.
func normalizeBase(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for strings.HasSuffix(trimmed, "/") {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}
	return trimmed
}

// buildURL joins a normalized base with a path carrying exactly one
// leading slash.
func buildURL(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return normalizeBase(base) + path
}
