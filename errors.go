package mechshop

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/coolx3/mechshop-go/headers"
)

// ErrUnauthenticated is returned when an operation requires a session
// token and none is held. Callers check this precondition before the
// gateway is ever reached.
var ErrUnauthenticated = errors.New("mechshop: not authenticated")

// APIError captures structured backend error metadata.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

// Error implements the error interface.
func (e APIError) Error() string {
	if e.Message == "" {
		e.Message = fmt.Sprintf("request failed (%d)", e.Status)
	}
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	apiErr := APIError{Status: resp.StatusCode, RequestID: resp.Header.Get(headers.RequestID)}
	if len(data) == 0 {
		apiErr.Message = resp.Status
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
		Err     string `json:"error"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		apiErr.Message = string(data)
		return apiErr
	}
	apiErr.Code = payload.Code
	apiErr.Message = payload.Message
	if apiErr.Message == "" {
		apiErr.Message = payload.Err
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}

// NoReachableBackendError reports that every base-URL candidate either
// failed at the transport level or answered 404. The error text stays
// generic; the probed origins are deliberately not echoed to callers.
type NoReachableBackendError struct {
	Attempts   int
	LastStatus int
	Err        error
}

func (e *NoReachableBackendError) Error() string {
	return "mechshop: no reachable backend"
}

func (e *NoReachableBackendError) Unwrap() error { return e.Err }

// InvalidCredentialsError reports an explicit login rejection from the
// backend. The session is left untouched; it was never established.
type InvalidCredentialsError struct {
	Status  int
	Message string
}

func (e *InvalidCredentialsError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mechshop: login failed (%d)", e.Status)
	}
	return "mechshop: " + e.Message
}

// NoTokenError reports a success login response that omitted a token.
// Treated like a rejection by callers, but logged distinctly since it
// indicates backend contract drift.
type NoTokenError struct{}

func (e *NoTokenError) Error() string {
	return "mechshop: login response contained no token"
}

// ProfileHydrationError reports a profile fetch failure after a token
// was obtained. The whole session is cleared when this is returned; a
// token without a verifiable profile is untrustworthy.
type ProfileHydrationError struct {
	Status int
	Err    error
}

func (e *ProfileHydrationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("mechshop: profile hydration failed (%d)", e.Status)
	}
	return "mechshop: profile hydration failed"
}

func (e *ProfileHydrationError) Unwrap() error { return e.Err }

// RoleMismatchError reports a role-gated call made under a session whose
// role is not in the caller's accepted set.
type RoleMismatchError struct {
	Have Role
	Want []Role
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("mechshop: role %q not permitted here", e.Have)
}

// IsInvalidCredentials reports whether err is a login rejection.
func IsInvalidCredentials(err error) bool {
	var target *InvalidCredentialsError
	return errors.As(err, &target)
}

// IsNoToken reports whether err is a missing-token login response.
func IsNoToken(err error) bool {
	var target *NoTokenError
	return errors.As(err, &target)
}

// IsProfileHydration reports whether err is a failed profile hydration.
func IsProfileHydration(err error) bool {
	var target *ProfileHydrationError
	return errors.As(err, &target)
}

// IsNoReachableBackend reports whether err means every candidate origin
// was exhausted.
func IsNoReachableBackend(err error) bool {
	var target *NoReachableBackendError
	return errors.As(err, &target)
}

// IsAuthFailure reports whether err is an authorization failure (401/403)
// from an authenticated call. Views treat this as authoritative session
// invalidation.
func IsAuthFailure(err error) bool {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}
