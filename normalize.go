package mechshop

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The backend's login and profile responses have drifted across
// deployments: the token has appeared under three names, the admin flag
// under two, sometimes nested in a data envelope. Everything is mapped
// to one canonical record here so downstream code never sees the
// variants.

// flexibleBool accepts JSON booleans, numbers, and truthy marker strings
// ("1", "true") interchangeably.
type flexibleBool bool

func (b *flexibleBool) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch raw {
	case "null", `""`:
		*b = false
		return nil
	}
	var asBool bool
	if err := json.Unmarshal(data, &asBool); err == nil {
		*b = flexibleBool(asBool)
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*b = flexibleBool(truthyMarker(asString))
		return nil
	}
	var asNumber float64
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*b = flexibleBool(asNumber != 0)
		return nil
	}
	*b = false
	return nil
}

func truthyMarker(val string) bool {
	switch strings.TrimSpace(strings.ToLower(val)) {
	case "1", "true", "yes":
		return true
	}
	if parsed, err := strconv.ParseBool(val); err == nil {
		return parsed
	}
	return false
}

// loginResult is the canonical shape of a login response.
type loginResult struct {
	Token   string
	Role    Role // advisory; the hydrated profile is authoritative
	IsAdmin bool // advisory, same caveat
	Message string
}

type loginEnvelope struct {
	Token        string         `json:"token"`
	AccessToken  string         `json:"access_token"`
	AccessCamel  string         `json:"accessToken"`
	UserType     string         `json:"user_type"`
	UserTypeAlt  string         `json:"userType"`
	IsAdminSnake *flexibleBool  `json:"is_admin"`
	IsAdminCamel *flexibleBool  `json:"isAdmin"`
	Message      string         `json:"message"`
	Err          string         `json:"error"`
	Data         *loginEnvelope `json:"data"`
}

func (e loginEnvelope) token() string {
	for _, t := range []string{e.Token, e.AccessToken, e.AccessCamel} {
		if strings.TrimSpace(t) != "" {
			return strings.TrimSpace(t)
		}
	}
	return ""
}

func (e loginEnvelope) userType() string {
	if e.UserType != "" {
		return e.UserType
	}
	return e.UserTypeAlt
}

func (e loginEnvelope) admin() bool {
	if e.IsAdminSnake != nil {
		return bool(*e.IsAdminSnake)
	}
	if e.IsAdminCamel != nil {
		return bool(*e.IsAdminCamel)
	}
	return false
}

// decodeLoginPayload maps any accepted login response shape to the
// canonical loginResult. Unparseable bodies yield a zero result rather
// than an error; the caller decides what a missing token means.
func decodeLoginPayload(data []byte) loginResult {
	var env loginEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return loginResult{}
	}
	res := loginResult{
		Token:   env.token(),
		IsAdmin: env.admin(),
		Message: env.Message,
	}
	if res.Message == "" {
		res.Message = env.Err
	}
	if role, ok := ParseRole(env.userType()); ok {
		res.Role = role
	}
	if env.Data != nil {
		if res.Token == "" {
			res.Token = env.Data.token()
		}
		if !res.IsAdmin {
			res.IsAdmin = env.Data.admin()
		}
		if res.Role == "" {
			if role, ok := ParseRole(env.Data.userType()); ok {
				res.Role = role
			}
		}
	}
	return res
}

// loginBody builds the credentials payload. Identifiers containing "@"
// are routed as an email field, everything else as a username.
func loginBody(identifier, password string) map[string]string {
	body := map[string]string{"password": password}
	if strings.Contains(identifier, "@") {
		body["email"] = identifier
	} else {
		body["username"] = identifier
	}
	return body
}
