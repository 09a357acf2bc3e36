package mechshop

import "encoding/json"

// Profile is the hydrated user record backing a session. The shape
// varies by role; fields absent for a role decode to zero values.
type Profile struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
	Salary    float64 `json:"salary"`
	IsAdmin   bool    `json:"-"`
}

// UnmarshalJSON tolerates both accepted admin-flag names.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type alias Profile
	aux := struct {
		*alias
		IsAdminSnake *flexibleBool `json:"is_admin"`
		IsAdminCamel *flexibleBool `json:"isAdmin"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.IsAdminSnake != nil {
		p.IsAdmin = bool(*aux.IsAdminSnake)
	} else if aux.IsAdminCamel != nil {
		p.IsAdmin = bool(*aux.IsAdminCamel)
	}
	return nil
}

// DisplayName returns a human-readable name for the profile.
func (p *Profile) DisplayName() string {
	switch {
	case p == nil:
		return ""
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.Username != "":
		return p.Username
	}
	return p.Email
}
