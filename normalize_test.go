package mechshop

import "testing"

func TestDecodeLoginPayloadTokenVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"top-level token", `{"token":"t1"}`, "t1"},
		{"access_token", `{"access_token":"t2"}`, "t2"},
		{"accessToken", `{"accessToken":"t3"}`, "t3"},
		{"data envelope", `{"data":{"token":"t4"}}`, "t4"},
		{"data access_token", `{"data":{"access_token":"t5"}}`, "t5"},
		{"token wins over access_token", `{"token":"t6","access_token":"other"}`, "t6"},
		{"missing", `{"message":"ok"}`, ""},
		{"garbage", `not json`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeLoginPayload([]byte(tt.body)).Token; got != tt.want {
				t.Fatalf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeLoginPayloadAdminVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"is_admin bool", `{"token":"t","is_admin":true}`, true},
		{"isAdmin bool", `{"token":"t","isAdmin":true}`, true},
		{"nested data", `{"token":"t","data":{"is_admin":true}}`, true},
		{"marker string 1", `{"token":"t","is_admin":"1"}`, true},
		{"marker string true", `{"token":"t","is_admin":"true"}`, true},
		{"explicit false", `{"token":"t","is_admin":false}`, false},
		{"falsy string", `{"token":"t","is_admin":""}`, false},
		{"absent", `{"token":"t"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeLoginPayload([]byte(tt.body)).IsAdmin; got != tt.want {
				t.Fatalf("isAdmin = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeLoginPayloadRoleAndMessage(t *testing.T) {
	res := decodeLoginPayload([]byte(`{"user_type":"Mechanic","message":"welcome"}`))
	if res.Role != RoleMechanic {
		t.Fatalf("role = %q", res.Role)
	}
	if res.Message != "welcome" {
		t.Fatalf("message = %q", res.Message)
	}

	res = decodeLoginPayload([]byte(`{"error":"bad credentials"}`))
	if res.Message != "bad credentials" {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestLoginBodyFieldRouting(t *testing.T) {
	body := loginBody("jane@shop.com", "x")
	if body["email"] != "jane@shop.com" || body["username"] != "" {
		t.Fatalf("expected email routing, got %v", body)
	}
	body = loginBody("bob", "y")
	if body["username"] != "bob" || body["email"] != "" {
		t.Fatalf("expected username routing, got %v", body)
	}
}

func TestProfileAdminFlagVariants(t *testing.T) {
	var p Profile
	if err := p.UnmarshalJSON([]byte(`{"id":7,"first_name":"Jane","is_admin":true}`)); err != nil {
		t.Fatal(err)
	}
	if !p.IsAdmin || p.ID != 7 {
		t.Fatalf("unexpected profile %+v", p)
	}

	var q Profile
	if err := q.UnmarshalJSON([]byte(`{"isAdmin":"1"}`)); err != nil {
		t.Fatal(err)
	}
	if !q.IsAdmin {
		t.Fatal("expected camel-case marker string to read as admin")
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Admin "); !ok || r != RoleAdmin {
		t.Fatalf("got %q %v", r, ok)
	}
	if _, ok := ParseRole("janitor"); ok {
		t.Fatal("expected unknown role to be rejected")
	}
}
