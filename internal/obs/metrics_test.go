package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                            "/",
		"/metrics":                    "/metrics",
		"/api/v1/items/42":            "/api/v1/items/:id",
		"/api/v1/items/42?x=1":        "/api/v1/items/:id",
		"/api/v1/items/":              "/api/v1/items/",
		"/api/v1/items/?skip=2":       "/api/v1/items/",
		"/api/v1/items/42/extra":      "/api/v1/items/42/extra",
		"/api/v1/users/17":            "/api/v1/users/:id",
		"/api/v1/users/me":            "/api/v1/users/me",
		"/api/v1/auth/login":          "/api/v1/auth/login",
		"/api/v1/auth/register?dry=1": "/api/v1/auth/register",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
