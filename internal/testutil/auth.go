package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// GetAuthCookie creates a user on the fake persistence service, logs them
// in through the API, and returns a valid session cookie.
func GetAuthCookie(t *testing.T, env *TestEnv, username, password string) *http.Cookie {
	t.Helper()

	env.Persistence.RegisterUser(username, password)

	loginPayload := map[string]string{"username": username, "password": password}
	payloadBytes, _ := json.Marshal(loginPayload)
	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	env.Server.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("Login failed within test helper for user '%s': got status %d, want 200", username, status)
	}

	// Login rotates the token, so the response can carry two session
	// cookies; the later one is the authoritative value.
	var found *http.Cookie
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "session_token" && cookie.Value != "" {
			found = cookie
		}
	}
	if found == nil {
		t.Fatal("Failed to get session cookie after successful login for test user")
	}
	return found
}
