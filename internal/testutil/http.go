package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"replate-backend/internal/auth"
	"replate-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const Secret = "test-secret-that-is-at-least-32-bytes-long"

// Token signs a session token for p with the test secret.
func Token(t *testing.T, p *models.Profile) string {
	t.Helper()
	tok, err := auth.GenerateToken(Secret, time.Hour, p)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

// Request builds a request with an optional JSON body and bearer token.
func Request(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// Do runs req against app and decodes the JSON response into out when out is non-nil.
func Do(t *testing.T, app *fiber.App, req *http.Request, out any) int {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response (status %d): %v", resp.StatusCode, err)
		}
	}
	return resp.StatusCode
}
