package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func newTestConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://127.0.0.1:8888/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://example.com/authorize",
			TokenURL: tokenURL,
		},
	}
}

func callbackRequest(state, code string) *http.Request {
	values := url.Values{}
	if state != "" {
		values.Set("state", state)
	}
	if code != "" {
		values.Set("code", code)
	}
	return httptest.NewRequest(http.MethodGet, "/callback?"+values.Encode(), nil)
}

func TestCallbackHandler(t *testing.T) {
	t.Run("exchanges code and delivers token", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse token request: %v", err)
			}
			if got := r.FormValue("code"); got != "auth-code" {
				t.Errorf("code = %q, want %q", got, "auth-code")
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"at-1","refresh_token":"rt-1","token_type":"Bearer","expires_in":3600}`)
		}))
		defer tokenServer.Close()

		handler := newCallbackHandler(newTestConfig(tokenServer.URL), "state-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, callbackRequest("state-1", "auth-code"))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected success page in response body")
		}

		result := <-handler.Result()
		if result.err != nil {
			t.Fatalf("unexpected error: %v", result.err)
		}
		if result.token.RefreshToken != "rt-1" {
			t.Errorf("refresh token = %q, want %q", result.token.RefreshToken, "rt-1")
		}
	})

	t.Run("rejects state mismatch", func(t *testing.T) {
		handler := newCallbackHandler(newTestConfig("https://example.com/token"), "expected")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, callbackRequest("forged", "auth-code"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		result := <-handler.Result()
		if result.err == nil {
			t.Fatal("expected state mismatch error")
		}
	})

	t.Run("reports authorization denial", func(t *testing.T) {
		handler := newCallbackHandler(newTestConfig("https://example.com/token"), "state-1")
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?state=state-1&error=access_denied", nil)
		handler.ServeHTTP(rec, req)

		result := <-handler.Result()
		if result.err == nil || !strings.Contains(result.err.Error(), "access_denied") {
			t.Fatalf("error = %v, want authorization denial", result.err)
		}
	})

	t.Run("handles callback only once", func(t *testing.T) {
		handler := newCallbackHandler(newTestConfig("https://example.com/token"), "expected")
		first := httptest.NewRecorder()
		handler.ServeHTTP(first, callbackRequest("forged", ""))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, callbackRequest("expected", "auth-code"))
		if second.Code != http.StatusBadRequest {
			t.Fatalf("second callback status = %d, want %d", second.Code, http.StatusBadRequest)
		}
	})
}
