package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func newTestHandler(tokenURL string) *OAuthHandler {
	config := &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:9090/callback",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
	return NewOAuthHandler(config, "Spotify", "expected-state")
}

func TestOAuthCallbackSuccess(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "new-token", "token_type": "Bearer", "refresh_token": "refresh"}`))
	}))
	defer tokenServer.Close()

	h := newTestHandler(tokenServer.URL)

	req := httptest.NewRequest(http.MethodGet, "/callback?state=expected-state&code=auth-code", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	result := <-h.Result()
	if err := result.Error(); err != nil {
		t.Fatalf("result error: %v", err)
	}
	if result.Token == nil || result.Token.AccessToken != "new-token" {
		t.Errorf("token = %+v", result.Token)
	}
}

func TestOAuthCallbackInvalidState(t *testing.T) {
	h := newTestHandler("http://localhost:0")

	req := httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=auth-code", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	result := <-h.Result()
	if result.Error() == nil {
		t.Error("expected state validation error")
	}
}

func TestOAuthCallbackDenied(t *testing.T) {
	h := newTestHandler("http://localhost:0")

	req := httptest.NewRequest(http.MethodGet, "/callback?state=expected-state&error=access_denied", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	result := <-h.Result()
	if result.Error() == nil {
		t.Error("expected authorization error")
	}
}

func TestOAuthCallbackOnlyOnce(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "tok", "token_type": "Bearer"}`))
	}))
	defer tokenServer.Close()

	h := newTestHandler(tokenServer.URL)

	first := httptest.NewRequest(http.MethodGet, "/callback?state=expected-state&code=c1", nil)
	h.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodGet, "/callback?state=expected-state&code=c2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, second)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("second callback status = %d, want 400", rec.Code)
	}
}
