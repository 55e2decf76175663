package codeassist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestReadCredentials(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadCredentials(dir); err == nil {
		t.Fatal("missing file should error")
	}

	os.WriteFile(filepath.Join(dir, "oauth_creds.json"), []byte(`{"access_token": "x"}`), 0o644)
	if _, err := ReadCredentials(dir); err == nil {
		t.Fatal("credentials without refresh token should error")
	}

	os.WriteFile(filepath.Join(dir, "oauth_creds.json"), []byte(`{"refresh_token": "1//r", "expiry_date": 123}`), 0o644)
	creds, err := ReadCredentials(dir)
	if err != nil {
		t.Fatalf("ReadCredentials: %v", err)
	}
	if creds.RefreshToken != "1//r" || creds.ExpiryDate != 123 {
		t.Fatalf("creds = %+v", creds)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
			return
		}
		if r.Form.Get("grant_type") != "refresh_token" {
			t.Errorf("grant_type = %q", r.Form.Get("grant_type"))
		}
		if r.Form.Get("refresh_token") != "1//r" {
			t.Errorf("refresh_token = %q", r.Form.Get("refresh_token"))
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "ya29.ok"})
	}))
	defer server.Close()

	c := Client{TokenEndpoint: server.URL}
	token, err := c.RefreshAccessToken(context.Background(), "1//r")
	if err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}
	if token != "ya29.ok" {
		t.Fatalf("token = %q", token)
	}
}

func TestRefreshAccessToken_EmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token_type": "Bearer"})
	}))
	defer server.Close()

	c := Client{TokenEndpoint: server.URL}
	if _, err := c.RefreshAccessToken(context.Background(), "1//r"); err == nil {
		t.Fatal("empty access token should error")
	}
}

func TestRetrieveUserUsage_EmptyBuckets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := Client{Endpoint: server.URL}
	buckets, err := c.RetrieveUserUsage(context.Background(), "ya29.ok", "proj")
	if err != nil {
		t.Fatalf("RetrieveUserUsage: %v", err)
	}
	if string(buckets) != "[]" {
		t.Fatalf("buckets = %s, want []", buckets)
	}
}

func TestFetchBuckets_ProjectResolutionOrder(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT_ID", "env-proj")

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "ya29.ok"})
	})
	mux.HandleFunc("/v1internal:retrieveUserUsage", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["project"] != "env-proj" {
			t.Errorf("project = %q, want env-proj", req["project"])
		}
		w.Write([]byte(`{"buckets": [{"modelId": "m", "remainingFraction": 1}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := Client{TokenEndpoint: server.URL + "/token", Endpoint: server.URL}
	buckets, err := c.FetchBuckets(context.Background(), Credentials{RefreshToken: "1//r"}, "")
	if err != nil {
		t.Fatalf("FetchBuckets: %v", err)
	}
	if len(buckets) == 0 {
		t.Fatal("expected buckets payload")
	}
}
