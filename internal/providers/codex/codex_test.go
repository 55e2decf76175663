package codex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"quotabalance/internal/core"
)

func writeAuth(t *testing.T, dir, accessToken, accountID string) {
	t.Helper()
	auth := map[string]interface{}{
		"tokens": map[string]string{
			"access_token": accessToken,
			"account_id":   accountID,
		},
	}
	data, err := json.Marshal(auth)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "auth.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFetch_ReturnsFlatMapDocument(t *testing.T) {
	configDir := t.TempDir()
	writeAuth(t, configDir, "sk-test", "acct-42")

	body := `{"gpt-5.2-codex": {"remainingFraction": 0.8}, "gpt-5.2": {"remainingFraction": 0.8}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wham/usage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("ChatGPT-Account-Id"); got != "acct-42" {
			t.Errorf("ChatGPT-Account-Id = %q", got)
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	p := New()
	acct := core.AccountConfig{
		ID:        "codex-work",
		Provider:  core.ProviderCodex,
		ConfigDir: configDir,
		BaseURL:   server.URL,
	}

	doc, err := p.Fetch(context.Background(), acct)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if doc.Shape != core.ShapeFlatMap {
		t.Fatalf("shape = %q, want flat map", doc.Shape)
	}
	if string(doc.Payload) != body {
		t.Fatalf("payload = %s", doc.Payload)
	}
}

func TestFetch_HTTPError(t *testing.T) {
	configDir := t.TempDir()
	writeAuth(t, configDir, "sk-test", "")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota service unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	p := New()
	acct := core.AccountConfig{ID: "codex-down", ConfigDir: configDir, BaseURL: server.URL}

	if _, err := p.Fetch(context.Background(), acct); err == nil {
		t.Fatal("HTTP 502 should error")
	}
}

func TestFetch_MissingAuthFile(t *testing.T) {
	p := New()
	acct := core.AccountConfig{ID: "codex-empty", ConfigDir: t.TempDir()}
	if _, err := p.Fetch(context.Background(), acct); err == nil {
		t.Fatal("missing auth.json should error")
	}
}

func TestNormalizeBackendURL(t *testing.T) {
	cases := map[string]string{
		"":                                "https://chatgpt.com/backend-api",
		"https://chatgpt.com":             "https://chatgpt.com/backend-api",
		"https://chatgpt.com/backend-api": "https://chatgpt.com/backend-api",
		"https://chat.openai.com/":        "https://chat.openai.com/backend-api",
		"http://127.0.0.1:8080":           "http://127.0.0.1:8080",
	}
	for in, want := range cases {
		if got := normalizeBackendURL(in); got != want {
			t.Fatalf("normalizeBackendURL(%q) = %q, want %q", in, got, want)
		}
	}
}
