// Package codex fetches per-model quota data for an OpenAI Codex CLI
// account from the ChatGPT backend usage endpoint. The endpoint keys quota
// entries by model id (flat-map shape); entries without a remaining
// fraction are skipped downstream.
package codex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"quotabalance/internal/core"
)

const (
	defaultConfigDir     = ".codex"
	defaultBackendURL    = "https://chatgpt.com/backend-api"
	maxHTTPErrorBodySize = 200
	maxResponseBodySize  = 1 << 20
)

type authFile struct {
	AccountID string     `json:"account_id,omitempty"`
	Tokens    authTokens `json:"tokens"`
}

type authTokens struct {
	AccessToken string `json:"access_token"`
	AccountID   string `json:"account_id,omitempty"`
}

type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) ID() string { return core.ProviderCodex }

func (p *Provider) Describe() core.ProviderInfo {
	return core.ProviderInfo{
		Name:   "OpenAI Codex CLI",
		DocURL: "https://github.com/openai/codex",
	}
}

func (p *Provider) Fetch(ctx context.Context, acct core.AccountConfig) (core.QuotaDocument, error) {
	doc := core.QuotaDocument{
		Provider:  p.ID(),
		AccountID: acct.ID,
		Shape:     core.ShapeFlatMap,
	}

	configDir := acct.ConfigDir
	if configDir == "" {
		home, _ := os.UserHomeDir()
		if home == "" {
			return doc, fmt.Errorf("cannot determine Codex config directory")
		}
		configDir = filepath.Join(home, defaultConfigDir)
	}

	auth, err := readAuthFile(filepath.Join(configDir, "auth.json"))
	if err != nil {
		return doc, err
	}

	baseURL := normalizeBackendURL(acct.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/wham/usage", nil)
	if err != nil {
		return doc, fmt.Errorf("creating usage request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+auth.Tokens.AccessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "codex-cli")

	if accountID := firstNonEmpty(auth.Tokens.AccountID, auth.AccountID); accountID != "" {
		req.Header.Set("ChatGPT-Account-Id", accountID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return doc, fmt.Errorf("usage request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if resp.StatusCode != http.StatusOK {
		return doc, fmt.Errorf("usage HTTP %d: %s", resp.StatusCode, truncate(string(body), maxHTTPErrorBodySize))
	}
	if !json.Valid(body) {
		return doc, fmt.Errorf("usage response is not valid JSON")
	}

	doc.Payload = body
	return doc, nil
}

func readAuthFile(path string) (authFile, error) {
	var auth authFile

	data, err := os.ReadFile(path)
	if err != nil {
		return auth, fmt.Errorf("read auth file: %w", err)
	}
	if err := json.Unmarshal(data, &auth); err != nil {
		return auth, fmt.Errorf("parse auth file: %w", err)
	}
	if strings.TrimSpace(auth.Tokens.AccessToken) == "" {
		return auth, fmt.Errorf("no access token in %s", path)
	}
	return auth, nil
}

func normalizeBackendURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return defaultBackendURL
	}
	if (strings.HasPrefix(baseURL, "https://chatgpt.com") || strings.HasPrefix(baseURL, "https://chat.openai.com")) &&
		!strings.Contains(baseURL, "/backend-api") {
		baseURL += "/backend-api"
	}
	return baseURL
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
