// Package codeassist implements the Cloud Code management API calls shared
// by the Antigravity and Gemini CLI providers: OAuth token refresh, project
// resolution, and the per-user quota RPC.
package codeassist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	oauthClientID     = "681255809395-oo8ft2oprdrnp9e3aqf6av3hmdib135j.apps.googleusercontent.com"
	oauthClientSecret = "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"

	DefaultTokenEndpoint = "https://oauth2.googleapis.com/token"
	DefaultEndpoint      = "https://cloudcode-pa.googleapis.com"
	apiVersion           = "v1internal"

	maxErrorBodySize = 200
)

// Credentials is the oauth_creds.json layout written by the Gemini CLI and
// Antigravity config directories.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	ExpiryDate   int64  `json:"expiry_date"` // Unix millis
	RefreshToken string `json:"refresh_token"`
}

type tokenRefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type loadCodeAssistRequest struct {
	CloudAICompanionProject string         `json:"cloudaicompanionProject,omitempty"`
	Metadata                clientMetadata `json:"metadata"`
}

type clientMetadata struct {
	IDEType    string `json:"ideType"`
	Platform   string `json:"platform"`
	PluginType string `json:"pluginType"`
	Project    string `json:"duetProject,omitempty"`
}

type loadCodeAssistResponse struct {
	CloudAICompanionProject string `json:"cloudaicompanionProject,omitempty"`
}

type retrieveUserUsageRequest struct {
	Project string `json:"project"`
}

type retrieveUserUsageResponse struct {
	Buckets json.RawMessage `json:"buckets,omitempty"`
}

// Client talks to one Code Assist deployment. Zero-value endpoints fall
// back to the production Google endpoints.
type Client struct {
	TokenEndpoint string
	Endpoint      string
	PluginType    string // "GEMINI" for the CLI, "ANTIGRAVITY" for the IDE
	HTTPClient    *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) tokenEndpoint() string {
	if c.TokenEndpoint != "" {
		return c.TokenEndpoint
	}
	return DefaultTokenEndpoint
}

func (c *Client) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return DefaultEndpoint
}

// RefreshAccessToken exchanges a refresh token for a live access token.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	data := url.Values{
		"client_id":     {oauthClientID},
		"client_secret": {oauthClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint(), strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token refresh HTTP %d: %s", resp.StatusCode, truncate(string(body), maxErrorBodySize))
	}

	var tokenResp tokenRefreshResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("empty access_token in refresh response")
	}

	return tokenResp.AccessToken, nil
}

// LoadProject resolves the Cloud AI companion project for the account.
func (c *Client) LoadProject(ctx context.Context, accessToken, existingProjectID string) (string, error) {
	reqBody := loadCodeAssistRequest{
		CloudAICompanionProject: existingProjectID,
		Metadata: clientMetadata{
			IDEType:    "IDE_UNSPECIFIED",
			Platform:   "PLATFORM_UNSPECIFIED",
			PluginType: c.pluginType(),
			Project:    existingProjectID,
		},
	}

	respBody, err := c.post(ctx, accessToken, "loadCodeAssist", reqBody)
	if err != nil {
		return "", err
	}

	var resp loadCodeAssistResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("parse loadCodeAssist response: %w", err)
	}
	return resp.CloudAICompanionProject, nil
}

// RetrieveUserUsage returns the raw buckets array from the quota RPC. An
// empty response yields an empty JSON array, never nil.
func (c *Client) RetrieveUserUsage(ctx context.Context, accessToken, projectID string) (json.RawMessage, error) {
	respBody, err := c.post(ctx, accessToken, "retrieveUserUsage", retrieveUserUsageRequest{Project: projectID})
	if err != nil {
		return nil, err
	}

	var resp retrieveUserUsageResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("parse retrieveUserUsage response: %w", err)
	}
	if len(resp.Buckets) == 0 {
		return json.RawMessage(`[]`), nil
	}
	return resp.Buckets, nil
}

func (c *Client) pluginType() string {
	if c.PluginType != "" {
		return c.PluginType
	}
	return "GEMINI"
}

func (c *Client) post(ctx context.Context, accessToken, method string, body interface{}) ([]byte, error) {
	apiURL := fmt.Sprintf("%s/%s:%s", c.endpoint(), apiVersion, method)

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s HTTP %d: %s", method, resp.StatusCode, truncate(string(respBody), maxErrorBodySize))
	}

	return respBody, nil
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
