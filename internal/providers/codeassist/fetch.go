package codeassist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadCredentials loads oauth_creds.json from a CLI config directory.
func ReadCredentials(configDir string) (Credentials, error) {
	var creds Credentials

	data, err := os.ReadFile(filepath.Join(configDir, "oauth_creds.json"))
	if err != nil {
		return creds, fmt.Errorf("read oauth credentials: %w", err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("parse oauth credentials: %w", err)
	}
	if strings.TrimSpace(creds.RefreshToken) == "" {
		return creds, fmt.Errorf("no refresh token in %s", configDir)
	}
	return creds, nil
}

// FetchBuckets runs the full quota flow: refresh the access token, resolve
// the companion project unless one is pinned, then pull the usage buckets.
func (c *Client) FetchBuckets(ctx context.Context, creds Credentials, projectID string) (json.RawMessage, error) {
	accessToken, err := c.RefreshAccessToken(ctx, creds.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh: %w", err)
	}

	if projectID == "" {
		if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
			projectID = v
		} else if v := os.Getenv("GOOGLE_CLOUD_PROJECT_ID"); v != "" {
			projectID = v
		}
	}
	if projectID == "" {
		projectID, err = c.LoadProject(ctx, accessToken, "")
		if err != nil {
			return nil, fmt.Errorf("loadCodeAssist: %w", err)
		}
	}
	if projectID == "" {
		return nil, fmt.Errorf("could not determine project ID")
	}

	buckets, err := c.RetrieveUserUsage(ctx, accessToken, projectID)
	if err != nil {
		return nil, fmt.Errorf("retrieveUserUsage: %w", err)
	}
	return buckets, nil
}
