// Package gemini_cli fetches per-model quota buckets for a Gemini CLI
// account through the Cloud Code management API.
package gemini_cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"quotabalance/internal/core"
	"quotabalance/internal/providers/codeassist"
)

type Provider struct {
	client codeassist.Client
}

func New() *Provider {
	return &Provider{
		client: codeassist.Client{PluginType: "GEMINI"},
	}
}

func (p *Provider) ID() string { return core.ProviderGeminiCLI }

func (p *Provider) Describe() core.ProviderInfo {
	return core.ProviderInfo{
		Name:   "Gemini CLI",
		DocURL: "https://github.com/google-gemini/gemini-cli",
	}
}

func (p *Provider) Fetch(ctx context.Context, acct core.AccountConfig) (core.QuotaDocument, error) {
	doc := core.QuotaDocument{
		Provider:  p.ID(),
		AccountID: acct.ID,
		Shape:     core.ShapeBucketList,
	}

	configDir := acct.ConfigDir
	if configDir == "" {
		home, _ := os.UserHomeDir()
		if home == "" {
			return doc, fmt.Errorf("cannot determine Gemini CLI config directory")
		}
		configDir = filepath.Join(home, ".gemini")
	}

	creds, err := codeassist.ReadCredentials(configDir)
	if err != nil {
		return doc, err
	}

	client := p.client
	if acct.BaseURL != "" {
		client.Endpoint = acct.BaseURL
	}
	if acct.ExtraData != nil && acct.ExtraData["token_endpoint"] != "" {
		client.TokenEndpoint = acct.ExtraData["token_endpoint"]
	}

	buckets, err := client.FetchBuckets(ctx, creds, acct.ProjectID)
	if err != nil {
		return doc, err
	}
	doc.Payload = buckets
	return doc, nil
}
