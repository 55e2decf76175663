// Package antigravity fetches per-model quota buckets for an Antigravity
// IDE account. Antigravity shares the Cloud Code management API with the
// Gemini CLI but authenticates from its own config directory and reports
// its own plugin type.
package antigravity

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
		client: codeassist.Client{PluginType: "ANTIGRAVITY"},
	}
}

func (p *Provider) ID() string { return core.ProviderAntigravity }

func (p *Provider) Describe() core.ProviderInfo {
	return core.ProviderInfo{
		Name:   "Antigravity",
		DocURL: "https://antigravity.google/docs",
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
			return doc, fmt.Errorf("cannot determine Antigravity config directory")
		}
		configDir = filepath.Join(home, ".antigravity")
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
