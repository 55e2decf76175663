package core

import "context"

type AccountConfig struct {
	ID        string            `json:"id"`
	Provider  string            `json:"provider"`
	ConfigDir string            `json:"config_dir,omitempty"` // local CLI config directory holding credentials
	BaseURL   string            `json:"base_url,omitempty"`   // custom API base URL
	ProjectID string            `json:"project_id,omitempty"` // Cloud project override for Code Assist providers
	ExtraData map[string]string `json:"-"`                    // runtime-only: extra detection data
}

type ProviderInfo struct {
	Name   string // e.g. "Gemini CLI", "Codex"
	DocURL string // link to the vendor's quota documentation
}

// QuotaProvider fetches one account's raw quota document from a backend.
// Implementations do not interpret the payload; that is the balancer's job.
type QuotaProvider interface {
	ID() string

	Describe() ProviderInfo

	Fetch(ctx context.Context, acct AccountConfig) (QuotaDocument, error)
}
