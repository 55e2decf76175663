package providers

import (
	"quotabalance/internal/core"
	"quotabalance/internal/providers/antigravity"
	"quotabalance/internal/providers/codex"
	"quotabalance/internal/providers/gemini_cli"
)

func AllProviders() []core.QuotaProvider {
	return []core.QuotaProvider{
		antigravity.New(),
		gemini_cli.New(),
		codex.New(),
	}
}
