package core

import "encoding/json"

// Provider IDs for the backends the balancer knows how to poll.
const (
	ProviderAntigravity = "antigravity"
	ProviderGeminiCLI   = "gemini-cli"
	ProviderCodex       = "codex"
)

// DocumentShape identifies how a provider lays out quota data in its
// response payload.
type DocumentShape string

const (
	// ShapeFlatMap keys quota entries by model id, each entry carrying a
	// remainingFraction field.
	ShapeFlatMap DocumentShape = "flat_map"
	// ShapeBucketList is a sequence of bucket objects, each naming a model
	// and a remaining fraction under one of several accepted field names.
	ShapeBucketList DocumentShape = "bucket_list"
)

// QuotaDocument is one provider response for one account, fetched but not
// yet interpreted. Payload holds the raw JSON the backend returned.
type QuotaDocument struct {
	Provider  string          `json:"provider"`
	AccountID string          `json:"account_id"`
	Shape     DocumentShape   `json:"shape"`
	Payload   json.RawMessage `json:"payload"`
}
