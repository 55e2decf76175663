package balance

import (
	"math"
	"strings"
)

// Antigravity exposes Anthropic models under both conventions, so the
// claude subset is the union of both prefixes.
var claudeFamilyPrefixes = []string{"claude-", "gemini-claude-"}

const gptOSSPrefix = "gpt-oss-120b"

// Merged pseudo-family keys produced by PostGroup.
const (
	vertexAIKey     = "vertex-ai"
	geminiClaudeKey = "gemini-claude-models"
)

// PostGroup merges aggregated families whose values coincide exactly.
//
// When every claude-family key and every gpt-oss-120b key carries the same
// value, all of them are served by one Vertex AI pool and collapse into a
// single "vertex-ai" key. When only the claude subset is consistent, it
// collapses into "gemini-claude-models". The vertex-ai rule supersedes the
// claude-only rule, so it is checked first. Anything else passes through
// unchanged.
func PostGroup(balanced BalancedQuotaMap) BalancedQuotaMap {
	out := make(BalancedQuotaMap, len(balanced))
	for name, fraction := range balanced {
		out[name] = fraction
	}

	claudeKeys, claudeValue, claudeConsistent := consistentSubset(out, isClaudeFamilyKey)
	gptKeys, gptValue, gptConsistent := consistentSubset(out, isGPTOSSKey)

	switch {
	case claudeConsistent && gptConsistent && math.Abs(claudeValue-gptValue) < Epsilon:
		deleteKeys(out, claudeKeys)
		deleteKeys(out, gptKeys)
		out[vertexAIKey] = claudeValue
	case claudeConsistent:
		deleteKeys(out, claudeKeys)
		out[geminiClaudeKey] = claudeValue
	}

	return out
}

// consistentSubset collects the keys matching the predicate and reports
// whether the subset is non-empty with all values equal within Epsilon.
func consistentSubset(balanced BalancedQuotaMap, match func(string) bool) ([]string, float64, bool) {
	var keys []string
	for name := range balanced {
		if match(name) {
			keys = append(keys, name)
		}
	}
	if len(keys) == 0 {
		return nil, 0, false
	}

	shared := balanced[keys[0]]
	for _, key := range keys[1:] {
		if math.Abs(balanced[key]-shared) >= Epsilon {
			return keys, 0, false
		}
	}
	return keys, shared, true
}

func isClaudeFamilyKey(name string) bool {
	for _, prefix := range claudeFamilyPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func isGPTOSSKey(name string) bool {
	return strings.HasPrefix(name, gptOSSPrefix)
}

func deleteKeys(balanced BalancedQuotaMap, keys []string) {
	for _, key := range keys {
		delete(balanced, key)
	}
}
