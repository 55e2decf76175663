package balance

import "strings"

// A normalizationRule maps raw model ids onto a canonical family key. Rules
// are evaluated in the fixed order they appear in normalizationRules; the
// first rule that matches wins. Table lookups always run before the prefix
// fallback, even when an id would also match a prefix.
type normalizationRule interface {
	apply(modelID string) (family string, ok bool)
}

// exactOverrideRule remaps individual raw ids, e.g. legacy internal code
// names, onto their public model name.
type exactOverrideRule struct {
	overrides map[string]string
}

func (r exactOverrideRule) apply(modelID string) (string, bool) {
	family, ok := r.overrides[modelID]
	return family, ok
}

// exactSetRule collapses a fixed set of tier variants that share one quota
// pool onto a single family key.
type exactSetRule struct {
	members map[string]struct{}
	family  string
}

func (r exactSetRule) apply(modelID string) (string, bool) {
	if _, ok := r.members[modelID]; ok {
		return r.family, true
	}
	return "", false
}

// prefixStripRule is the fallback: strip exactly one known provider-style
// prefix if present and return the remainder, otherwise the id unchanged.
// It matches every input, so it must stay last.
type prefixStripRule struct {
	prefixes []string
}

func (r prefixStripRule) apply(modelID string) (string, bool) {
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(modelID, prefix) {
			return strings.TrimPrefix(modelID, prefix), true
		}
	}
	return modelID, true
}

const (
	familyGemini3Pro         = "gemini-3-pro"
	familyGemini3Flash       = "gemini-3-flash"
	familyComputerUsePreview = "gemini-2.5-computer-use-preview-10-2025"
)

var normalizationRules = []normalizationRule{
	exactOverrideRule{overrides: map[string]string{
		// Internal Antigravity code name for the computer-use preview model.
		"rev19-uic3-1p": familyComputerUsePreview,
	}},
	exactSetRule{
		family: familyGemini3Pro,
		members: map[string]struct{}{
			"gemini-3-pro":         {},
			"gemini-3-pro-high":    {},
			"gemini-3-pro-low":     {},
			"gemini-3-pro-preview": {},
		},
	},
	exactSetRule{
		family: familyGemini3Flash,
		members: map[string]struct{}{
			"gemini-3-flash":         {},
			"gemini-3-flash-high":    {},
			"gemini-3-flash-low":     {},
			"gemini-3-flash-preview": {},
		},
	},
	prefixStripRule{prefixes: []string{
		"models/",
		"publishers/google/models/",
		"google/",
		"anthropic/",
		"openai/",
	}},
}

// canonicalDisplayNames fixes the display label for families produced by
// the table rules above. These always render under their canonical label,
// never under a first-seen raw id.
var canonicalDisplayNames = map[string]string{
	familyComputerUsePreview: familyComputerUsePreview,
	familyGemini3Pro:         familyGemini3Pro,
	familyGemini3Flash:       familyGemini3Flash,
}

// Normalize maps a raw model id to its canonical family key. It is a pure,
// total function: every input, recognized or not, yields a family.
func Normalize(modelID string) string {
	for _, rule := range normalizationRules {
		if family, ok := rule.apply(modelID); ok {
			return family
		}
	}
	// Unreachable: the prefix fallback matches everything.
	return modelID
}

// CanonicalDisplayName reports the fixed display label for a family, if it
// has one.
func CanonicalDisplayName(family string) (string, bool) {
	name, ok := canonicalDisplayNames[family]
	return name, ok
}
