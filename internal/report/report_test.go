package report

import (
	"strings"
	"testing"

	"quotabalance/internal/balance"
)

func TestRender_SortsWorstFirst(t *testing.T) {
	var buf strings.Builder
	Render(&buf, balance.BalancedQuotaMap{
		"gemini-3-pro":         0.9,
		"vertex-ai":            0.1,
		"gemini-claude-models": 0.5,
	}, Thresholds{Warn: 0.2, Crit: 0.05})

	out := buf.String()
	vertexIdx := strings.Index(out, "vertex-ai")
	claudeIdx := strings.Index(out, "gemini-claude-models")
	proIdx := strings.Index(out, "gemini-3-pro")
	if vertexIdx < 0 || claudeIdx < 0 || proIdx < 0 {
		t.Fatalf("missing rows:\n%s", out)
	}
	if !(vertexIdx < claudeIdx && claudeIdx < proIdx) {
		t.Fatalf("rows not sorted worst first:\n%s", out)
	}
	if !strings.Contains(out, "10.0%") {
		t.Fatalf("missing percentage:\n%s", out)
	}
}

func TestRender_EmptyMap(t *testing.T) {
	var buf strings.Builder
	Render(&buf, balance.BalancedQuotaMap{}, Thresholds{})
	if !strings.Contains(buf.String(), "no quota observations") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
