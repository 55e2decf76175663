// Package report renders a human-readable summary of a balanced quota map.
// The summary goes to stderr so stdout stays clean for the JSON result.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"quotabalance/internal/balance"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleCrit   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleDim    = lipgloss.NewStyle().Faint(true)
)

type Thresholds struct {
	Warn float64 // below this fraction a model is flagged
	Crit float64 // below this fraction a model is critical
}

type row struct {
	Name     string
	Fraction float64
}

// Render writes the summary table, one row per display name sorted worst
// remaining quota first.
func Render(w io.Writer, balanced balance.BalancedQuotaMap, th Thresholds) {
	if len(balanced) == 0 {
		fmt.Fprintln(w, styleDim.Render("no quota observations collected"))
		return
	}

	rows := lo.MapToSlice(balanced, func(name string, fraction float64) row {
		return row{Name: name, Fraction: fraction}
	})
	sort.Slice(rows, func(i, j int) bool { return less(rows[i], rows[j]) })

	nameWidth := lo.Max(lo.Map(rows, func(r row, _ int) int { return len(r.Name) }))
	if nameWidth < len("model") {
		nameWidth = len("model")
	}

	fmt.Fprintln(w, styleHeader.Render(fmt.Sprintf("%-*s  %9s", nameWidth, "model", "remaining")))
	for _, r := range rows {
		line := fmt.Sprintf("%-*s  %8.1f%%", nameWidth, r.Name, r.Fraction*100)
		fmt.Fprintln(w, styleFor(r.Fraction, th).Render(line))
	}
}

func less(a, b row) bool {
	if a.Fraction != b.Fraction {
		return a.Fraction < b.Fraction
	}
	return strings.Compare(a.Name, b.Name) < 0
}

func styleFor(fraction float64, th Thresholds) lipgloss.Style {
	switch {
	case fraction < th.Crit:
		return styleCrit
	case fraction < th.Warn:
		return styleWarn
	default:
		return styleOK
	}
}
