// Package report renders calculation results for human consumption: a console
// summary block and a histogram chart of simulated horizon returns.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/aristath/riskcalc/internal/risk"
	"github.com/aristath/riskcalc/internal/riskconfig"
)

// methodTitles maps result method tags to display names.
var methodTitles = map[string]string{
	risk.MethodParametric: "Parametric (Variance-Covariance)",
	risk.MethodMonteCarlo: "Monte Carlo Simulation",
}

// MethodTitle returns the display name for a method tag.
func MethodTitle(method string) string {
	if title, ok := methodTitles[method]; ok {
		return title
	}
	return method
}

// RenderText writes a formatted result block to w.
func RenderText(w io.Writer, p *riskconfig.Portfolio, res *risk.Result) {
	divider := strings.Repeat("-", 30)
	confidencePct := p.ConfidenceLevel * 100

	fmt.Fprintf(w, "\n--- %s Results ---\n", MethodTitle(res.Method))
	fmt.Fprintf(w, "Portfolio: %s\n", p.Name)
	fmt.Fprintf(w, "Initial Portfolio Value: $%.2f\n", p.PortfolioValue)
	fmt.Fprintf(w, "Confidence Level: %.1f%%\n", confidencePct)
	fmt.Fprintf(w, "Time Horizon: %d days\n", p.TimeHorizonDays)
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "VaR (%.1f%%) Return: %.4f%%\n", confidencePct, res.VaRReturn*100)
	fmt.Fprintf(w, "VaR (%.1f%%) Value: $%.2f\n", confidencePct, res.VaRValue)
	fmt.Fprintf(w, "ES (%.1f%%) Return: %.4f%%\n", confidencePct, res.ESReturn*100)
	fmt.Fprintf(w, "ES (%.1f%%) Value: $%.2f\n", confidencePct, res.ESValue)
	fmt.Fprintln(w, divider)
}
