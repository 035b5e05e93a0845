package cli

import (
	"github.com/fatih/color"

	"github.com/arloliu/rolepref/types"
)

func ok() string {
	return color.New(color.FgGreen).Sprint("✓")
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

func faint(s string) string {
	return color.New(color.Faint).Sprint(s)
}

// statusLabel renders an assignment status: green when converged, yellow when the
// budget ran out with a result, red when the input was kept.
func statusLabel(status types.Status) string {
	switch status {
	case types.StatusConverged:
		return color.New(color.FgGreen).Sprint("CONVERGED")
	case types.StatusBudgetExhausted:
		return color.New(color.FgYellow).Sprint("BUDGET EXHAUSTED")
	case types.StatusFailed:
		return color.New(color.FgRed).Sprint("FAILED")
	default:
		return status.String()
	}
}
