package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/devicelab-dev/webelement/pkg/core"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// Slow step threshold in milliseconds (5 seconds)
const slowThresholdMs = 5000

// stdout receives all progress output.
var stdout io.Writer = os.Stdout

// stderr receives the readable log copy under --verbose.
var stderr io.Writer = os.Stderr

// colorsEnabled determines if ANSI colors should be used
var colorsEnabled = true

func init() {
	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
		return
	}
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		if (fileInfo.Mode() & os.ModeCharDevice) == 0 {
			colorsEnabled = false
		}
	}
}

// color returns the color code if colors are enabled, empty string otherwise
func color(c string) string {
	if colorsEnabled {
		return c
	}
	return ""
}

func printf(format string, a ...interface{}) {
	fmt.Fprintf(stdout, format, a...)
}

func onFlowStart(flowIdx, totalFlows int, name, file string) {
	printf("\n%s[%d/%d]%s %s%s%s %s(%s)%s\n",
		color(colorCyan), flowIdx+1, totalFlows, color(colorReset),
		color(colorBold), name, color(colorReset),
		color(colorDim), file, color(colorReset))
}

func onStepComplete(idx int, desc string, status core.StepStatus, durationMs int64, errMsg string) {
	durStr := formatDuration(durationMs)

	switch status {
	case core.StatusPassed:
		symbol := "✓"
		symbolColor := color(colorGreen)
		durColor := ""
		if durationMs >= slowThresholdMs {
			symbol = "⚠"
			symbolColor = color(colorYellow)
			durColor = color(colorYellow)
		}
		printf("    %s%s%s %s %s(%s)%s\n",
			symbolColor, symbol, color(colorReset), desc, durColor, durStr, color(colorReset))
	case core.StatusWarned:
		printf("    %s⚠%s %s %s(optional, %s)%s\n",
			color(colorYellow), color(colorReset), desc, color(colorGray), durStr, color(colorReset))
		if errMsg != "" {
			printf("      %s╰─%s %s\n", color(colorGray), color(colorReset), errMsg)
		}
	case core.StatusSkipped:
		printf("    %s-%s %s%s%s\n", color(colorCyan), color(colorReset), color(colorGray), desc, color(colorReset))
	default:
		printf("    %s✗%s %s (%s)\n", color(colorRed), color(colorReset), desc, durStr)
		if errMsg != "" {
			printf("      %s╰─%s %s\n", color(colorGray), color(colorReset), errMsg)
		}
	}
}

func onFlowEnd(name string, status core.StepStatus, durationMs int64) {
	symbol, symbolColor := "✓", color(colorGreen)
	switch status {
	case core.StatusFailed, core.StatusErrored:
		symbol, symbolColor = "✗", color(colorRed)
	case core.StatusSkipped:
		symbol, symbolColor = "-", color(colorCyan)
	case core.StatusWarned:
		symbol, symbolColor = "⚠", color(colorYellow)
	}
	printf("%s%s %s%s %s%s%s\n",
		symbolColor, symbol, color(colorReset), name, color(colorGray), formatDuration(durationMs), color(colorReset))
}

func printSummary(suite *core.SuiteResult) {
	totalSteps, passedSteps, failedSteps, skippedSteps := 0, 0, 0, 0
	for _, fr := range suite.Flows {
		totalSteps += fr.TotalSteps
		passedSteps += fr.PassedSteps + fr.WarnedSteps
		failedSteps += fr.FailedSteps
		skippedSteps += fr.SkippedSteps
	}
	total := durationMs(suite.Duration)

	printf("\n")
	if passedSteps > 0 {
		printf("  %s%d steps passing%s (%s)\n", color(colorGreen), passedSteps, color(colorReset), formatDuration(total))
	}
	if failedSteps > 0 {
		printf("  %s%d steps failing%s\n", color(colorRed), failedSteps, color(colorReset))
	}
	if skippedSteps > 0 {
		printf("  %s%d steps skipped%s\n", color(colorCyan), skippedSteps, color(colorReset))
	}
	printf("\n")

	tableWidth := 92
	printf("%s\n", strings.Repeat("═", tableWidth))
	printf("  %-42s %6s %7s %6s %6s %6s %10s\n", "Flow", "Status", "Steps", "Pass", "Fail", "Skip", "Duration")
	printf("%s\n", strings.Repeat("─", tableWidth))

	for _, fr := range suite.Flows {
		status, statusColor := "✓ PASS", color(colorGreen)
		switch fr.Status {
		case core.StatusFailed, core.StatusErrored:
			status, statusColor = "✗ FAIL", color(colorRed)
		case core.StatusSkipped:
			status, statusColor = "- SKIP", color(colorCyan)
		case core.StatusWarned:
			status, statusColor = "⚠ WARN", color(colorYellow)
		}

		name := fr.Name
		if len(name) > 42 {
			name = name[:39] + "..."
		}

		printf("  %-42s %s%6s%s %7d %6d %6d %6d %10s\n",
			name, statusColor, status, color(colorReset),
			fr.TotalSteps, fr.PassedSteps+fr.WarnedSteps, fr.FailedSteps, fr.SkippedSteps,
			formatDuration(durationMs(fr.Duration)))
	}

	printf("%s\n", strings.Repeat("─", tableWidth))
	statusStr := fmt.Sprintf("%d/%d", suite.PassedFlows, suite.TotalFlows)
	statusColor := color(colorGreen)
	if suite.FailedFlows > 0 {
		statusColor = color(colorRed)
	}
	printf("  %s%-42s%s %s%6s%s %7d %6d %6d %6d %10s\n",
		color(colorBold), "TOTAL", color(colorReset),
		statusColor, statusStr, color(colorReset),
		totalSteps, passedSteps, failedSteps, skippedSteps,
		formatDuration(total))
	printf("%s\n", strings.Repeat("═", tableWidth))
}

func durationMs(d time.Duration) int64 {
	return d.Milliseconds()
}

// formatDuration formats milliseconds to a human-readable string.
// Shows milliseconds for values < 1s, seconds otherwise.
func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	if ms < 60000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	mins := ms / 60000
	secs := (ms % 60000) / 1000
	return fmt.Sprintf("%dm %ds", mins, secs)
}
