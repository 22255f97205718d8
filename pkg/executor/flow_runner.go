package executor

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/devicelab-dev/webelement/pkg/core"
	"github.com/devicelab-dev/webelement/pkg/flow"
	"github.com/devicelab-dev/webelement/pkg/jsengine"
	"github.com/devicelab-dev/webelement/pkg/logger"
)

// Environment variables named like THING or MY_VAR are visible to ${...} expressions.
var envVarPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{2,}$`)

// FlowRunner executes a single flow.
type FlowRunner struct {
	ctx        context.Context
	flow       *flow.Flow
	browser    Browser
	config     RunnerConfig
	script     *jsengine.Engine
	timeout    time.Duration // Element wait timeout for steps without their own
	flowIdx    int           // Current flow index (0-based)
	totalFlows int           // Total number of flows
}

// flowSteps returns the steps to run: an open step for Config.URL, then the flow steps.
func flowSteps(f *flow.Flow) []flow.Step {
	if f.Config.URL == "" {
		return f.Steps
	}
	open := &flow.OpenStep{
		BaseStep: flow.BaseStep{StepType: flow.StepOpen},
		URL:      f.Config.URL,
	}
	return append([]flow.Step{open}, f.Steps...)
}

// Run executes the flow and returns the result.
func (fr *FlowRunner) Run() core.FlowResult {
	name := fr.flow.DisplayName()
	result := core.FlowResult{
		Name:      name,
		FilePath:  fr.flow.SourcePath,
		Tags:      fr.flow.Config.Tags,
		StartTime: time.Now(),
	}

	fr.timeout = fr.config.Timeout
	if fr.flow.Config.Timeout > 0 {
		fr.timeout = time.Duration(fr.flow.Config.Timeout) * time.Millisecond
	}
	fr.script = jsengine.New()
	fr.importSystemEnv()
	fr.script.SetVariables(fr.flow.Config.Env)
	fr.script.SetVariables(fr.config.Env)

	if fr.config.OnFlowStart != nil {
		fr.config.OnFlowStart(fr.flowIdx, fr.totalFlows, name, filepath.Base(fr.flow.SourcePath))
	}
	logger.Info("flow %q started (%s)", name, fr.flow.SourcePath)

	steps := flowSteps(fr.flow)
	for i := 0; i < len(steps); i++ {
		step := steps[i]

		// Check context cancellation
		if fr.ctx.Err() != nil {
			result.Error = "execution cancelled"
			result.Steps = append(result.Steps, skipRemaining(steps, i, result.Error)...)
			break
		}

		sr := fr.executeStep(i, step)
		if sr.Status == core.StatusFailed && step.IsOptional() {
			// Optional step failure doesn't fail flow
			sr.Status = core.StatusWarned
		}
		result.Steps = append(result.Steps, sr)

		if fr.config.OnStepComplete != nil {
			fr.config.OnStepComplete(i, step.Describe(), sr.Status, sr.Duration.Milliseconds(), sr.Error)
		}

		if sr.Status == core.StatusFailed {
			// Required step failed - skip remaining and fail flow
			result.Error = sr.Error
			result.Steps = append(result.Steps, skipRemaining(steps, i+1, "previous step failed")...)
			break
		}
	}

	result.Duration = time.Since(result.StartTime)
	result.ComputeSummary()
	result.Status = result.AggregateStatus()
	if result.Error != "" && result.Status != core.StatusFailed {
		// Cancelled before any step failed
		result.Status = core.StatusSkipped
	}

	logger.Info("flow %q %s in %s", name, result.Status, result.Duration)
	if fr.config.OnFlowEnd != nil {
		fr.config.OnFlowEnd(name, result.Status, result.Duration.Milliseconds())
	}
	return result
}

// executeStep runs one step and converts its error into a classified result.
func (fr *FlowRunner) executeStep(idx int, step flow.Step) core.StepResult {
	sr := core.StepResult{
		Index:     idx,
		Command:   string(step.Type()),
		Label:     step.Label(),
		Target:    describeTarget(step),
		StartTime: time.Now(),
	}

	err := fr.dispatch(step)
	sr.Duration = time.Since(sr.StartTime)

	if err == nil {
		sr.Status = core.StatusPassed
		logger.Step(fr.flow.DisplayName(), idx, step.Describe(), sr.Status.String(), nil)
		return sr
	}

	execErr := classify(err)
	sr.Status = core.StatusFailed
	sr.Category = execErr.Category
	sr.Code = execErr.Code
	sr.Message = execErr.Message
	sr.Error = execErr.Error()
	logger.Step(fr.flow.DisplayName(), idx, step.Describe(), sr.Status.String(), execErr)
	return sr
}

// importSystemEnv exposes matching process environment variables to expressions.
func (fr *FlowRunner) importSystemEnv() {
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if ok && envVarPattern.MatchString(name) {
			fr.script.SetVariable(name, value)
		}
	}
}

// expand evaluates every ${...} in s.
func (fr *FlowRunner) expand(s string) (string, error) {
	out, err := fr.script.ExpandVariables(s)
	if err != nil {
		return "", core.ErrExpressionFailed.WithCause(err)
	}
	return out, nil
}

// stepTimeout returns the step's own timeout or the flow default.
func (fr *FlowRunner) stepTimeout(step flow.Step) time.Duration {
	if ms := step.Timeout(); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fr.timeout
}

func describeTarget(step flow.Step) string {
	if t, ok := step.(flow.ElementTarget); ok {
		if sel := t.Target(); sel != nil {
			return sel.Describe()
		}
	}
	return ""
}

func skippedStep(idx int, step flow.Step, reason string) core.StepResult {
	return core.StepResult{
		Index:   idx,
		Command: string(step.Type()),
		Label:   step.Label(),
		Target:  describeTarget(step),
		Status:  core.StatusSkipped,
		Message: reason,
	}
}

func skipRemaining(steps []flow.Step, from int, reason string) []core.StepResult {
	var out []core.StepResult
	for i := from; i < len(steps); i++ {
		out = append(out, skippedStep(i, steps[i], reason))
	}
	return out
}
