// Package executor runs parsed flows against a browser, turning each step into
// element operations and collecting step, flow and suite results.
package executor

import (
	"context"
	"time"

	"github.com/devicelab-dev/webelement/pkg/core"
	"github.com/devicelab-dev/webelement/pkg/element"
	"github.com/devicelab-dev/webelement/pkg/flow"
)

// Browser is the driver the runner executes against: element lookups plus navigation.
// Implementations: webdriver (remote WebDriver), mock.
type Browser interface {
	element.Driver
	Get(url string) error
}

// RunnerConfig configures the test runner.
type RunnerConfig struct {
	Timeout    time.Duration     // Default element wait timeout (flow config overrides)
	Interval   time.Duration     // Wait polling interval
	StopOnFail bool              // Skip remaining flows after the first failure
	Env        map[string]string // Variables applied after flow env, e.g. from -e

	// Live progress callbacks
	OnFlowStart    func(flowIdx, totalFlows int, name, file string)
	OnStepComplete func(idx int, desc string, status core.StepStatus, durationMs int64, err string)
	OnFlowEnd      func(name string, status core.StepStatus, durationMs int64)
}

// Runner orchestrates flow execution.
type Runner struct {
	config  RunnerConfig
	browser Browser
}

// New creates a new Runner. Zero timeout and interval fall back to the element defaults.
func New(browser Browser, cfg RunnerConfig) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = element.DefaultTimeout
	}
	if cfg.Interval <= 0 {
		cfg.Interval = element.DefaultInterval
	}
	return &Runner{
		config:  cfg,
		browser: browser,
	}
}

// Run executes flows sequentially on the shared browser session.
func (r *Runner) Run(ctx context.Context, flows []*flow.Flow) *core.SuiteResult {
	suite := &core.SuiteResult{
		StartTime: time.Now(),
		Flows:     make([]core.FlowResult, 0, len(flows)),
	}

	stopped := false
	for i, f := range flows {
		if stopped || ctx.Err() != nil {
			suite.Flows = append(suite.Flows, skippedFlow(f, "run stopped"))
			continue
		}

		fr := &FlowRunner{
			ctx:        ctx,
			flow:       f,
			browser:    r.browser,
			config:     r.config,
			flowIdx:    i,
			totalFlows: len(flows),
		}
		result := fr.Run()
		suite.Flows = append(suite.Flows, result)

		if r.config.StopOnFail && !result.Status.IsSuccess() {
			stopped = true
		}
	}

	suite.Duration = time.Since(suite.StartTime)
	suite.ComputeSummary()
	return suite
}

// skippedFlow builds the result of a flow that never started.
func skippedFlow(f *flow.Flow, reason string) core.FlowResult {
	result := core.FlowResult{
		Name:      f.DisplayName(),
		FilePath:  f.SourcePath,
		Tags:      f.Config.Tags,
		Status:    core.StatusSkipped,
		StartTime: time.Now(),
		Error:     reason,
	}
	for i, step := range flowSteps(f) {
		result.Steps = append(result.Steps, skippedStep(i, step, reason))
	}
	result.ComputeSummary()
	return result
}
