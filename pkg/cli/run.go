package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/webelement/pkg/config"
	"github.com/devicelab-dev/webelement/pkg/driver/mock"
	"github.com/devicelab-dev/webelement/pkg/driver/webdriver"
	"github.com/devicelab-dev/webelement/pkg/executor"
	"github.com/devicelab-dev/webelement/pkg/flow"
	"github.com/devicelab-dev/webelement/pkg/logger"
	"github.com/devicelab-dev/webelement/pkg/report"
	"github.com/devicelab-dev/webelement/pkg/validator"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Run flows in a browser",
	ArgsUsage: "<flow-file-or-folder>...",
	Description: `Run one or more flow files against a WebDriver session.

Without arguments the flows listed in the workspace config are run.

Reports are generated in the output directory:
  - Default: ./reports/<timestamp>/
  - With --output: <output>/<timestamp>/
  - With --output and --flatten: <output>/ (no timestamp subfolder)

Examples:
  webelement run flow.yaml
  webelement run flows/ -e USER=test -e PASS=secret
  webelement run flows/ --include-tags smoke --exclude-tags slow
  webelement run flows/ --selenium-url http://grid:4444/wd/hub --browser firefox
  webelement run flows/ --dry-run`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Workspace config file (default: ./config.yaml if present)",
		},
		&cli.StringFlag{
			Name:    "selenium-url",
			Usage:   "Selenium / WebDriver server URL",
			EnvVars: []string{"WEBELEMENT_SELENIUM_URL"},
		},
		&cli.StringFlag{
			Name:    "browser",
			Usage:   "Browser name (chrome, firefox, MicrosoftEdge)",
			EnvVars: []string{"WEBELEMENT_BROWSER"},
		},
		&cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the browser without a window",
		},
		&cli.StringFlag{
			Name:  "caps",
			Usage: "JSON or YAML file with extra session capabilities",
		},
		&cli.StringSliceFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "Variables for ${...} expressions (KEY=VALUE)",
		},
		&cli.StringSliceFlag{
			Name:  "include-tags",
			Usage: "Only run flows with any of these tags",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-tags",
			Usage: "Skip flows with any of these tags",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Report directory",
		},
		&cli.BoolFlag{
			Name:  "flatten",
			Usage: "Write reports directly into --output without a timestamp folder",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Default element wait timeout",
		},
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Element wait polling interval",
		},
		&cli.BoolFlag{
			Name:  "stop-on-fail",
			Usage: "Skip remaining flows after the first failure",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Execute against an in-memory browser where every locator matches",
		},
	},
	Action: runFlows,
}

// RunConfig holds everything needed for one run.
type RunConfig struct {
	Workspace   config.Config // merged and defaulted
	FlowPaths   []string
	Env         map[string]string
	IncludeTags []string
	ExcludeTags []string
	OutputDir   string
	LogFile     string
	StopOnFail  bool
	DryRun      bool
}

func runFlows(c *cli.Context) error {
	cfg, err := buildRunConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return executeRun(ctx, cfg)
}

func buildRunConfig(c *cli.Context) (*RunConfig, error) {
	ws, configDir, err := loadWorkspace(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("selenium-url") {
		ws.SeleniumURL = c.String("selenium-url")
	}
	if c.IsSet("browser") {
		ws.Browser = c.String("browser")
	}
	if c.IsSet("headless") {
		ws.Headless = c.Bool("headless")
	}
	if c.IsSet("timeout") {
		ws.TimeoutMs = int(c.Duration("timeout") / time.Millisecond)
	}
	if c.IsSet("interval") {
		ws.IntervalMs = int(c.Duration("interval") / time.Millisecond)
	}
	if capsFile := c.String("caps"); capsFile != "" {
		caps, err := loadCapabilities(capsFile)
		if err != nil {
			return nil, err
		}
		if ws.Capabilities == nil {
			ws.Capabilities = make(map[string]interface{})
		}
		for k, v := range caps {
			ws.Capabilities[k] = v
		}
	}
	if err := ws.Validate(); err != nil {
		return nil, err
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		for _, p := range ws.Flows {
			if !filepath.IsAbs(p) {
				p = filepath.Join(configDir, p)
			}
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one flow file or folder is required")
	}

	outputDir, err := resolveOutputDir(c.String("output"), c.Bool("flatten"))
	if err != nil {
		return nil, err
	}

	// Workspace env first, CLI env overrides
	env := make(map[string]string)
	for k, v := range ws.Env {
		env[k] = v
	}
	for k, v := range parseEnvVars(c.StringSlice("env")) {
		env[k] = v
	}

	include := c.StringSlice("include-tags")
	if len(include) == 0 {
		include = ws.IncludeTags
	}
	exclude := c.StringSlice("exclude-tags")
	if len(exclude) == 0 {
		exclude = ws.ExcludeTags
	}

	logFile := c.String("log-file")
	if logFile == "" {
		logFile = ws.LogFile
	}
	if logFile == "" {
		logFile = filepath.Join(outputDir, "webelement.log")
	}

	return &RunConfig{
		Workspace:   ws.WithDefaults(),
		FlowPaths:   paths,
		Env:         env,
		IncludeTags: include,
		ExcludeTags: exclude,
		OutputDir:   outputDir,
		LogFile:     logFile,
		StopOnFail:  c.Bool("stop-on-fail"),
		DryRun:      c.Bool("dry-run"),
	}, nil
}

// loadWorkspace reads the explicit config file, or config.yaml in the working
// directory when none is given. It also returns the directory relative flow paths in
// the config resolve against.
func loadWorkspace(path string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", errors.Wrap(err, "load config")
		}
		return cfg, filepath.Dir(path), nil
	}
	cfg, err := config.LoadFromDir(".")
	if err != nil {
		return nil, "", errors.Wrap(err, "load config")
	}
	return cfg, ".", nil
}

// loadCapabilities reads extra capabilities. JSON files parse as YAML.
func loadCapabilities(capsFile string) (map[string]interface{}, error) {
	data, err := os.ReadFile(capsFile)
	if err != nil {
		return nil, errors.Wrap(err, "read caps file")
	}

	var caps map[string]interface{}
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return nil, errors.Wrap(err, "parse caps file")
	}
	return caps, nil
}

// resolveOutputDir determines the output directory based on flags.
// - No --output: ./reports/<timestamp>/
// - --output given: <output>/<timestamp>/
// - --output + --flatten: <output>/ (error if --output not given)
func resolveOutputDir(output string, flatten bool) (string, error) {
	if flatten && output == "" {
		return "", fmt.Errorf("--flatten requires --output to be specified")
	}

	baseDir := output
	if baseDir == "" {
		baseDir = "./reports"
	}

	if flatten {
		return filepath.Clean(baseDir), nil
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(baseDir, timestamp), nil
}

func parseEnvVars(envs []string) map[string]string {
	result := make(map[string]string)
	for _, e := range envs {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		}
	}
	return result
}

// openBrowser starts the session the flows run on. The returned cleanup ends it.
func openBrowser(cfg *RunConfig) (executor.Browser, func(), error) {
	if cfg.DryRun {
		d := mock.New()
		d.AutoCreate = true
		return d, func() { _ = d.Quit() }, nil
	}

	ws := cfg.Workspace
	d, err := webdriver.Connect(webdriver.Options{
		URL:          ws.SeleniumURL,
		Browser:      ws.Browser,
		Headless:     ws.Headless,
		ImplicitWait: ws.ImplicitWait(),
		Capabilities: ws.Capabilities,
	})
	if err != nil {
		return nil, nil, err
	}
	return d, func() {
		if err := d.Quit(); err != nil {
			logger.Warn("Failed to end session: %v", err)
		}
	}, nil
}

func executeRun(ctx context.Context, cfg *RunConfig) error {
	// 1. Create output directory
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	// 2. Initialize logging
	if err := logger.Init(cfg.LogFile); err != nil {
		printf("Warning: Failed to initialize logger: %v\n", err)
	}
	defer logger.Close()

	ws := cfg.Workspace
	logger.Info("=== Run started ===")
	logger.Info("Output directory: %s", cfg.OutputDir)
	logger.Info("Browser: %s (headless: %v) via %s", ws.Browser, ws.Headless, ws.SeleniumURL)

	// 3. Validate and parse flows
	flows, err := validateAndParseFlows(cfg)
	if err != nil {
		logger.Error("Flow validation failed: %v", err)
		return err
	}
	logger.Info("Validated %d flow(s)", len(flows))

	// 4. Start the browser session
	printf("\n%sSetup%s\n", color(colorBold), color(colorReset))
	if cfg.DryRun {
		printf("  Browser: %sdry run%s\n", color(colorYellow), color(colorReset))
	} else {
		printf("  Browser: %s on %s\n", ws.Browser, ws.SeleniumURL)
	}
	browser, cleanup, err := openBrowser(cfg)
	if err != nil {
		logger.Error("Session start failed: %v", err)
		return errors.Wrap(err, "start browser session")
	}
	defer cleanup()

	// 5. Execute flows
	printf("\n%sExecution%s\n", color(colorBold), color(colorReset))
	runner := executor.New(browser, executor.RunnerConfig{
		Timeout:        ws.Timeout(),
		Interval:       ws.Interval(),
		StopOnFail:     cfg.StopOnFail,
		Env:            cfg.Env,
		OnFlowStart:    onFlowStart,
		OnStepComplete: onStepComplete,
		OnFlowEnd:      onFlowEnd,
	})
	suite := runner.Run(ctx, flows)
	logger.Info("Run completed: %d passed, %d failed, %d skipped",
		suite.PassedFlows, suite.FailedFlows, suite.SkippedFlows)

	printSummary(suite)

	// 6. Reports
	if err := report.Write(cfg.OutputDir, suite, report.Config{Title: "Test Report"}); err != nil {
		printf("  %s⚠%s Warning: failed to write reports: %v\n", color(colorYellow), color(colorReset), err)
	} else {
		printf("\n  Reports:\n")
		printf("    HTML:   %s\n", filepath.Join(cfg.OutputDir, report.HTMLFile))
		printf("    JSON:   %s\n", filepath.Join(cfg.OutputDir, report.JSONFile))
		printf("    JUnit:  %s\n", filepath.Join(cfg.OutputDir, report.JUnitFile))
	}

	if !suite.Success() {
		return cli.Exit("", 1)
	}
	return nil
}

// validateAndParseFlows validates and parses all flow files.
func validateAndParseFlows(cfg *RunConfig) ([]*flow.Flow, error) {
	v := validator.New(cfg.IncludeTags, cfg.ExcludeTags)
	result := v.ValidateAll(cfg.FlowPaths)

	if !result.IsValid() {
		printf("%sValidation failed:%s\n", color(colorRed), color(colorReset))
		for _, e := range result.Errors {
			printf("  %s✗%s %v\n", color(colorRed), color(colorReset), e)
		}
		return nil, fmt.Errorf("%d validation error(s)", len(result.Errors))
	}
	if len(result.Flows) == 0 {
		if result.Excluded > 0 {
			return nil, fmt.Errorf("no flows left after tag filtering (%d excluded)", result.Excluded)
		}
		return nil, fmt.Errorf("no flows found")
	}

	for i, f := range result.Flows {
		if f.SourcePath == "" {
			f.SourcePath = result.Files[i]
		}
	}
	return result.Flows, nil
}
