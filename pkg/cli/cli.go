// Package cli provides the command-line interface for webelement.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/webelement/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Log debug messages and copy the log to stderr",
		EnvVars: []string{"WEBELEMENT_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write the structured log to this file instead of the report directory",
		EnvVars: []string{"WEBELEMENT_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// NewApp builds the application without running it.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "webelement",
		Usage:   "Browser flow runner built on WebDriver element wrappers",
		Version: Version,
		Description: `webelement executes YAML flow files against a browser through a
Selenium / WebDriver server.

Examples:
  webelement run flow.yaml
  webelement run flows/ -e USER=test
  webelement --verbose run flows/ --browser firefox --headless
  webelement validate flows/ --dump`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			if c.Bool("no-ansi") {
				colorsEnabled = false
			}
			logger.SetVerbose(c.Bool("verbose"))
			var console io.Writer
			if c.Bool("verbose") {
				console = stderr
			}
			logger.SetConsole(console)
			return nil
		},
		Commands: []*cli.Command{
			runCommand,
			validateCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
