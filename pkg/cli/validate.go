package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/webelement/pkg/validator"
)

var validateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "Parse flows and report problems without running them",
	ArgsUsage: "<flow-file-or-folder>...",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "include-tags",
			Usage: "Only list flows with any of these tags",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-tags",
			Usage: "Drop flows with any of these tags",
		},
		&cli.BoolFlag{
			Name:  "dump",
			Usage: "Print the parsed step structures",
		},
	},
	Action: validateFlows,
}

func validateFlows(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("at least one flow file or folder is required")
	}

	v := validator.New(c.StringSlice("include-tags"), c.StringSlice("exclude-tags"))
	result := v.ValidateAll(c.Args().Slice())

	dump := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	for i, f := range result.Flows {
		printf("  %s✓%s %s %s(%s, %d steps)%s\n",
			color(colorGreen), color(colorReset), f.DisplayName(),
			color(colorGray), result.Files[i], len(f.Steps), color(colorReset))
		if !c.Bool("dump") {
			continue
		}
		for idx, s := range f.Steps {
			printf("      %d %s\n", idx, s.Describe())
			printf("%s", dump.Sdump(s))
		}
	}
	for _, e := range result.Errors {
		printf("  %s✗%s %v\n", color(colorRed), color(colorReset), e)
	}
	if result.Excluded > 0 {
		printf("  %s%d flow(s) excluded by tags%s\n", color(colorGray), result.Excluded, color(colorReset))
	}

	if !result.IsValid() {
		return cli.Exit(fmt.Sprintf("%d validation error(s)", len(result.Errors)), 1)
	}
	printf("\n%d flow(s) valid\n", len(result.Flows))
	return nil
}
