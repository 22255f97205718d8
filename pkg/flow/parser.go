package flow

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError represents a parsing error with location info.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ParseFile parses a single YAML flow file.
func ParseFile(path string) (*Flow, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is user-provided flow file
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses YAML flow content. With two documents the first is the flow config.
func Parse(data []byte, sourcePath string) (*Flow, error) {
	parts := splitYAMLDocuments(string(data))

	flow := &Flow{
		SourcePath: sourcePath,
	}

	if len(parts) == 0 {
		return nil, &ParseError{
			Path:    sourcePath,
			Line:    1,
			Message: "empty flow file",
		}
	}

	if len(parts) == 1 {
		if err := parseSteps(parts[0], flow, 0); err != nil {
			return nil, err
		}
	} else {
		if err := parseConfig(parts[0], flow); err != nil {
			return nil, err
		}
		if err := parseSteps(parts[1], flow, strings.Count(parts[0], "\n")+1); err != nil {
			return nil, err
		}
	}

	return flow, nil
}

// splitYAMLDocuments splits on "---" lines outside block scalars, so scripts may
// contain a literal separator.
func splitYAMLDocuments(content string) []string {
	var parts []string
	var current strings.Builder
	inMultiline := false
	multilineIndent := 0

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inMultiline {
			if strings.HasSuffix(trimmed, "|") || strings.HasSuffix(trimmed, ">") ||
				strings.HasSuffix(trimmed, "|-") || strings.HasSuffix(trimmed, ">-") {
				inMultiline = true
				if i+1 < len(lines) {
					next := lines[i+1]
					multilineIndent = len(next) - len(strings.TrimLeft(next, " \t"))
				}
			}
		} else {
			indent := len(line) - len(strings.TrimLeft(line, " \t"))
			if trimmed != "" && indent < multilineIndent {
				inMultiline = false
			}
		}

		if !inMultiline && trimmed == "---" && strings.TrimLeft(line, " \t") == "---" {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		} else {
			current.WriteString(line)
			current.WriteString("\n")
		}
	}

	if current.Len() > 0 {
		s := strings.TrimSpace(current.String())
		if s != "" {
			parts = append(parts, current.String())
		}
	}

	return parts
}

func parseConfig(content string, flow *Flow) error {
	var config Config
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return &ParseError{
			Path:    flow.SourcePath,
			Message: fmt.Sprintf("invalid config: %v", err),
		}
	}
	if config.Timeout < 0 {
		return &ParseError{
			Path:    flow.SourcePath,
			Message: fmt.Sprintf("invalid config: timeout must not be negative: %d", config.Timeout),
		}
	}
	flow.Config = config
	return nil
}

// parseSteps decodes the step list. lineOffset shifts node lines so errors point into
// the original file rather than the split document.
func parseSteps(content string, flow *Flow, lineOffset int) error {
	var rawSteps []yaml.Node
	if err := yaml.Unmarshal([]byte(content), &rawSteps); err != nil {
		return &ParseError{
			Path:    flow.SourcePath,
			Message: fmt.Sprintf("invalid steps: %v", err),
		}
	}

	for i := range rawSteps {
		step, err := parseStep(&rawSteps[i], flow.SourcePath, lineOffset)
		if err != nil {
			return err
		}
		flow.Steps = append(flow.Steps, step)
	}

	return nil
}

func parseStep(node *yaml.Node, sourcePath string, lineOffset int) (Step, error) {
	if node.Kind != yaml.MappingNode {
		return nil, &ParseError{
			Path:    sourcePath,
			Line:    node.Line + lineOffset,
			Message: "step must be a mapping like '- click: {css: button}'",
		}
	}

	stepType, valueNode := extractStepType(node)
	if stepType == "" || valueNode == nil {
		key := ""
		if len(node.Content) > 0 {
			key = node.Content[0].Value
		}
		return nil, &ParseError{
			Path:    sourcePath,
			Line:    node.Line + lineOffset,
			Message: fmt.Sprintf("unknown step type: %s", key),
		}
	}

	line := valueNode.Line + lineOffset
	step, err := decodeStep(StepType(stepType), valueNode)
	if err != nil {
		return nil, &ParseError{Path: sourcePath, Line: line, Message: err.Error()}
	}
	if err := validateStep(step); err != nil {
		return nil, &ParseError{
			Path:    sourcePath,
			Line:    line,
			Message: fmt.Sprintf("%s: %v", stepType, err),
		}
	}
	return step, nil
}

func extractStepType(node *yaml.Node) (string, *yaml.Node) {
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		if isStepType(key) {
			return key, node.Content[i+1]
		}
	}
	return "", nil
}

// StepTypes lists every step keyword, sorted.
func StepTypes() []string {
	types := make([]string, 0, len(decoders))
	for t := range decoders {
		types = append(types, string(t))
	}
	sort.Strings(types)
	return types
}

func isStepType(key string) bool {
	_, ok := decoders[StepType(key)]
	return ok
}

// scalarField says which field a scalar shorthand fills ("- open: https://...").
type scalarField int

const (
	scalarNone scalarField = iota
	scalarSelector
	scalarURL
	scalarScript
)

type decoder struct {
	newStep func() Step
	scalar  scalarField
}

var decoders = map[StepType]decoder{
	StepOpen:                  {func() Step { return &OpenStep{} }, scalarURL},
	StepClick:                 {func() Step { return &ClickStep{} }, scalarSelector},
	StepClickWhenClickable:    {func() Step { return &ClickWhenClickableStep{} }, scalarSelector},
	StepSendKeys:              {func() Step { return &SendKeysStep{} }, scalarNone},
	StepSetValue:              {func() Step { return &SetValueStep{} }, scalarNone},
	StepSetAttribute:          {func() Step { return &SetAttributeStep{} }, scalarNone},
	StepClear:                 {func() Step { return &ClearStep{} }, scalarSelector},
	StepScrollTo:              {func() Step { return &ScrollToStep{} }, scalarSelector},
	StepWaitFor:               {func() Step { return &WaitForStep{} }, scalarSelector},
	StepWaitForVisible:        {func() Step { return &WaitForVisibleStep{} }, scalarSelector},
	StepWaitForAttribute:      {func() Step { return &WaitForAttributeStep{} }, scalarNone},
	StepWaitForAttributeValue: {func() Step { return &WaitForAttributeValueStep{} }, scalarNone},
	StepWaitForElementCount:   {func() Step { return &WaitForElementCountStep{} }, scalarNone},
	StepAssertText:            {func() Step { return &AssertTextStep{} }, scalarNone},
	StepAssertAttribute:       {func() Step { return &AssertAttributeStep{} }, scalarNone},
	StepAssertVisible:         {func() Step { return &AssertVisibleStep{} }, scalarSelector},
	StepExecuteScript:         {func() Step { return &ExecuteScriptStep{} }, scalarScript},
}

func decodeStep(stepType StepType, valueNode *yaml.Node) (Step, error) {
	d := decoders[stepType]
	step := d.newStep()

	if valueNode.Kind == yaml.ScalarNode {
		if err := applyScalar(step, d.scalar, valueNode.Value); err != nil {
			return nil, err
		}
	} else if err := valueNode.Decode(step); err != nil {
		return nil, err
	}

	setStepType(step, stepType)
	return step, nil
}

func applyScalar(step Step, field scalarField, value string) error {
	switch field {
	case scalarSelector:
		step.(ElementTarget).Target().CSS = value
	case scalarURL:
		step.(*OpenStep).URL = value
	case scalarScript:
		step.(*ExecuteScriptStep).Script = value
	default:
		return fmt.Errorf("expected a mapping, got %q", value)
	}
	return nil
}

func setStepType(step Step, t StepType) {
	switch s := step.(type) {
	case *OpenStep:
		s.StepType = t
	case *ExecuteScriptStep:
		s.StepType = t
	case interface{ base() *BaseStep }:
		s.base().StepType = t
	}
}

func (e *ElementStep) base() *BaseStep { return &e.BaseStep }

func validateStep(step Step) error {
	if step.Timeout() < 0 {
		return fmt.Errorf("timeout must not be negative: %d", step.Timeout())
	}

	switch s := step.(type) {
	case *OpenStep:
		if s.URL == "" {
			return fmt.Errorf("url is required")
		}
		return nil
	case *ExecuteScriptStep:
		if s.Script == "" {
			return fmt.Errorf("script is required")
		}
		if s.Element != nil {
			return s.Element.Validate()
		}
		return nil
	}

	if t, ok := step.(ElementTarget); ok {
		if err := t.Target().Validate(); err != nil {
			return err
		}
	}

	switch s := step.(type) {
	case *SetAttributeStep:
		if s.Attribute == "" {
			return fmt.Errorf("attribute is required")
		}
	case *WaitForAttributeStep:
		if s.Attribute == "" {
			return fmt.Errorf("attribute is required")
		}
	case *AssertAttributeStep:
		if s.Attribute == "" {
			return fmt.Errorf("attribute is required")
		}
	case *WaitForAttributeValueStep:
		if s.Attribute == "" {
			return fmt.Errorf("attribute is required")
		}
		switch s.Match {
		case "":
			s.Match = MatchEquals
		case MatchEquals, MatchContains, MatchNotContains:
		default:
			return fmt.Errorf("match must be one of equals, contains, notContains: %q", s.Match)
		}
	case *WaitForElementCountStep:
		if s.Count < 0 {
			return fmt.Errorf("count must not be negative: %d", s.Count)
		}
		// The count is over every match, so picking one of them makes no sense.
		if s.Selector.Index > 0 {
			return fmt.Errorf("index is not allowed on %s", s.Type())
		}
	}
	return nil
}

// ShouldIncludeFlow checks if a flow matches tag filters.
func ShouldIncludeFlow(flow *Flow, includeTags, excludeTags []string) bool {
	if len(includeTags) > 0 {
		hasTag := false
		for _, tag := range flow.Config.Tags {
			for _, include := range includeTags {
				if tag == include {
					hasTag = true
					break
				}
			}
		}
		if !hasTag {
			return false
		}
	}

	for _, tag := range flow.Config.Tags {
		for _, exclude := range excludeTags {
			if tag == exclude {
				return false
			}
		}
	}

	return true
}
