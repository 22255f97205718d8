package flow

import "fmt"

// StepType represents the type of step.
type StepType string

// Step type constants.
const (
	// Navigation
	StepOpen StepType = "open"

	// Interaction
	StepClick              StepType = "click"
	StepClickWhenClickable StepType = "clickWhenClickable"
	StepSendKeys           StepType = "sendKeys"
	StepSetValue           StepType = "setValue"
	StepSetAttribute       StepType = "setAttribute"
	StepClear              StepType = "clear"
	StepScrollTo           StepType = "scrollTo"

	// Waits
	StepWaitFor               StepType = "waitFor"
	StepWaitForVisible        StepType = "waitForVisible"
	StepWaitForAttribute      StepType = "waitForAttribute"
	StepWaitForAttributeValue StepType = "waitForAttributeValue"
	StepWaitForElementCount   StepType = "waitForElementCount"

	// Assertions
	StepAssertText      StepType = "assertText"
	StepAssertAttribute StepType = "assertAttribute"
	StepAssertVisible   StepType = "assertVisible"

	// Other
	StepExecuteScript StepType = "executeScript"
)

// Match modes for waitForAttributeValue.
const (
	MatchEquals      = "equals"
	MatchContains    = "contains"
	MatchNotContains = "notContains"
)

// Step is the interface for all flow steps.
type Step interface {
	Type() StepType
	IsOptional() bool
	Label() string
	Timeout() int
	Describe() string
}

// ElementTarget is implemented by steps that act on an element.
type ElementTarget interface {
	Target() *Selector
}

// BaseStep contains common fields for all steps.
type BaseStep struct {
	StepType  StepType `yaml:"-"`
	Optional  bool     `yaml:"optional"`
	StepLabel string   `yaml:"label"`
	TimeoutMs int      `yaml:"timeout"`
}

// Type returns the step type.
func (b *BaseStep) Type() StepType { return b.StepType }

// IsOptional returns whether the step is optional.
func (b *BaseStep) IsOptional() bool { return b.Optional }

// Label returns the step label.
func (b *BaseStep) Label() string { return b.StepLabel }

// Timeout returns the step wait timeout in ms, 0 for the flow default.
func (b *BaseStep) Timeout() int { return b.TimeoutMs }

// Describe returns a human-readable description.
func (b *BaseStep) Describe() string { return string(b.StepType) }

// ElementStep is the base of every step with a selector.
type ElementStep struct {
	BaseStep `yaml:",inline"`
	Selector Selector `yaml:",inline"`
}

// Target returns the step selector.
func (e *ElementStep) Target() *Selector { return &e.Selector }

// Describe returns "<type> <selector>".
func (e *ElementStep) Describe() string {
	return fmt.Sprintf("%s %s", e.StepType, e.Selector.Describe())
}

// ============================================
// Navigation
// ============================================

// OpenStep navigates the browser to a URL.
type OpenStep struct {
	BaseStep `yaml:",inline"`
	URL      string `yaml:"url"`
}

// Describe returns "open <url>".
func (s *OpenStep) Describe() string { return fmt.Sprintf("open %s", s.URL) }

// ============================================
// Interaction
// ============================================

// ClickStep clicks the element at Selector.Index.
type ClickStep struct {
	ElementStep `yaml:",inline"`
}

// ClickWhenClickableStep waits for the element to be displayed and enabled, then clicks.
type ClickWhenClickableStep struct {
	ElementStep `yaml:",inline"`
}

// SendKeysStep types text into an element.
type SendKeysStep struct {
	ElementStep `yaml:",inline"`
	Text        string `yaml:"text"`
	Clear       bool   `yaml:"clear"` // Clear before typing
}

// SetValueStep sets the value attribute.
type SetValueStep struct {
	ElementStep `yaml:",inline"`
	Value       string `yaml:"value"`
}

// SetAttributeStep sets an arbitrary attribute.
type SetAttributeStep struct {
	ElementStep `yaml:",inline"`
	Attribute   string `yaml:"attribute"`
	Value       string `yaml:"value"`
}

// ClearStep clears the element at Selector.Index.
type ClearStep struct {
	ElementStep `yaml:",inline"`
}

// ScrollToStep scrolls an element into view.
type ScrollToStep struct {
	ElementStep `yaml:",inline"`
}

// ============================================
// Waits
// ============================================

// WaitForStep waits for an element to be located.
type WaitForStep struct {
	ElementStep `yaml:",inline"`
}

// WaitForVisibleStep waits for an element to be displayed.
type WaitForVisibleStep struct {
	ElementStep `yaml:",inline"`
}

// WaitForAttributeStep waits for an attribute to have a non-empty value.
type WaitForAttributeStep struct {
	ElementStep `yaml:",inline"`
	Attribute   string `yaml:"attribute"`
}

// WaitForAttributeValueStep waits for an attribute to equal, contain or stop
// containing Value.
type WaitForAttributeValueStep struct {
	ElementStep `yaml:",inline"`
	Attribute   string `yaml:"attribute"`
	Value       string `yaml:"value"`
	Match       string `yaml:"match"` // equals (default), contains, notContains
}

// WaitForElementCountStep waits for exactly Count matches.
type WaitForElementCountStep struct {
	ElementStep `yaml:",inline"`
	Count       int `yaml:"count"`
}

// ============================================
// Assertions
// ============================================

// AssertTextStep checks the element text.
type AssertTextStep struct {
	ElementStep `yaml:",inline"`
	Text        string `yaml:"text"`
	Contains    bool   `yaml:"contains"`
}

// AssertAttributeStep checks an attribute value.
type AssertAttributeStep struct {
	ElementStep `yaml:",inline"`
	Attribute   string `yaml:"attribute"`
	Value       string `yaml:"value"`
}

// AssertVisibleStep checks visibility of the element at Selector.Index.
type AssertVisibleStep struct {
	ElementStep `yaml:",inline"`
	Visible     *bool `yaml:"visible"` // nil means true
}

// WantVisible returns the expected visibility.
func (s *AssertVisibleStep) WantVisible() bool {
	return s.Visible == nil || *s.Visible
}

// ============================================
// Other
// ============================================

// ExecuteScriptStep runs a script in the page. When a selector is given the resolved
// element is passed as arguments[0]. A non-empty Output stores the script result in
// that flow variable.
type ExecuteScriptStep struct {
	BaseStep `yaml:",inline"`
	Script   string    `yaml:"script"`
	Element  *Selector `yaml:"element"`
	Output   string    `yaml:"output"`
}

// Target returns the optional element selector.
func (s *ExecuteScriptStep) Target() *Selector { return s.Element }
