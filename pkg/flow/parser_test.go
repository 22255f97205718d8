package flow

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_SimpleFlow(t *testing.T) {
	yaml := `
- open: https://example.test/login
- sendKeys: { name: user, text: alice }
- click: "button.submit"
- click:
    css: li.item
    index: 2
`
	flow, err := Parse([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(flow.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(flow.Steps))
	}

	open, ok := flow.Steps[0].(*OpenStep)
	if !ok {
		t.Fatalf("expected OpenStep, got %T", flow.Steps[0])
	}
	if open.URL != "https://example.test/login" {
		t.Errorf("expected url, got %q", open.URL)
	}
	if open.Type() != StepOpen {
		t.Errorf("Type() = %q", open.Type())
	}

	keys, ok := flow.Steps[1].(*SendKeysStep)
	if !ok {
		t.Fatalf("expected SendKeysStep, got %T", flow.Steps[1])
	}
	if keys.Selector.Name != "user" || keys.Text != "alice" {
		t.Errorf("sendKeys = %+v", keys)
	}

	click, ok := flow.Steps[2].(*ClickStep)
	if !ok {
		t.Fatalf("expected ClickStep, got %T", flow.Steps[2])
	}
	if click.Selector.CSS != "button.submit" {
		t.Errorf("expected css=button.submit, got %q", click.Selector.CSS)
	}
	if click.Type() != StepClick {
		t.Errorf("Type() = %q", click.Type())
	}

	nth := flow.Steps[3].(*ClickStep)
	if nth.Selector.CSS != "li.item" || nth.Selector.Index != 2 {
		t.Errorf("selector = %+v", nth.Selector)
	}
}

func TestParse_WithConfig(t *testing.T) {
	yaml := `
name: Login Test
url: https://example.test
tags:
  - smoke
env:
  USER: alice
timeout: 3000
---
- click: "#login"
`
	flow, err := Parse([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if flow.Config.Name != "Login Test" || flow.DisplayName() != "Login Test" {
		t.Errorf("name = %q", flow.Config.Name)
	}
	if flow.Config.URL != "https://example.test" {
		t.Errorf("url = %q", flow.Config.URL)
	}
	if len(flow.Config.Tags) != 1 || flow.Config.Tags[0] != "smoke" {
		t.Errorf("tags = %v", flow.Config.Tags)
	}
	if flow.Config.Env["USER"] != "alice" {
		t.Errorf("env = %v", flow.Config.Env)
	}
	if flow.Config.Timeout != 3000 {
		t.Errorf("timeout = %d", flow.Config.Timeout)
	}
	if len(flow.Steps) != 1 {
		t.Errorf("expected 1 step, got %d", len(flow.Steps))
	}
}

func TestParse_DisplayNameFallsBackToPath(t *testing.T) {
	flow, err := Parse([]byte(`- waitFor: "#app"`), "flows/a.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if flow.DisplayName() != "flows/a.yaml" {
		t.Errorf("DisplayName() = %q", flow.DisplayName())
	}
}

func TestParse_AllStepTypes(t *testing.T) {
	yaml := `
- open: https://example.test
- click: { css: a }
- clickWhenClickable: { xpath: "//button" }
- sendKeys: { id: q, text: go, clear: true }
- setValue: { name: pass, value: secret }
- setAttribute: { css: div, attribute: data-x, value: "1" }
- clear: { id: q, index: 1 }
- scrollTo: { linkText: Footer }
- waitFor: { partialLinkText: More }
- waitForVisible: { tagName: dialog }
- waitForAttribute: { className: spinner, attribute: aria-busy }
- waitForAttributeValue: { id: status, attribute: class, value: done, match: contains }
- waitForElementCount: { css: li, count: 3 }
- assertText: { css: h1, text: Welcome, contains: true }
- assertAttribute: { id: q, attribute: value, value: go }
- assertVisible: { css: .toast, visible: false }
- executeScript: "window.scrollTo(0, 0)"
`
	flow, err := Parse([]byte(yaml), "all.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []StepType{
		StepOpen, StepClick, StepClickWhenClickable, StepSendKeys, StepSetValue,
		StepSetAttribute, StepClear, StepScrollTo, StepWaitFor, StepWaitForVisible,
		StepWaitForAttribute, StepWaitForAttributeValue, StepWaitForElementCount,
		StepAssertText, StepAssertAttribute, StepAssertVisible, StepExecuteScript,
	}
	if len(flow.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(flow.Steps))
	}
	for i, s := range flow.Steps {
		if s.Type() != want[i] {
			t.Errorf("step %d: Type() = %q, want %q", i, s.Type(), want[i])
		}
	}
	if len(StepTypes()) != len(want) {
		t.Errorf("StepTypes() = %v", StepTypes())
	}

	if s := flow.Steps[3].(*SendKeysStep); !s.Clear || s.Text != "go" {
		t.Errorf("sendKeys = %+v", s)
	}
	if s := flow.Steps[6].(*ClearStep); s.Selector.Index != 1 {
		t.Errorf("clear index = %d", s.Selector.Index)
	}
	if s := flow.Steps[11].(*WaitForAttributeValueStep); s.Match != MatchContains || s.Value != "done" {
		t.Errorf("waitForAttributeValue = %+v", s)
	}
	if s := flow.Steps[12].(*WaitForElementCountStep); s.Count != 3 {
		t.Errorf("count = %d", s.Count)
	}
	if s := flow.Steps[15].(*AssertVisibleStep); s.WantVisible() {
		t.Error("assertVisible visible:false should want hidden")
	}
	if s := flow.Steps[16].(*ExecuteScriptStep); s.Script != "window.scrollTo(0, 0)" || s.Target() != nil {
		t.Errorf("executeScript = %+v", s)
	}
}

func TestParse_MatchDefaultsToEquals(t *testing.T) {
	flow, err := Parse([]byte(`- waitForAttributeValue: { id: s, attribute: class, value: done }`), "t.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if s := flow.Steps[0].(*WaitForAttributeValueStep); s.Match != MatchEquals {
		t.Errorf("match = %q, want equals", s.Match)
	}
}

func TestParse_CommonFields(t *testing.T) {
	yaml := `
- click:
    css: "#cookie-accept"
    optional: true
    label: Dismiss cookies
    timeout: 2000
`
	flow, err := Parse([]byte(yaml), "t.yaml")
	if err != nil {
		t.Fatal(err)
	}
	s := flow.Steps[0]
	if !s.IsOptional() || s.Label() != "Dismiss cookies" || s.Timeout() != 2000 {
		t.Errorf("optional=%v label=%q timeout=%d", s.IsOptional(), s.Label(), s.Timeout())
	}
	if got := s.Describe(); got != `click css="#cookie-accept"` {
		t.Errorf("Describe() = %q", got)
	}
}

func TestParse_ChildOf(t *testing.T) {
	yaml := `
- click:
    tagName: li
    index: 1
    childOf:
      id: menu
      childOf:
        css: nav
`
	flow, err := Parse([]byte(yaml), "t.yaml")
	if err != nil {
		t.Fatal(err)
	}
	sel := flow.Steps[0].(*ClickStep).Selector
	if sel.ChildOf == nil || sel.ChildOf.ID != "menu" {
		t.Fatalf("childOf = %+v", sel.ChildOf)
	}
	if sel.ChildOf.ChildOf == nil || sel.ChildOf.ChildOf.CSS != "nav" {
		t.Errorf("nested childOf = %+v", sel.ChildOf.ChildOf)
	}
	if got := sel.Describe(); got != `tagName="li" [1] in id="menu" in css="nav"` {
		t.Errorf("Describe() = %q", got)
	}
}

func TestParse_ExecuteScriptWithElement(t *testing.T) {
	yaml := `
- executeScript:
    script: "arguments[0].focus();"
    element: { id: q }
`
	flow, err := Parse([]byte(yaml), "t.yaml")
	if err != nil {
		t.Fatal(err)
	}
	s := flow.Steps[0].(*ExecuteScriptStep)
	if s.Target() == nil || s.Target().ID != "q" {
		t.Errorf("element = %+v", s.Element)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		line    int
		message string
	}{
		{"empty", "", 1, "empty flow file"},
		{"unknown step", "- click: a\n- tapOn: b\n", 2, "unknown step type: tapOn"},
		{"scalar step", "- click: a\n- back\n", 2, "step must be a mapping"},
		{"no strategy", "- click: { index: 1 }\n", 1, "selector needs one of"},
		{"two strategies", "- click: { css: a, id: b }\n", 1, "more than one strategy: css, id"},
		{"negative index", "- click: { css: a, index: -1 }\n", 1, "index must not be negative"},
		{"bad childOf", "- click: { css: a, childOf: { index: 2 } }\n", 1, "childOf: selector needs"},
		{"missing attribute", "- waitForAttribute: { css: a }\n", 1, "attribute is required"},
		{"bad match", "- waitForAttributeValue: { css: a, attribute: b, match: regex }\n", 1, "match must be one of"},
		{"scalar sendKeys", "- sendKeys: hello\n", 1, "expected a mapping"},
		{"missing url", "- open: { label: x }\n", 1, "url is required"},
		{"negative timeout", "- waitFor: { css: a, timeout: -5 }\n", 1, "timeout must not be negative"},
		{"negative count", "- waitForElementCount: { css: a, count: -1 }\n", 1, "count must not be negative"},
		{"index on count", "- waitForElementCount: { css: li, count: 2, index: 1 }\n", 1, "index is not allowed on waitForElementCount"},
		{"line after config", "name: x\n---\n- click: a\n- nope: b\n", 4, "unknown step type: nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "bad.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if pe.Path != "bad.yaml" {
				t.Errorf("path = %q", pe.Path)
			}
			if pe.Line != tt.line {
				t.Errorf("line = %d, want %d (%v)", pe.Line, tt.line, err)
			}
			if !strings.Contains(pe.Message, tt.message) {
				t.Errorf("message = %q, want it to contain %q", pe.Message, tt.message)
			}
		})
	}
}

func TestParse_InvalidConfig(t *testing.T) {
	_, err := Parse([]byte("tags: [a\n---\n- click: a\n"), "bad.yaml")
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("error = %v", err)
	}
}

func TestParseError_Format(t *testing.T) {
	if got := (&ParseError{Path: "a.yaml", Line: 3, Message: "boom"}).Error(); got != "a.yaml:3: boom" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&ParseError{Path: "a.yaml", Message: "boom"}).Error(); got != "a.yaml: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSplitYAMLDocuments_BlockScalar(t *testing.T) {
	yaml := `name: x
---
- executeScript:
    script: |
      const a = 1;
      ---
      return a;
`
	parts := splitYAMLDocuments(yaml)
	if len(parts) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(parts))
	}
	if !strings.Contains(parts[1], "return a;") {
		t.Errorf("block scalar split: %q", parts[1])
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f.yaml")
	if err := os.WriteFile(p, []byte("- waitFor: '#x'\n"), 0644); err != nil {
		t.Fatal(err)
	}
	flow, err := ParseFile(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flow.SourcePath != p {
		t.Errorf("SourcePath = %q", flow.SourcePath)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestShouldIncludeFlow(t *testing.T) {
	f := &Flow{Config: Config{Tags: []string{"smoke", "login"}}}
	tests := []struct {
		include, exclude []string
		want             bool
	}{
		{nil, nil, true},
		{[]string{"login"}, nil, true},
		{[]string{"checkout"}, nil, false},
		{nil, []string{"smoke"}, false},
		{[]string{"login"}, []string{"wip"}, true},
	}
	for _, tt := range tests {
		if got := ShouldIncludeFlow(f, tt.include, tt.exclude); got != tt.want {
			t.Errorf("ShouldIncludeFlow(%v, %v) = %v, want %v", tt.include, tt.exclude, got, tt.want)
		}
	}
}
