package executor

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/webelement/pkg/core"
	"github.com/devicelab-dev/webelement/pkg/element"
	"github.com/devicelab-dev/webelement/pkg/flow"
)

// dispatch runs one step against the browser. Step values are expanded into locals so
// parsed flows stay reusable.
func (fr *FlowRunner) dispatch(step flow.Step) error {
	switch s := step.(type) {
	// Navigation
	case *flow.OpenStep:
		url, err := fr.expand(s.URL)
		if err != nil {
			return err
		}
		if err := fr.browser.Get(url); err != nil {
			return core.ErrNavigationFailed.WithCause(err)
		}
		return nil

	// Interaction
	case *flow.ClickStep:
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			return el.Click()
		})
	case *flow.ClickWhenClickableStep:
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			return el.ClickWhenClickable()
		})
	case *flow.SendKeysStep:
		text, err := fr.expand(s.Text)
		if err != nil {
			return err
		}
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			if s.Clear {
				if err := el.Clear(); err != nil {
					return err
				}
			}
			return el.SendKeys(text)
		})
	case *flow.SetValueStep:
		value, err := fr.expand(s.Value)
		if err != nil {
			return err
		}
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			return el.SetValue(value)
		})
	case *flow.SetAttributeStep:
		value, err := fr.expand(s.Value)
		if err != nil {
			return err
		}
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			return el.SetAttribute(s.Attribute, value)
		})
	case *flow.ClearStep:
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			return el.Clear()
		})
	case *flow.ScrollToStep:
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			return el.ScrollTo()
		})

	// Waits
	case *flow.WaitForStep:
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			return el.WaitFor()
		})
	case *flow.WaitForVisibleStep:
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			return el.WaitForVisible()
		})
	case *flow.WaitForAttributeStep:
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			return el.WaitForAttributeToExist(s.Attribute)
		})
	case *flow.WaitForAttributeValueStep:
		return fr.waitForAttributeValue(s)
	case *flow.WaitForElementCountStep:
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			return el.WaitForElementCount(s.Count)
		})

	// Assertions
	case *flow.AssertTextStep:
		return fr.assertText(s)
	case *flow.AssertAttributeStep:
		return fr.assertAttribute(s)
	case *flow.AssertVisibleStep:
		return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
			displayed, err := el.IsDisplayed()
			if err != nil {
				return err
			}
			switch want := s.WantVisible(); {
			case want && !displayed:
				return core.ErrElementNotVisible.WithMessage(fmt.Sprintf("%s is not visible", el))
			case !want && displayed:
				return core.ErrElementVisible.WithMessage(fmt.Sprintf("%s is visible", el))
			}
			return nil
		})

	// Other
	case *flow.ExecuteScriptStep:
		return fr.executeScript(s)
	}

	return core.ErrInvalidStep.WithMessage(fmt.Sprintf("unsupported step type %q", step.Type()))
}

// withElement resolves sel with the step's timeout and runs fn on it.
func (fr *FlowRunner) withElement(step flow.Step, sel *flow.Selector, fn func(*element.BaseElement) error) error {
	el, err := fr.element(sel, fr.stepTimeout(step))
	if err != nil {
		return err
	}
	return fn(el)
}

func (fr *FlowRunner) waitForAttributeValue(s *flow.WaitForAttributeValueStep) error {
	value, err := fr.expand(s.Value)
	if err != nil {
		return err
	}
	return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
		switch s.Match {
		case flow.MatchContains:
			return el.WaitForAttributeValueToContain(s.Attribute, value)
		case flow.MatchNotContains:
			return el.WaitForAttributeValueToNotContain(s.Attribute, value)
		case flow.MatchEquals, "":
			return el.WaitForAttributeValue(s.Attribute, value)
		}
		return core.ErrInvalidStep.WithMessage(fmt.Sprintf("unknown match %q", s.Match))
	})
}

func (fr *FlowRunner) assertText(s *flow.AssertTextStep) error {
	want, err := fr.expand(s.Text)
	if err != nil {
		return err
	}
	return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
		got, err := el.GetText()
		if err != nil {
			return err
		}
		if s.Contains && strings.Contains(got, want) || !s.Contains && got == want {
			return nil
		}
		return core.ErrTextMismatch.WithMessage(fmt.Sprintf("%s text is %q, want %q", el, got, want)).
			WithDetails(map[string]interface{}{"expected": want, "actual": got})
	})
}

func (fr *FlowRunner) assertAttribute(s *flow.AssertAttributeStep) error {
	want, err := fr.expand(s.Value)
	if err != nil {
		return err
	}
	return fr.withElement(s, &s.Selector, func(el *element.BaseElement) error {
		got, err := el.GetAttribute(s.Attribute)
		if err != nil {
			return err
		}
		if got != want {
			return core.ErrAttributeMismatch.WithMessage(fmt.Sprintf("%s %s is %q, want %q", el, s.Attribute, got, want)).
				WithDetails(map[string]interface{}{"attribute": s.Attribute, "expected": want, "actual": got})
		}
		return nil
	})
}

// executeScript runs the page script, passing the optional target element as
// arguments[0], and stores the result in s.Output.
func (fr *FlowRunner) executeScript(s *flow.ExecuteScriptStep) error {
	script, err := fr.expand(s.Script)
	if err != nil {
		return err
	}

	var args []interface{}
	if s.Element != nil {
		el, err := fr.element(s.Element, fr.stepTimeout(s))
		if err != nil {
			return err
		}
		we, err := el.Find()
		if err != nil {
			return err
		}
		args = append(args, we)
	}

	out, err := fr.browser.ExecuteScript(script, args...)
	if err != nil {
		return core.ErrScriptFailed.WithCause(err)
	}
	if s.Output != "" {
		fr.script.SetVariable(s.Output, out)
	}
	return nil
}
