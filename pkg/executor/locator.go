package executor

import (
	"time"

	"github.com/devicelab-dev/webelement/pkg/core"
	"github.com/devicelab-dev/webelement/pkg/element"
	"github.com/devicelab-dev/webelement/pkg/flow"
)

// strategies maps flow selector keys to WebDriver locator strategies.
var strategies = map[string]string{
	flow.StrategyCSS:             element.StrategyCSS,
	flow.StrategyXPath:           element.StrategyXPath,
	flow.StrategyID:              element.StrategyID,
	flow.StrategyName:            element.StrategyName,
	flow.StrategyLinkText:        element.StrategyLinkText,
	flow.StrategyPartialLinkText: element.StrategyPartialLinkText,
	flow.StrategyTagName:         element.StrategyTagName,
	flow.StrategyClassName:       element.StrategyClassName,
}

// locator converts a selector into a locator, expanding ${...} in its value.
func (fr *FlowRunner) locator(sel *flow.Selector) (element.Locator, error) {
	key, value, err := sel.Strategy()
	if err != nil {
		return element.Locator{}, core.ErrInvalidStep.WithCause(err)
	}
	by, ok := strategies[key]
	if !ok {
		return element.Locator{}, core.ErrInvalidStep.WithMessage("unknown selector strategy " + key)
	}
	value, err = fr.expand(value)
	if err != nil {
		return element.Locator{}, err
	}
	return element.Locator{By: by, Value: value}, nil
}

// element builds the BaseElement for sel, bound to match sel.Index when it is set. A
// childOf chain becomes a parent chain and each parent honors its own index.
func (fr *FlowRunner) element(sel *flow.Selector, timeout time.Duration) (*element.BaseElement, error) {
	loc, err := fr.locator(sel)
	if err != nil {
		return nil, err
	}
	opts := []element.Option{
		element.WithTimeout(timeout),
		element.WithInterval(fr.config.Interval),
	}
	var el *element.BaseElement
	if sel.ChildOf == nil {
		el = element.New(fr.browser, loc, opts...)
	} else {
		parent, err := fr.element(sel.ChildOf, timeout)
		if err != nil {
			return nil, err
		}
		el = parent.Child(loc, opts...)
	}
	if sel.Index > 0 {
		el = el.Nth(sel.Index)
	}
	return el, nil
}
