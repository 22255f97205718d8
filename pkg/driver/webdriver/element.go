package webdriver

import (
	"github.com/tebeka/selenium"

	"github.com/devicelab-dev/webelement/pkg/element"
)

// Element implements element.WebElement on a selenium.WebElement.
type Element struct {
	we selenium.WebElement
}

func wrap(we selenium.WebElement) *Element {
	return &Element{we: we}
}

func wrapAll(wes []selenium.WebElement) []element.WebElement {
	out := make([]element.WebElement, len(wes))
	for i, we := range wes {
		out[i] = wrap(we)
	}
	return out
}

func unwrap(arg interface{}) interface{} {
	if e, ok := arg.(*Element); ok {
		return e.we
	}
	return arg
}

// Raw returns the selenium element.
func (e *Element) Raw() selenium.WebElement { return e.we }

func (e *Element) Click() error               { return e.we.Click() }
func (e *Element) Clear() error               { return e.we.Clear() }
func (e *Element) SendKeys(keys string) error { return e.we.SendKeys(keys) }
func (e *Element) Text() (string, error)      { return e.we.Text() }
func (e *Element) IsDisplayed() (bool, error) { return e.we.IsDisplayed() }
func (e *Element) IsEnabled() (bool, error)   { return e.we.IsEnabled() }

// GetAttribute reads an attribute. An absent attribute reads as "".
func (e *Element) GetAttribute(name string) (string, error) {
	v, err := e.we.GetAttribute(name)
	if err != nil && err.Error() == nilValue {
		return "", nil
	}
	return v, err
}

func (e *Element) FindElement(by, value string) (element.WebElement, error) {
	we, err := e.we.FindElement(by, value)
	if err != nil {
		return nil, lookupErr(err)
	}
	return wrap(we), nil
}

func (e *Element) FindElements(by, value string) ([]element.WebElement, error) {
	wes, err := e.we.FindElements(by, value)
	if err != nil {
		return nil, lookupErr(err)
	}
	return wrapAll(wes), nil
}
