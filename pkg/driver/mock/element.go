package mock

import (
	"sync"

	"github.com/devicelab-dev/webelement/pkg/element"
)

// Element is a fake element.WebElement. Every method call is recorded on the owning
// Driver with an "Element." prefix.
type Element struct {
	ID        string
	Content   string
	Attrs     map[string]string
	Displayed bool
	Enabled   bool
	Children  map[element.Locator][]*Element

	// Err, when set, is returned by every action and read.
	Err error

	mu       sync.Mutex
	driver   *Driver
	clicks   int
	clears   int
	keys     []string
	scrolled int
}

// NewElement creates a displayed, enabled element.
func NewElement(id string) *Element {
	return &Element{
		ID:        id,
		Attrs:     make(map[string]string),
		Displayed: true,
		Enabled:   true,
		Children:  make(map[element.Locator][]*Element),
	}
}

// WithText sets the element text.
func (e *Element) WithText(text string) *Element {
	e.Content = text
	return e
}

// WithAttr sets an attribute.
func (e *Element) WithAttr(name, value string) *Element {
	e.SetAttr(name, value)
	return e
}

// Hidden marks the element as not displayed.
func (e *Element) Hidden() *Element {
	e.Displayed = false
	return e
}

// Disabled marks the element as not enabled.
func (e *Element) Disabled() *Element {
	e.Enabled = false
	return e
}

// AddChild registers children under a locator relative to e.
func (e *Element) AddChild(loc element.Locator, children ...*Element) *Element {
	e.mu.Lock()
	if e.Children == nil {
		e.Children = make(map[element.Locator][]*Element)
	}
	e.Children[loc] = append(e.Children[loc], children...)
	d := e.driver
	e.mu.Unlock()
	for _, c := range children {
		c.setDriver(d)
	}
	return e
}

// SetAttr updates an attribute, as a page script would.
func (e *Element) SetAttr(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[name] = value
}

// SetText updates the element text.
func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Content = text
}

// SetDisplayed toggles visibility.
func (e *Element) SetDisplayed(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Displayed = v
}

// SetEnabled toggles the enabled state.
func (e *Element) SetEnabled(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Enabled = v
}

// Clicks returns how many times Click succeeded.
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// Clears returns how many times Clear succeeded.
func (e *Element) Clears() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clears
}

// Keys returns every SendKeys payload in order.
func (e *Element) Keys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.keys...)
}

// Scrolled returns how many times the element was scrolled into view.
func (e *Element) Scrolled() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scrolled
}

func (e *Element) setDriver(d *Driver) {
	e.mu.Lock()
	e.driver = d
	children := make([]*Element, 0)
	for _, cs := range e.Children {
		children = append(children, cs...)
	}
	e.mu.Unlock()
	for _, c := range children {
		c.setDriver(d)
	}
}

func (e *Element) record(method string, args ...interface{}) {
	e.mu.Lock()
	d := e.driver
	e.mu.Unlock()
	if d != nil {
		d.record("Element."+method, append([]interface{}{e.ID}, args...)...)
	}
}

// Click implements element.WebElement.
func (e *Element) Click() error {
	e.record("Click")
	if e.Err != nil {
		return e.Err
	}
	e.mu.Lock()
	e.clicks++
	e.mu.Unlock()
	return nil
}

// Clear empties the value attribute.
func (e *Element) Clear() error {
	e.record("Clear")
	if e.Err != nil {
		return e.Err
	}
	e.mu.Lock()
	e.clears++
	if e.Attrs != nil {
		e.Attrs["value"] = ""
	}
	e.mu.Unlock()
	return nil
}

// SendKeys appends keys to the value attribute.
func (e *Element) SendKeys(keys string) error {
	e.record("SendKeys", keys)
	if e.Err != nil {
		return e.Err
	}
	e.mu.Lock()
	e.keys = append(e.keys, keys)
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs["value"] += keys
	e.mu.Unlock()
	return nil
}

// Text returns Content.
func (e *Element) Text() (string, error) {
	e.record("Text")
	if e.Err != nil {
		return "", e.Err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Content, nil
}

// GetAttribute returns the attribute value, or "" when unset.
func (e *Element) GetAttribute(name string) (string, error) {
	e.record("GetAttribute", name)
	if e.Err != nil {
		return "", e.Err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Attrs[name], nil
}

// IsDisplayed implements element.WebElement.
func (e *Element) IsDisplayed() (bool, error) {
	e.record("IsDisplayed")
	if e.Err != nil {
		return false, e.Err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Displayed, nil
}

// IsEnabled implements element.WebElement.
func (e *Element) IsEnabled() (bool, error) {
	e.record("IsEnabled")
	if e.Err != nil {
		return false, e.Err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Enabled, nil
}

// FindElement returns the first child registered under (by, value).
func (e *Element) FindElement(by, value string) (element.WebElement, error) {
	e.record("FindElement", by, value)
	if e.Err != nil {
		return nil, e.Err
	}
	return first(e.children(by, value), by, value)
}

// FindElements returns every child registered under (by, value).
func (e *Element) FindElements(by, value string) ([]element.WebElement, error) {
	e.record("FindElements", by, value)
	if e.Err != nil {
		return nil, e.Err
	}
	return toWebElements(e.children(by, value)), nil
}

func (e *Element) children(by, value string) []*Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := element.Locator{By: by, Value: value}
	if len(e.Children[key]) == 0 && e.driver != nil && e.driver.AutoCreate {
		e.driver.mu.Lock()
		el := e.driver.newAutoElementLocked()
		e.driver.mu.Unlock()
		if e.Children == nil {
			e.Children = make(map[element.Locator][]*Element)
		}
		e.Children[key] = []*Element{el}
	}
	return append([]*Element(nil), e.Children[key]...)
}
