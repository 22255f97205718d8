// Package element wraps a located browser element (or every element matched by one
// locator) and forwards find, click, attribute, text, scroll, clear and wait operations
// to the underlying driver.
//
// A BaseElement holds only its locator, an optional parent, an optional pinned index and
// wait settings. Nothing is
// cached: every call resolves the locator again, so an element never goes stale on the
// wrapper side. Driver errors are returned as they are.
package element

import (
	"fmt"
	"time"
)

// Default wait settings.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 500 * time.Millisecond
)

const (
	scrollIntoViewScript = "arguments[0].scrollIntoView(true);"
	setAttributeScript   = "arguments[0].setAttribute(arguments[1], arguments[2]);"
)

// BaseElement is a locator bound to a driver, optionally scoped to a parent element.
type BaseElement struct {
	driver   Driver
	locator  Locator
	parent   *BaseElement
	timeout  time.Duration
	interval time.Duration

	// pinned elements resolve to the match at index only.
	pinned bool
	index  int
}

// Option configures a BaseElement.
type Option func(*BaseElement)

// WithTimeout sets how long the wait family polls before giving up.
func WithTimeout(d time.Duration) Option {
	return func(e *BaseElement) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithInterval sets the polling interval of the wait family.
func WithInterval(d time.Duration) Option {
	return func(e *BaseElement) {
		if d > 0 {
			e.interval = d
		}
	}
}

// New creates an element resolved from the document root.
func New(driver Driver, locator Locator, opts ...Option) *BaseElement {
	e := &BaseElement{
		driver:   driver,
		locator:  locator,
		timeout:  DefaultTimeout,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewChild creates an element resolved inside parent. It inherits the parent's driver
// and wait settings unless opts override them.
func NewChild(parent *BaseElement, locator Locator, opts ...Option) *BaseElement {
	e := &BaseElement{
		driver:   parent.driver,
		locator:  locator,
		parent:   parent,
		timeout:  parent.timeout,
		interval: parent.interval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Child is shorthand for NewChild(e, locator, opts...).
func (e *BaseElement) Child(locator Locator, opts ...Option) *BaseElement {
	return NewChild(e, locator, opts...)
}

// Nth returns a copy bound to the match at index. Its Find resolves that match and its
// FindElements returns it alone, so every operation and wait acts on it. A match with
// too few elements fails with an *IndexError, which waits treat as "not yet".
func (e *BaseElement) Nth(index int) *BaseElement {
	c := *e
	c.pinned = true
	c.index = index
	return &c
}

// Locator returns the locator given at construction.
func (e *BaseElement) Locator() Locator {
	return e.locator
}

// Parent returns the parent element, or nil for root elements.
func (e *BaseElement) Parent() *BaseElement {
	return e.parent
}

// Timeout returns the wait timeout.
func (e *BaseElement) Timeout() time.Duration {
	return e.timeout
}

func (e *BaseElement) String() string {
	s := e.locator.String()
	if e.pinned {
		s = fmt.Sprintf("%s[%d]", s, e.index)
	}
	if e.parent != nil {
		return fmt.Sprintf("%s > %s", e.parent, s)
	}
	return s
}

// ============================================
// Finding
// ============================================

// Find resolves the first element matching the locator, or the pinned match.
func (e *BaseElement) Find() (WebElement, error) {
	if e.pinned {
		return e.pick(e.index)
	}
	if e.parent != nil {
		return e.parent.FindChild(e)
	}
	return e.driver.FindElement(e.locator.By, e.locator.Value)
}

// FindElements resolves every element matching the locator. A pinned element returns
// only its match.
func (e *BaseElement) FindElements() ([]WebElement, error) {
	if e.pinned {
		we, err := e.pick(e.index)
		if err != nil {
			return nil, err
		}
		return []WebElement{we}, nil
	}
	return e.matches()
}

func (e *BaseElement) matches() ([]WebElement, error) {
	if e.parent != nil {
		return e.parent.FindChildren(e)
	}
	return e.driver.FindElements(e.locator.By, e.locator.Value)
}

// FindChild resolves e, then the first match of child's locator inside it.
func (e *BaseElement) FindChild(child *BaseElement) (WebElement, error) {
	we, err := e.Find()
	if err != nil {
		return nil, err
	}
	return we.FindElement(child.locator.By, child.locator.Value)
}

// FindChildren resolves e, then every match of child's locator inside it.
func (e *BaseElement) FindChildren(child *BaseElement) ([]WebElement, error) {
	we, err := e.Find()
	if err != nil {
		return nil, err
	}
	return we.FindElements(child.locator.By, child.locator.Value)
}

// nth resolves FindElements and picks the one at index.
func (e *BaseElement) nth(index int) (WebElement, error) {
	elements, err := e.FindElements()
	if err != nil {
		return nil, err
	}
	return Pick(e.locator, elements, index)
}

// pick resolves every match of the locator, ignoring the pin, and picks index.
func (e *BaseElement) pick(index int) (WebElement, error) {
	elements, err := e.matches()
	if err != nil {
		return nil, err
	}
	return Pick(e.locator, elements, index)
}

// Pick returns elements[index], or an *IndexError for loc when index is out of range.
func Pick(loc Locator, elements []WebElement, index int) (WebElement, error) {
	if index < 0 || index >= len(elements) {
		return nil, &IndexError{Locator: loc, Index: index, Count: len(elements)}
	}
	return elements[index], nil
}

// ============================================
// Interaction
// ============================================

// Click clicks the first match, or the pinned one after Nth.
func (e *BaseElement) Click() error {
	return e.ClickNth(0)
}

// ClickNth clicks the match at index.
func (e *BaseElement) ClickNth(index int) error {
	we, err := e.nth(index)
	if err != nil {
		return err
	}
	return we.Click()
}

// ClickWhenClickable waits until the element is displayed and enabled, then clicks it.
func (e *BaseElement) ClickWhenClickable() error {
	if err := e.driver.Wait(e.clickable(), e.timeout, e.interval); err != nil {
		return err
	}
	return e.Click()
}

// Clear clears the first match, or the pinned one after Nth.
func (e *BaseElement) Clear() error {
	return e.ClearNth(0)
}

// ClearNth clears the match at index.
func (e *BaseElement) ClearNth(index int) error {
	we, err := e.nth(index)
	if err != nil {
		return err
	}
	return we.Clear()
}

// SendKeys types keys into the element.
func (e *BaseElement) SendKeys(keys string) error {
	we, err := e.Find()
	if err != nil {
		return err
	}
	return we.SendKeys(keys)
}

// ScrollTo scrolls the element into view with its top aligned to the viewport.
func (e *BaseElement) ScrollTo() error {
	we, err := e.Find()
	if err != nil {
		return err
	}
	_, err = e.driver.ExecuteScript(scrollIntoViewScript, we)
	return err
}

// ============================================
// Properties
// ============================================

// GetAttribute reads an attribute of the element.
func (e *BaseElement) GetAttribute(name string) (string, error) {
	we, err := e.Find()
	if err != nil {
		return "", err
	}
	return we.GetAttribute(name)
}

// SetAttribute writes an attribute of the element through an inline script.
func (e *BaseElement) SetAttribute(name, value string) error {
	we, err := e.Find()
	if err != nil {
		return err
	}
	_, err = e.driver.ExecuteScript(setAttributeScript, we, name, value)
	return err
}

// SetValue sets the value attribute.
func (e *BaseElement) SetValue(value string) error {
	return e.SetAttribute("value", value)
}

// GetText returns the visible text of the element.
func (e *BaseElement) GetText() (string, error) {
	we, err := e.Find()
	if err != nil {
		return "", err
	}
	return we.Text()
}

// IsDisplayed reports whether the first match, or the pinned one, is visible.
func (e *BaseElement) IsDisplayed() (bool, error) {
	return e.IsDisplayedNth(0)
}

// IsDisplayedNth reports whether the match at index is visible.
func (e *BaseElement) IsDisplayedNth(index int) (bool, error) {
	we, err := e.nth(index)
	if err != nil {
		return false, err
	}
	return we.IsDisplayed()
}
