// Package mock provides an in-memory browser for testing element operations without a
// WebDriver server.
package mock

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/devicelab-dev/webelement/pkg/element"
)

// Errors returned by the mock browser.
var (
	ErrNoSuchElement = element.ErrNoSuchElement
	ErrWaitTimeout   = element.ErrWaitTimeout
)

// Call is one recorded driver or element invocation.
type Call struct {
	Method string
	Args   []interface{}
}

// Script is one recorded ExecuteScript invocation.
type Script struct {
	Source string
	Args   []interface{}
}

// Driver is a fake element.Driver backed by a map of locators to elements.
type Driver struct {
	// Elements resolved from the document root.
	Elements map[element.Locator][]*Element

	// FindErr, when set, is returned by every root lookup.
	FindErr error
	// ScriptErr, when set, is returned by ExecuteScript.
	ScriptErr error
	// ScriptResult is returned by ExecuteScript on success.
	ScriptResult interface{}
	// WaitErr, when set, is returned by Wait without polling.
	WaitErr error
	// OnPoll runs before each condition evaluation with the 1-based poll number.
	OnPoll func(n int)
	// Sleep makes Wait sleep for the interval between polls.
	Sleep bool
	// AutoCreate resolves any unregistered locator, at the root or under an element,
	// to a single fresh displayed element. Used for dry runs.
	AutoCreate bool

	mu      sync.Mutex
	calls   []Call
	scripts []Script
	urls    []string
	polls   int
	closed  bool
	autoIDs int
}

// New creates an empty mock browser.
func New() *Driver {
	return &Driver{Elements: make(map[element.Locator][]*Element)}
}

// Add registers elements under a root locator and returns the driver for chaining.
func (d *Driver) Add(loc element.Locator, elements ...*Element) *Driver {
	if d.Elements == nil {
		d.Elements = make(map[element.Locator][]*Element)
	}
	for _, el := range elements {
		el.setDriver(d)
	}
	d.Elements[loc] = append(d.Elements[loc], elements...)
	return d
}

// Remove drops every element registered under loc.
func (d *Driver) Remove(loc element.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.Elements, loc)
}

func (d *Driver) record(method string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Method: method, Args: args})
}

// Calls returns a copy of the recorded calls.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// CallCount returns how many times method was recorded.
func (d *Driver) CallCount(method string) int {
	n := 0
	for _, c := range d.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Scripts returns the recorded ExecuteScript invocations.
func (d *Driver) Scripts() []Script {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Script, len(d.scripts))
	copy(out, d.scripts)
	return out
}

// URLs returns every URL passed to Get.
func (d *Driver) URLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.urls...)
}

// Polls returns how many times Wait evaluated a condition.
func (d *Driver) Polls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.polls
}

// Closed reports whether Quit was called.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// FindElement returns the first element registered under (by, value).
func (d *Driver) FindElement(by, value string) (element.WebElement, error) {
	d.record("FindElement", by, value)
	if d.FindErr != nil {
		return nil, d.FindErr
	}
	return first(d.lookup(d.Elements, by, value), by, value)
}

// FindElements returns every element registered under (by, value). No match is an
// empty slice, not an error.
func (d *Driver) FindElements(by, value string) ([]element.WebElement, error) {
	d.record("FindElements", by, value)
	if d.FindErr != nil {
		return nil, d.FindErr
	}
	return toWebElements(d.lookup(d.Elements, by, value)), nil
}

// ExecuteScript records the script. setAttribute scripts update the target element so
// later reads observe the change.
func (d *Driver) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	d.record("ExecuteScript", append([]interface{}{script}, args...)...)
	d.mu.Lock()
	d.scripts = append(d.scripts, Script{Source: script, Args: args})
	d.mu.Unlock()
	if d.ScriptErr != nil {
		return nil, d.ScriptErr
	}
	if strings.Contains(script, "setAttribute(") && len(args) == 3 {
		el, ok := args[0].(*Element)
		name, nok := args[1].(string)
		value, vok := args[2].(string)
		if ok && nok && vok {
			el.SetAttr(name, value)
		}
	}
	if strings.Contains(script, "scrollIntoView") && len(args) > 0 {
		if el, ok := args[0].(*Element); ok {
			el.mu.Lock()
			el.scrolled++
			el.mu.Unlock()
		}
	}
	return d.ScriptResult, nil
}

// Wait polls cond without real delay unless Sleep is set. It gives up after
// timeout/interval polls (at least one).
func (d *Driver) Wait(cond element.Condition, timeout, interval time.Duration) error {
	d.record("Wait", timeout, interval)
	if d.WaitErr != nil {
		return d.WaitErr
	}
	attempts := 1
	if interval > 0 && timeout > interval {
		attempts = int(timeout / interval)
	}
	for i := 1; i <= attempts; i++ {
		d.mu.Lock()
		d.polls++
		d.mu.Unlock()
		if d.OnPoll != nil {
			d.OnPoll(i)
		}
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if d.Sleep && i < attempts {
			time.Sleep(interval)
		}
	}
	return fmt.Errorf("%w after %s", ErrWaitTimeout, timeout)
}

// Get records a navigation.
func (d *Driver) Get(url string) error {
	d.record("Get", url)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls = append(d.urls, url)
	return nil
}

// Quit marks the session closed.
func (d *Driver) Quit() error {
	d.record("Quit")
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *Driver) lookup(m map[element.Locator][]*Element, by, value string) []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := element.Locator{By: by, Value: value}
	if len(m[key]) == 0 && d.AutoCreate {
		m[key] = []*Element{d.newAutoElementLocked()}
	}
	return append([]*Element(nil), m[key]...)
}

// newAutoElementLocked must be called with d.mu held.
func (d *Driver) newAutoElementLocked() *Element {
	d.autoIDs++
	el := NewElement(fmt.Sprintf("auto-%d", d.autoIDs))
	el.driver = d
	return el
}

func first(elements []*Element, by, value string) (element.WebElement, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s=%s", ErrNoSuchElement, by, value)
	}
	return elements[0], nil
}

func toWebElements(elements []*Element) []element.WebElement {
	out := make([]element.WebElement, len(elements))
	for i, el := range elements {
		out[i] = el
	}
	return out
}
