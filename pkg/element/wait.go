package element

import "strings"

// Inside a condition a lookup that matched nothing (ErrNoSuchElement) or too few
// elements (ErrIndexOutOfRange) means "not yet": the driver keeps polling and reports
// its own timeout. Any other driver error ends the wait and is returned as is.

// WaitFor waits until the element is located.
func (e *BaseElement) WaitFor() error {
	return e.wait(e.located())
}

// WaitForVisible waits until the element is located and displayed.
func (e *BaseElement) WaitForVisible() error {
	return e.wait(e.visible())
}

// WaitForAttributeToExist waits until the attribute has a non-empty value.
func (e *BaseElement) WaitForAttributeToExist(name string) error {
	return e.wait(e.attribute(name, func(v string) bool { return v != "" }))
}

// WaitForElementCount waits until exactly count elements match the locator.
func (e *BaseElement) WaitForElementCount(count int) error {
	return e.wait(func() (bool, error) {
		elements, err := e.FindElements()
		if err != nil {
			return false, ignorePending(err)
		}
		return len(elements) == count, nil
	})
}

// WaitForAttributeValue waits until the attribute equals value.
func (e *BaseElement) WaitForAttributeValue(name, value string) error {
	return e.wait(e.attribute(name, func(v string) bool { return v == value }))
}

// WaitForAttributeValueToContain waits until the attribute contains substr.
func (e *BaseElement) WaitForAttributeValueToContain(name, substr string) error {
	return e.wait(e.attribute(name, func(v string) bool { return strings.Contains(v, substr) }))
}

// WaitForAttributeValueToNotContain waits until the attribute no longer contains substr.
func (e *BaseElement) WaitForAttributeValueToNotContain(name, substr string) error {
	return e.wait(e.attribute(name, func(v string) bool { return !strings.Contains(v, substr) }))
}

func (e *BaseElement) wait(cond Condition) error {
	return e.driver.Wait(cond, e.timeout, e.interval)
}

func (e *BaseElement) located() Condition {
	return func() (bool, error) {
		_, err := e.Find()
		if err != nil {
			return false, ignorePending(err)
		}
		return true, nil
	}
}

func (e *BaseElement) visible() Condition {
	return func() (bool, error) {
		we, err := e.Find()
		if err != nil {
			return false, ignorePending(err)
		}
		return we.IsDisplayed()
	}
}

func (e *BaseElement) clickable() Condition {
	return func() (bool, error) {
		we, err := e.Find()
		if err != nil {
			return false, ignorePending(err)
		}
		displayed, err := we.IsDisplayed()
		if err != nil || !displayed {
			return false, err
		}
		return we.IsEnabled()
	}
}

func (e *BaseElement) attribute(name string, match func(string) bool) Condition {
	return func() (bool, error) {
		we, err := e.Find()
		if err != nil {
			return false, ignorePending(err)
		}
		v, err := we.GetAttribute(name)
		if err != nil {
			return false, err
		}
		return match(v), nil
	}
}

func ignorePending(err error) error {
	if pending(err) {
		return nil
	}
	return err
}
