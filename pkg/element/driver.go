package element

import "time"

// Condition is polled by Driver.Wait until it returns true or an error.
type Condition func() (bool, error)

// Driver is the subset of a browser automation driver the element wrapper delegates to.
// Implementations: webdriver (remote WebDriver), mock.
//
// FindElement with no match returns an error matching ErrNoSuchElement. FindElements
// with no match returns an empty slice.
type Driver interface {
	FindElement(by, value string) (WebElement, error)
	FindElements(by, value string) ([]WebElement, error)

	// ExecuteScript runs script in the page. WebElement arguments are passed as
	// element references and are available as arguments[i].
	ExecuteScript(script string, args ...interface{}) (interface{}, error)

	// Wait polls cond every interval until it returns true, returns an error, or
	// timeout elapses.
	Wait(cond Condition, timeout, interval time.Duration) error
}

// WebElement is a single element resolved by the driver. GetAttribute on an absent
// attribute returns "" and no error.
type WebElement interface {
	Click() error
	Clear() error
	SendKeys(keys string) error
	Text() (string, error)
	GetAttribute(name string) (string, error)
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	FindElement(by, value string) (WebElement, error)
	FindElements(by, value string) ([]WebElement, error)
}
