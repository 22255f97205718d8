// Package webdriver adapts github.com/tebeka/selenium to the element.Driver contract.
// The WebDriver wire protocol, session handling and element serialization are owned by
// the selenium library; this package only converts between the two interfaces.
package webdriver

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"

	"github.com/devicelab-dev/webelement/pkg/element"
	"github.com/devicelab-dev/webelement/pkg/logger"
)

// DefaultURL is the Selenium server used when Options.URL is empty.
const DefaultURL = "http://localhost:4444/wd/hub"

// Options configures a new remote session.
type Options struct {
	URL          string
	Browser      string // chrome, firefox, MicrosoftEdge, ...
	Headless     bool
	ImplicitWait time.Duration
	// Capabilities are merged over the generated ones.
	Capabilities map[string]interface{}
}

// Driver implements element.Driver on top of a selenium.WebDriver session.
type Driver struct {
	wd selenium.WebDriver
}

// New wraps an existing session.
func New(wd selenium.WebDriver) *Driver {
	return &Driver{wd: wd}
}

// Connect opens a remote session on the Selenium server.
func Connect(opts Options) (*Driver, error) {
	url := opts.URL
	if url == "" {
		url = DefaultURL
	}
	caps := Capabilities(opts)

	logger.Info("Opening %s session on %s", caps["browserName"], url)
	wd, err := selenium.NewRemote(caps, url)
	if err != nil {
		return nil, errors.Wrapf(err, "new remote session at %s", url)
	}

	if opts.ImplicitWait > 0 {
		if err := wd.SetImplicitWaitTimeout(opts.ImplicitWait); err != nil {
			_ = wd.Quit()
			return nil, errors.Wrap(err, "set implicit wait")
		}
	}
	return New(wd), nil
}

// Capabilities builds the session capabilities for opts.
func Capabilities(opts Options) selenium.Capabilities {
	browser := opts.Browser
	if browser == "" {
		browser = "chrome"
	}
	caps := selenium.Capabilities{"browserName": browser}

	switch strings.ToLower(browser) {
	case "chrome", "chromium":
		var args []string
		if opts.Headless {
			args = append(args, "--headless=new", "--disable-gpu")
		}
		caps.AddChrome(chrome.Capabilities{Args: args})
	case "firefox":
		var args []string
		if opts.Headless {
			args = append(args, "-headless")
		}
		caps.AddFirefox(firefox.Capabilities{Args: args})
	}

	for k, v := range opts.Capabilities {
		caps[k] = v
	}
	return caps
}

// Session returns the underlying selenium session.
func (d *Driver) Session() selenium.WebDriver {
	return d.wd
}

// FindElement implements element.Driver.
func (d *Driver) FindElement(by, value string) (element.WebElement, error) {
	we, err := d.wd.FindElement(by, value)
	if err != nil {
		return nil, lookupErr(err)
	}
	return wrap(we), nil
}

// FindElements implements element.Driver.
func (d *Driver) FindElements(by, value string) ([]element.WebElement, error) {
	wes, err := d.wd.FindElements(by, value)
	if err != nil {
		return nil, lookupErr(err)
	}
	return wrapAll(wes), nil
}

// ExecuteScript implements element.Driver. Wrapped elements are passed to the browser
// as element references.
func (d *Driver) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	raw := make([]interface{}, len(args))
	for i, arg := range args {
		raw[i] = unwrap(arg)
	}
	return d.wd.ExecuteScript(script, raw)
}

// Wait implements element.Driver with selenium's polling loop.
// A condition error ends the wait as is; anything else selenium reports is a timeout.
func (d *Driver) Wait(cond element.Condition, timeout, interval time.Duration) error {
	var condErr error
	err := d.wd.WaitWithTimeoutAndInterval(func(selenium.WebDriver) (bool, error) {
		ok, err := cond()
		condErr = err
		return ok, err
	}, timeout, interval)
	if err == nil || condErr != nil {
		return err
	}
	return &timeoutError{err: err}
}

// Get navigates to url.
func (d *Driver) Get(url string) error {
	logger.Debug("Navigating to %s", url)
	return d.wd.Get(url)
}

// Quit ends the session.
func (d *Driver) Quit() error {
	return d.wd.Quit()
}
