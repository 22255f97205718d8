package webdriver

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"

	"github.com/devicelab-dev/webelement/pkg/element"
)

// noSuchElement is the WebDriver error code for a lookup with no match, in both the W3C
// and the legacy JSON wire replies.
const noSuchElement = "no such element"

// nilValue is what selenium reports when a string command answers null, e.g. reading
// an attribute the element does not have.
const nilValue = "nil return value"

// notFoundError keeps the driver error and matches element.ErrNoSuchElement.
type notFoundError struct {
	err error
}

func (e *notFoundError) Error() string        { return e.err.Error() }
func (e *notFoundError) Unwrap() error        { return e.err }
func (e *notFoundError) Is(target error) bool { return target == element.ErrNoSuchElement }

// timeoutError marks selenium's own wait timeout so it matches element.ErrWaitTimeout.
type timeoutError struct{ err error }

func (e *timeoutError) Error() string { return e.err.Error() }

func (e *timeoutError) Unwrap() error { return e.err }

func (e *timeoutError) Is(target error) bool { return target == element.ErrWaitTimeout }

// lookupErr marks "no such element" replies so waits can tell them from other failures.
func lookupErr(err error) error {
	var se *selenium.Error
	if errors.As(err, &se) && se.Err == noSuchElement {
		return &notFoundError{err: err}
	}
	if strings.HasPrefix(err.Error(), noSuchElement) {
		return &notFoundError{err: err}
	}
	return err
}
