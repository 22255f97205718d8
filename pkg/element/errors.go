package element

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchElement is matched by driver lookup errors for a locator with no match.
	// Drivers wrap their own error so errors.Is finds it and the message is kept.
	ErrNoSuchElement = errors.New("no such element")

	// ErrWaitTimeout is matched by the error Driver.Wait returns when the condition never
	// held. An error returned by the condition itself does not match it.
	ErrWaitTimeout = errors.New("timeout waiting for condition")

	// ErrIndexOutOfRange is matched by *IndexError via errors.Is.
	ErrIndexOutOfRange = errors.New("element index out of range")
)

// pending reports whether a lookup error only means the element is not there yet.
func pending(err error) bool {
	return errors.Is(err, ErrNoSuchElement) || errors.Is(err, ErrIndexOutOfRange)
}

// IndexError reports an Nth-element action on a match that has fewer elements.
type IndexError struct {
	Locator Locator
	Index   int
	Count   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d with %d matches (%s)", ErrIndexOutOfRange, e.Index, e.Count, e.Locator)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
