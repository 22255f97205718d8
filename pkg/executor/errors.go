package executor

import (
	"errors"
	"strings"

	"github.com/devicelab-dev/webelement/pkg/core"
	"github.com/devicelab-dev/webelement/pkg/element"
)

// classify maps a step error to a categorized ExecutionError. Errors that already are
// ExecutionErrors pass through.
func classify(err error) *core.ExecutionError {
	var execErr *core.ExecutionError
	if errors.As(err, &execErr) {
		return execErr
	}

	switch {
	case errors.Is(err, element.ErrIndexOutOfRange):
		return core.ErrIndexOutOfRange.WithCause(err)
	case errors.Is(err, element.ErrNoSuchElement):
		return core.ErrElementNotFound.WithCause(err)
	case errors.Is(err, element.ErrWaitTimeout):
		return core.ErrWaitTimeout.WithCause(err)
	}

	// Errors from outside the drivers' lookups and waits carry only a message.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such element"), strings.Contains(msg, "unable to locate element"):
		return core.ErrElementNotFound.WithCause(err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return core.ErrWaitTimeout.WithCause(err)
	case strings.Contains(msg, "javascript error"):
		return core.ErrScriptFailed.WithCause(err)
	}
	return core.ErrSessionFailed.WithCause(err)
}
