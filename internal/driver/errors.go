// internal/driver/errors.go
package driver

import (
	"errors"

	"github.com/xkilldash9x/synthmouse/internal/pointer"
)

// Status is a legacy WebDriver wire status code.
type Status int

const (
	StatusSuccess               Status = 0
	StatusNoSuchElement         Status = 7
	StatusUnknownCommand        Status = 9
	StatusStaleElementReference Status = 10
	StatusElementNotVisible     Status = 11
	StatusUnknownError          Status = 13
	StatusInvalidSelector       Status = 32
	StatusMoveTargetOutOfBounds Status = 34
)

var (
	// ErrNoSuchElement is returned when a locator matches nothing.
	ErrNoSuchElement = errors.New("driver: no such element")
	// ErrStaleElement is returned for an element id the driver never issued
	// or has since forgotten.
	ErrStaleElement = errors.New("driver: stale element reference")
	// ErrUnknownCommand is returned for a command without a handler.
	ErrUnknownCommand = errors.New("driver: unknown command")
	// ErrInvalidSelector is returned for an unsupported locator strategy or
	// a selector the backend rejects.
	ErrInvalidSelector = errors.New("driver: invalid selector")
	// ErrInvalidArgument is returned when command parameters cannot be decoded.
	ErrInvalidArgument = errors.New("driver: invalid argument")
)

// statusOf maps a handler error onto a wire status.
func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrNoSuchElement):
		return StatusNoSuchElement
	case errors.Is(err, ErrUnknownCommand):
		return StatusUnknownCommand
	case errors.Is(err, ErrStaleElement):
		return StatusStaleElementReference
	case errors.Is(err, ErrInvalidSelector):
		return StatusInvalidSelector
	default:
		return StatusUnknownError
	}
}

// statusOfResult carries a controller outcome onto the wire.
func statusOfResult(res pointer.Result) Status {
	switch res.Status {
	case pointer.StatusElementNotVisible:
		return StatusElementNotVisible
	case pointer.StatusMoveTargetOutOfBounds:
		return StatusMoveTargetOutOfBounds
	case pointer.StatusSuccess:
		return StatusSuccess
	default:
		return StatusUnknownError
	}
}
