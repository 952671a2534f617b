// internal/pointer/types.go
package pointer

import "errors"

// ErrNoTarget is returned when an operation has neither an explicit target nor
// a previously targeted element to fall back on.
var ErrNoTarget = errors.New("pointer: no target element and no previously targeted element")

// Element is an opaque handle to a DOM element owned by a backend.
// Handles must be comparable, and a backend must hand out the same handle
// for the same underlying node so that identity checks hold.
type Element interface{}

// Document identifies the document owning an element. Values must be comparable.
type Document interface{}

// Window identifies the window rendering a document. Values must be comparable.
type Window interface{}

// Unwrapper is implemented by host-side proxies around an Element.
type Unwrapper interface {
	Unwrap() Element
}

// Point is a coordinate pair in CSS pixels.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  float64
	Height float64
}

// Button mirrors the DOM MouseEvent.button values.
type Button int

const (
	ButtonNone   Button = -1
	ButtonLeft   Button = 0
	ButtonMiddle Button = 1
	ButtonRight  Button = 2
)

// Buttons returns the MouseEvent.buttons bitmask for a held button.
func (b Button) Buttons() int64 {
	switch b {
	case ButtonLeft:
		return 1
	case ButtonRight:
		return 2
	case ButtonMiddle:
		return 4
	default:
		return 0
	}
}

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// EventType is a DOM mouse event name.
type EventType string

const (
	EventMouseOut    EventType = "mouseout"
	EventMouseOver   EventType = "mouseover"
	EventMouseMove   EventType = "mousemove"
	EventMouseDown   EventType = "mousedown"
	EventMouseUp     EventType = "mouseup"
	EventClick       EventType = "click"
	EventDoubleClick EventType = "dblclick"
	EventContextMenu EventType = "contextmenu"
)

// EventInit carries the properties stamped on a single synthetic event.
// It is built fresh for every firing and never retained.
type EventInit struct {
	ClientX float64
	ClientY float64
	Button  Button
	// Related is the element being entered or left, nil when not applicable.
	Related Element
}

// Coordinates is the payload accepted by Press and Release. X and Y are
// relative to the element's client position.
type Coordinates struct {
	X       float64
	Y       float64
	Element Element
}

// StatusCode reports the outcome of a pointer operation using the legacy
// WebDriver wire status values.
type StatusCode int

const (
	StatusSuccess               StatusCode = 0
	StatusElementNotVisible     StatusCode = 11
	StatusMoveTargetOutOfBounds StatusCode = 34
)

func (s StatusCode) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusElementNotVisible:
		return "element not visible"
	case StatusMoveTargetOutOfBounds:
		return "move target out of bounds"
	default:
		return "unknown"
	}
}

// Result is returned by every public Controller operation.
type Result struct {
	Status  StatusCode `json:"status"`
	Message string     `json:"message"`
}

// OK reports whether the result is a success.
func (r Result) OK() bool { return r.Status == StatusSuccess }

func ok() Result {
	return Result{Status: StatusSuccess, Message: "ok"}
}
