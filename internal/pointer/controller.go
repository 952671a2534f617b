// internal/pointer/controller.go
package pointer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller synthesizes mouse input against the elements of one browsing
// context. It remembers the element it last addressed and the button held
// down, so a sequence of calls composes like a real pointer would.
//
// A Controller is not safe for concurrent use. Callers serialize access,
// normally by issuing one driver command at a time.
type Controller struct {
	id     string
	page   Page
	logger *zap.Logger

	last   Element
	button Button
}

// New creates a Controller backed by page.
func New(page Page, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New().String()
	return &Controller{
		id:     id,
		page:   page,
		logger: logger.Named("pointer").With(zap.String("controller_id", id)),
		button: ButtonNone,
	}
}

// ID returns the controller's unique identifier.
func (c *Controller) ID() string { return c.id }

// LastElement returns the element most recently targeted, or nil.
func (c *Controller) LastElement() Element { return c.last }

// ActiveButton returns the button currently held down.
func (c *Controller) ActiveButton() Button { return c.button }

// resolve picks the explicit target when given, else the last targeted element.
func (c *Controller) resolve(target Element) (Element, error) {
	if target != nil {
		if w, ok := target.(Unwrapper); ok {
			if inner := w.Unwrap(); inner != nil {
				return inner, nil
			}
		}
		return target, nil
	}
	if c.last == nil {
		return nil, ErrNoTarget
	}
	return c.last, nil
}

// Press holds the left button down over the resolved element. The event is
// fired at coords offset from the element's client position.
func (c *Controller) Press(ctx context.Context, coords Coordinates) (Result, error) {
	el, err := c.resolve(coords.Element)
	if err != nil {
		return Result{}, err
	}

	pos, err := c.page.ClientPosition(ctx, el)
	if err != nil {
		return Result{}, fmt.Errorf("pointer: press: client position: %w", err)
	}

	// Only the left button is modeled.
	c.button = ButtonLeft
	init := EventInit{
		ClientX: coords.X + pos.X,
		ClientY: coords.Y + pos.Y,
		Button:  ButtonLeft,
	}
	if _, err := c.page.Fire(ctx, el, EventMouseDown, init); err != nil {
		c.button = ButtonNone
		return Result{}, fmt.Errorf("pointer: press: %w", err)
	}

	c.logger.Debug("Pressed button.",
		zap.Stringer("button", ButtonLeft),
		zap.Float64("x", init.ClientX),
		zap.Float64("y", init.ClientY))
	return ok(), nil
}

// Release lets go of the held button over the resolved element. A move is
// fired at the release point first since some pages end drags on it.
func (c *Controller) Release(ctx context.Context, coords Coordinates) (Result, error) {
	el, err := c.resolve(coords.Element)
	if err != nil {
		return Result{}, err
	}

	pos, err := c.page.ClientPosition(ctx, el)
	if err != nil {
		return Result{}, fmt.Errorf("pointer: release: client position: %w", err)
	}

	held := c.button
	init := EventInit{
		ClientX: coords.X + pos.X,
		ClientY: coords.Y + pos.Y,
		Button:  held,
	}
	defer func() { c.button = ButtonNone }()

	if _, err := c.page.Fire(ctx, el, EventMouseMove, init); err != nil {
		return Result{}, fmt.Errorf("pointer: release: %w", err)
	}
	if _, err := c.page.Fire(ctx, el, EventMouseUp, init); err != nil {
		return Result{}, fmt.Errorf("pointer: release: %w", err)
	}

	c.logger.Debug("Released button.",
		zap.Stringer("button", held),
		zap.Float64("x", init.ClientX),
		zap.Float64("y", init.ClientY))
	return ok(), nil
}

// fire dispatches on el, treating a missing element as an interrupted chain.
func (c *Controller) fire(ctx context.Context, el Element, typ EventType, init EventInit) (bool, error) {
	if el == nil {
		return false, nil
	}
	proceed, err := c.page.Fire(ctx, el, typ, init)
	if err != nil {
		return false, fmt.Errorf("pointer: fire %s: %w", typ, err)
	}
	return proceed, nil
}
