// internal/pointer/movement.go
package pointer

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"
)

// intermediateSteps is the number of mousemove events fired between the
// element's origin and the requested point.
const intermediateSteps = 3

// Move glides the pointer onto target and then to the point offset from the
// element's location. Offsets are given in document coordinates.
//
// Consecutive moves inside one document continue from the previously
// targeted element instead of restarting at each element's origin. Moves
// across documents start afresh.
func (c *Controller) Move(ctx context.Context, target Element, xOffset, yOffset float64) (Result, error) {
	el, err := c.resolve(target)
	if err != nil {
		return Result{}, err
	}

	if err := c.page.ScrollIntoView(ctx, el); err != nil {
		return Result{}, fmt.Errorf("pointer: move: scroll into view: %w", err)
	}

	doc, err := c.page.OwnerDocument(ctx, el)
	if err != nil {
		return Result{}, fmt.Errorf("pointer: move: owner document: %w", err)
	}

	// Events are viewport relative, offsets are not.
	scroll, err := c.page.ScrollOffset(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("pointer: move: scroll offset: %w", err)
	}
	xOffset -= scroll.X
	yOffset -= scroll.Y

	if c.last != nil && c.last != el {
		dx, dy, same, err := c.continuity(ctx, el, doc)
		if err != nil {
			return Result{}, err
		}
		if same {
			xOffset += dx
			yOffset += dy
		}
	}

	pos, err := c.page.Location(ctx, el)
	if err != nil {
		return Result{}, fmt.Errorf("pointer: move: location: %w", err)
	}
	win, err := c.page.OwnerWindow(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("pointer: move: owner window: %w", err)
	}
	if err := c.page.BindWindow(ctx, win); err != nil {
		return Result{}, fmt.Errorf("pointer: move: bind window: %w", err)
	}

	maxWidth, maxHeight, err := c.bounds(ctx, doc, win)
	if err != nil {
		return Result{}, err
	}

	targetX := pos.X + xOffset
	targetY := pos.Y + yOffset
	if targetX > maxWidth || targetY > maxHeight {
		c.logger.Debug("Move target out of bounds.",
			zap.Float64("target_x", targetX),
			zap.Float64("target_y", targetY),
			zap.Float64("max_width", maxWidth),
			zap.Float64("max_height", maxHeight))
		return Result{
			Status: StatusMoveTargetOutOfBounds,
			Message: fmt.Sprintf("Requested location (%s, %s) is outside the bounds of the document (%s, %s)",
				coord(targetX), coord(targetY), coord(maxWidth), coord(maxHeight)),
		}, nil
	}

	c.last = el

	// The parent is the element we pretend to leave.
	parent, err := c.page.Parent(ctx, el)
	if err != nil {
		return Result{}, fmt.Errorf("pointer: move: parent: %w", err)
	}

	return c.glide(ctx, el, parent, pos, xOffset, yOffset)
}

// coord formats a coordinate in plain decimal notation.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// continuity returns the offset between the previously targeted element and
// el, and whether both live in doc.
func (c *Controller) continuity(ctx context.Context, el Element, doc Document) (dx, dy float64, same bool, err error) {
	lastDoc, err := c.page.OwnerDocument(ctx, c.last)
	if err != nil {
		return 0, 0, false, fmt.Errorf("pointer: move: owner document of previous element: %w", err)
	}
	if lastDoc != doc {
		return 0, 0, false, nil
	}

	from, err := c.page.Location(ctx, c.last)
	if err != nil {
		return 0, 0, false, fmt.Errorf("pointer: move: location of previous element: %w", err)
	}
	to, err := c.page.Location(ctx, el)
	if err != nil {
		return 0, 0, false, fmt.Errorf("pointer: move: location: %w", err)
	}
	return to.X - from.X, to.Y - from.Y, true, nil
}

// bounds returns the largest reachable coordinates: the document size, or the
// viewport when the document is smaller than it.
func (c *Controller) bounds(ctx context.Context, doc Document, win Window) (maxWidth, maxHeight float64, err error) {
	viewport, err := c.page.ViewportSize(ctx, win)
	if err != nil {
		return 0, 0, fmt.Errorf("pointer: move: viewport size: %w", err)
	}
	docHeight, err := c.page.DocumentHeight(ctx, win)
	if err != nil {
		return 0, 0, fmt.Errorf("pointer: move: document height: %w", err)
	}
	docWidth, err := c.page.BodyWidth(ctx, doc)
	if err != nil {
		return 0, 0, fmt.Errorf("pointer: move: body width: %w", err)
	}
	return math.Max(docWidth, viewport.Width), math.Max(docHeight, viewport.Height), nil
}

// glide fires the out/over/move cadence for a move onto el.
func (c *Controller) glide(ctx context.Context, el, parent Element, pos Point, xOffset, yOffset float64) (Result, error) {
	init := EventInit{
		ClientX: pos.X,
		ClientY: pos.Y,
		Button:  c.button,
		Related: parent,
	}

	proceed, err := c.fire(ctx, parent, EventMouseOut, EventInit{Button: ButtonNone, Related: el})
	if err != nil {
		return Result{}, err
	}
	if proceed {
		if proceed, err = c.fire(ctx, el, EventMouseOver, init); err != nil {
			return Result{}, err
		}
	}

	// Steps truncate, the final move lands on the exact point.
	xInc := math.Floor(xOffset / intermediateSteps)
	yInc := math.Floor(yOffset / intermediateSteps)
	curX, curY := pos.X, pos.Y
	for i := 0; i < intermediateSteps && proceed; i++ {
		curX += xInc
		curY += yInc
		init.ClientX, init.ClientY = curX, curY
		if proceed, err = c.fire(ctx, el, EventMouseMove, init); err != nil {
			return Result{}, err
		}
	}

	init.ClientX = pos.X + xOffset
	init.ClientY = pos.Y + yOffset
	landed, err := c.fire(ctx, el, EventMouseMove, init)
	if err != nil {
		return Result{}, err
	}

	c.logger.Debug("Moved pointer.",
		zap.Float64("x", init.ClientX),
		zap.Float64("y", init.ClientY),
		zap.Stringer("button", init.Button),
		zap.Bool("interrupted", !proceed || !landed))

	if !proceed || !landed {
		return ok(), nil
	}

	shown, err := c.page.IsShown(ctx, el, true)
	if err != nil {
		return Result{}, fmt.Errorf("pointer: move: visibility: %w", err)
	}
	if !shown {
		return ok(), nil
	}

	if _, err := c.fire(ctx, el, EventMouseOver, init); err != nil {
		return Result{}, err
	}
	return ok(), nil
}
