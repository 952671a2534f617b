// internal/pointer/clickmodel.go
package pointer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const notVisibleMessage = "Element is not currently visible and so may not be interacted with"

// Click performs a full click gesture on target, or on the last targeted
// element when target is nil.
//
// Clicking an <option> inside a single-select list clicks the <select> first,
// since such lists do not forward clicks from an unopened option.
func (c *Controller) Click(ctx context.Context, target Element) (Result, error) {
	return c.gesture(ctx, target, "click", func(el Element) error {
		if err := c.openEnclosingSelect(ctx, el); err != nil {
			return err
		}
		return c.page.Click(ctx, el)
	})
}

// DoubleClick performs a full double-click gesture.
func (c *Controller) DoubleClick(ctx context.Context, target Element) (Result, error) {
	return c.gesture(ctx, target, "double click", func(el Element) error {
		return c.page.DoubleClick(ctx, el)
	})
}

// ContextClick performs a full right-click gesture.
func (c *Controller) ContextClick(ctx context.Context, target Element) (Result, error) {
	return c.gesture(ctx, target, "context click", func(el Element) error {
		return c.page.RightClick(ctx, el)
	})
}

// gesture resolves the target, checks that it is shown and runs perform.
func (c *Controller) gesture(ctx context.Context, target Element, name string, perform func(Element) error) (Result, error) {
	el, err := c.resolve(target)
	if err != nil {
		return Result{}, err
	}

	shown, err := c.page.IsShown(ctx, el, true)
	if err != nil {
		return Result{}, fmt.Errorf("pointer: %s: visibility: %w", name, err)
	}
	if !shown {
		c.logger.Debug("Refusing gesture on hidden element.", zap.String("gesture", name))
		return Result{Status: StatusElementNotVisible, Message: notVisibleMessage}, nil
	}

	c.logger.Debug("Performing gesture.", zap.String("gesture", name))
	if err := perform(el); err != nil {
		return Result{}, fmt.Errorf("pointer: %s: %w", name, err)
	}
	return ok(), nil
}

// openEnclosingSelect clicks the <select> owning an <option> when the list
// only allows a single selection.
func (c *Controller) openEnclosingSelect(ctx context.Context, el Element) error {
	tag, err := c.page.TagName(ctx, el)
	if err != nil {
		return fmt.Errorf("tag name: %w", err)
	}
	if tag != "option" {
		return nil
	}

	sel, err := c.enclosingSelect(ctx, el)
	if err != nil || sel == nil {
		return err
	}

	multiple, err := c.page.Multiple(ctx, sel)
	if err != nil {
		return fmt.Errorf("select multiple: %w", err)
	}
	if multiple {
		return nil
	}
	c.logger.Debug("Clicking enclosing select before option.")
	return c.page.Click(ctx, sel)
}

// enclosingSelect walks up from el to the nearest <select>, returning nil when
// there is none.
func (c *Controller) enclosingSelect(ctx context.Context, el Element) (Element, error) {
	for cur := el; ; {
		parent, err := c.page.Parent(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
		if parent == nil {
			return nil, nil
		}
		tag, err := c.page.TagName(ctx, parent)
		if err != nil {
			return nil, fmt.Errorf("tag name: %w", err)
		}
		if tag == "select" {
			return parent, nil
		}
		cur = parent
	}
}
