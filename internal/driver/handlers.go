// internal/driver/handlers.go
package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/synthmouse/internal/pointer"
)

// Locator strategies accepted by findElement and findElements.
const (
	ByCSSSelector = "css selector"
	ByXPath       = "xpath"
	ByID          = "id"
	ByName        = "name"
	ByClassName   = "class name"
	ByTagName     = "tag name"
)

func (d *Driver) registerHandlers() {
	d.handlers["findElement"] = d.handleFindElement
	d.handlers["findElements"] = d.handleFindElements
	d.handlers["mouseMoveTo"] = d.handleMouseMoveTo
	d.handlers["mouseDown"] = d.handleMouseDown
	d.handlers["mouseUp"] = d.handleMouseUp
	d.handlers["click"] = d.gestureHandler(d.controller.Click)
	d.handlers["doubleClick"] = d.gestureHandler(d.controller.DoubleClick)
	d.handlers["contextClick"] = d.gestureHandler(d.controller.ContextClick)
}

type findParams struct {
	Using string `json:"using"`
	Value string `json:"value"`
}

func (d *Driver) handleFindElement(ctx context.Context, raw jsoniter.RawMessage) (interface{}, error) {
	var p findParams
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	found, err := d.locate(ctx, p.Using, p.Value)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrNoSuchElement, p.Using, p.Value)
	}
	return ElementRef{ID: d.register(found[0])}, nil
}

func (d *Driver) handleFindElements(ctx context.Context, raw jsoniter.RawMessage) (interface{}, error) {
	var p findParams
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	found, err := d.locate(ctx, p.Using, p.Value)
	if err != nil {
		return nil, err
	}
	refs := make([]ElementRef, 0, len(found))
	for _, el := range found {
		refs = append(refs, ElementRef{ID: d.register(el)})
	}
	return refs, nil
}

// locate normalizes the simple strategies onto CSS attribute selectors.
func (d *Driver) locate(ctx context.Context, using, value string) ([]pointer.Element, error) {
	var (
		found []pointer.Element
		err   error
	)
	switch using {
	case ByCSSSelector:
		found, err = d.backend.QueryCSS(ctx, value)
	case ByXPath:
		found, err = d.backend.QueryXPath(ctx, value)
	case ByID:
		found, err = d.backend.QueryCSS(ctx, "[id="+quoteCSS(value)+"]")
	case ByName:
		found, err = d.backend.QueryCSS(ctx, "[name="+quoteCSS(value)+"]")
	case ByClassName:
		if value == "" || strings.ContainsAny(value, " \t\r\n") {
			return nil, fmt.Errorf("%w: compound class names are not permitted: %q", ErrInvalidSelector, value)
		}
		found, err = d.backend.QueryCSS(ctx, "[class~="+quoteCSS(value)+"]")
	case ByTagName:
		if value == "" {
			return nil, fmt.Errorf("%w: empty tag name", ErrInvalidSelector)
		}
		found, err = d.backend.QueryCSS(ctx, value)
	default:
		return nil, fmt.Errorf("%w: unsupported locator strategy %q", ErrInvalidSelector, using)
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelector, err)
	}
	return found, err
}

func quoteCSS(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

type moveParams struct {
	Element string  `json:"element"`
	XOffset float64 `json:"xoffset"`
	YOffset float64 `json:"yoffset"`
}

func (d *Driver) handleMouseMoveTo(ctx context.Context, raw jsoniter.RawMessage) (interface{}, error) {
	var p moveParams
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	el, err := d.lookup(p.Element)
	if err != nil {
		return nil, err
	}
	return d.controller.Move(ctx, el, p.XOffset, p.YOffset)
}

type buttonParams struct {
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

func (d *Driver) coordinates(raw jsoniter.RawMessage) (pointer.Coordinates, error) {
	var p buttonParams
	if err := decode(raw, &p); err != nil {
		return pointer.Coordinates{}, err
	}
	el, err := d.lookup(p.Element)
	if err != nil {
		return pointer.Coordinates{}, err
	}
	return pointer.Coordinates{X: p.X, Y: p.Y, Element: el}, nil
}

func (d *Driver) handleMouseDown(ctx context.Context, raw jsoniter.RawMessage) (interface{}, error) {
	coords, err := d.coordinates(raw)
	if err != nil {
		return nil, err
	}
	return d.controller.Press(ctx, coords)
}

func (d *Driver) handleMouseUp(ctx context.Context, raw jsoniter.RawMessage) (interface{}, error) {
	coords, err := d.coordinates(raw)
	if err != nil {
		return nil, err
	}
	return d.controller.Release(ctx, coords)
}

type elementParams struct {
	Element string `json:"element"`
}

func (d *Driver) gestureHandler(gesture func(context.Context, pointer.Element) (pointer.Result, error)) handler {
	return func(ctx context.Context, raw jsoniter.RawMessage) (interface{}, error) {
		var p elementParams
		if err := decode(raw, &p); err != nil {
			return nil, err
		}
		el, err := d.lookup(p.Element)
		if err != nil {
			return nil, err
		}
		return gesture(ctx, el)
	}
}
