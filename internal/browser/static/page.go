// internal/browser/static/page.go
package static

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/xkilldash9x/synthmouse/internal/pointer"
	"go.uber.org/zap"
)

// A Document is its own pointer.Document and pointer.Window.

// ScrollIntoView does nothing for a detached element.
func (d *Document) ScrollIntoView(_ context.Context, target pointer.Element) error {
	el, err := d.element(target)
	if err != nil || !d.Connected(el) {
		return err
	}
	b := d.boxOf(el)
	docW, docH := d.pageSize()

	d.scroll.X = scrollAxis(d.scroll.X, b.x, b.width, d.viewport.Width, docW)
	d.scroll.Y = scrollAxis(d.scroll.Y, b.y, b.height, d.viewport.Height, docH)
	return nil
}

// scrollAxis keeps the current offset when the span already fits, otherwise
// aligns the span's start with the viewport edge within the scrollable range.
func scrollAxis(current, start, length, viewport, extent float64) float64 {
	if start >= current && start+length <= current+viewport {
		return current
	}
	return math.Max(0, math.Min(start, extent-viewport))
}

// Location lays out detached elements as if they were roots.
func (d *Document) Location(_ context.Context, target pointer.Element) (pointer.Point, error) {
	el, err := d.element(target)
	if err != nil {
		return pointer.Point{}, err
	}
	b := d.boxOf(el)
	return pointer.Point{X: b.x, Y: b.y}, nil
}

func (d *Document) ClientPosition(ctx context.Context, target pointer.Element) (pointer.Point, error) {
	loc, err := d.Location(ctx, target)
	if err != nil {
		return pointer.Point{}, err
	}
	return pointer.Point{X: loc.X - d.scroll.X, Y: loc.Y - d.scroll.Y}, nil
}

func (d *Document) OwnerDocument(_ context.Context, target pointer.Element) (pointer.Document, error) {
	if _, err := d.element(target); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) ScrollOffset(_ context.Context, _ pointer.Document) (pointer.Point, error) {
	return d.scroll, nil
}

func (d *Document) OwnerWindow(_ context.Context, _ pointer.Document) (pointer.Window, error) {
	return d, nil
}

func (d *Document) BindWindow(_ context.Context, win pointer.Window) error {
	if win != pointer.Window(d) {
		return errors.New("static: cannot bind a foreign window")
	}
	d.bound = win
	return nil
}

// BoundWindow returns the window recorded by the last BindWindow, or nil.
func (d *Document) BoundWindow() pointer.Window { return d.bound }

func (d *Document) ViewportSize(_ context.Context, _ pointer.Window) (pointer.Size, error) {
	return d.viewport, nil
}

// DocumentHeight is the body's declared height, or the extent of the layout.
func (d *Document) DocumentHeight(_ context.Context, _ pointer.Window) (float64, error) {
	_, h := d.pageSize()
	return h, nil
}

// BodyWidth is the body's declared width, or the extent of the layout.
func (d *Document) BodyWidth(_ context.Context, _ pointer.Document) (float64, error) {
	w, _ := d.pageSize()
	return w, nil
}

// pageSize is the scrollable size of the page. A size declared on the body
// wins over the extent of the layout.
func (d *Document) pageSize() (width, height float64) {
	width, height = d.documentExtent()
	if body := d.body(); body != nil {
		style := d.styleOf(d.wrap(body))
		if w, ok := pixelValue(style["width"]); ok {
			width = w
		}
		if h, ok := pixelValue(style["height"]); ok {
			height = h
		}
	}
	return width, height
}

func (d *Document) Parent(_ context.Context, target pointer.Element) (pointer.Element, error) {
	el, err := d.element(target)
	if err != nil {
		return nil, err
	}
	p := d.elementParent(el.node)
	if p == nil {
		return nil, nil
	}
	return d.wrap(p), nil
}

func (d *Document) TagName(_ context.Context, target pointer.Element) (string, error) {
	el, err := d.element(target)
	if err != nil {
		return "", err
	}
	return el.Tag(), nil
}

func (d *Document) Multiple(_ context.Context, target pointer.Element) (bool, error) {
	el, err := d.element(target)
	if err != nil {
		return false, err
	}
	return el.Tag() == "select" && hasAttr(el.node, "multiple"), nil
}

// IsShown applies the rendering rules: the element must be connected, carry
// no hidden attribute, have no display:none or opacity 0 on itself or an
// ancestor, resolve visibility to visible, and have a non-empty box.
func (d *Document) IsShown(_ context.Context, target pointer.Element, ignoreOpacity bool) (bool, error) {
	el, err := d.element(target)
	if err != nil {
		return false, err
	}
	if !d.Connected(el) {
		return false, nil
	}
	if el.Tag() == "input" && strings.EqualFold(el.Attr("type"), "hidden") {
		return false, nil
	}

	visibility := ""
	for n := el.node; n != nil; n = d.elementParent(n) {
		style := d.styleOf(d.wrap(n))
		if hasAttr(n, "hidden") || style["display"] == "none" {
			return false, nil
		}
		if visibility == "" {
			visibility = style["visibility"]
		}
		if !ignoreOpacity {
			if op, err := strconv.ParseFloat(style["opacity"], 64); err == nil && op <= 0 {
				return false, nil
			}
		}
	}
	if visibility == "hidden" || visibility == "collapse" {
		return false, nil
	}

	b := d.boxOf(el)
	if b.width <= 0 || b.height <= 0 {
		d.logger.Debug("Element has an empty box.", zap.Stringer("element", el))
		return false, nil
	}
	return true, nil
}
