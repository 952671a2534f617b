// internal/browser/static/events.go
package static

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/synthmouse/internal/pointer"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Event is one dispatched synthetic mouse event.
type Event struct {
	Type    pointer.EventType
	Target  *Element
	ClientX float64
	ClientY float64
	Button  pointer.Button
	Buttons int64
	Related *Element
}

func (e Event) String() string {
	s := fmt.Sprintf("%s %s (%g, %g)", e.Type, e.Target, e.ClientX, e.ClientY)
	if e.Button != pointer.ButtonNone {
		s += " button=" + e.Button.String()
	}
	if e.Related != nil {
		s += " related=" + e.Related.String()
	}
	return s
}

// Listener observes an event. Returning false interrupts the gesture that
// produced it. Listeners may mutate the document.
type Listener func(Event) bool

// On registers a listener for an event type on target and its descendants.
// A nil target listens on the whole document. Listeners run in registration order.
func (d *Document) On(typ pointer.EventType, target *Element, l Listener) {
	d.listeners[typ] = append(d.listeners[typ], func(ev Event) bool {
		if target == nil || d.contains(target, ev.Target) {
			return l(ev)
		}
		return true
	})
}

// Events returns a copy of the event log.
func (d *Document) Events() []Event {
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// ResetEvents clears the event log.
func (d *Document) ResetEvents() { d.events = nil }

// Fire dispatches an event. It reports false when the target is missing or
// detached, or when a listener interrupted the gesture.
func (d *Document) Fire(_ context.Context, target pointer.Element, typ pointer.EventType, init pointer.EventInit) (bool, error) {
	if target == nil {
		return false, nil
	}
	el, err := d.element(target)
	if err != nil {
		return false, err
	}
	if !d.Connected(el) {
		return false, nil
	}

	ev := Event{
		Type:    typ,
		Target:  el,
		ClientX: init.ClientX,
		ClientY: init.ClientY,
		Button:  init.Button,
		Buttons: init.Button.Buttons(),
	}
	if init.Related != nil {
		if rel, ok := init.Related.(*Element); ok {
			ev.Related = rel
		}
	}
	return d.dispatch(ev), nil
}

func (d *Document) dispatch(ev Event) bool {
	d.events = append(d.events, ev)
	d.logger.Debug("Dispatched event.",
		zap.String("type", string(ev.Type)),
		zap.Stringer("target", ev.Target),
		zap.Float64("client_x", ev.ClientX),
		zap.Float64("client_y", ev.ClientY))

	proceed := true
	for _, l := range d.listeners[ev.Type] {
		if !l(ev) {
			proceed = false
		}
	}
	return proceed && d.Connected(ev.Target)
}

// contains reports whether el is ancestor or self of n.
func (d *Document) contains(el, n *Element) bool {
	for cur := n.node; cur != nil; cur = cur.Parent {
		if cur == el.node {
			return true
		}
	}
	return false
}

// Click fires mousedown, mouseup and click at the element's center.
func (d *Document) Click(ctx context.Context, target pointer.Element) error {
	return d.gesture(ctx, target, pointer.ButtonLeft,
		pointer.EventMouseDown, pointer.EventMouseUp, pointer.EventClick)
}

// DoubleClick fires two clicks followed by dblclick.
func (d *Document) DoubleClick(ctx context.Context, target pointer.Element) error {
	return d.gesture(ctx, target, pointer.ButtonLeft,
		pointer.EventMouseDown, pointer.EventMouseUp, pointer.EventClick,
		pointer.EventMouseDown, pointer.EventMouseUp, pointer.EventClick,
		pointer.EventDoubleClick)
}

// RightClick fires mousedown, mouseup and contextmenu with the right button.
func (d *Document) RightClick(ctx context.Context, target pointer.Element) error {
	return d.gesture(ctx, target, pointer.ButtonRight,
		pointer.EventMouseDown, pointer.EventMouseUp, pointer.EventContextMenu)
}

func (d *Document) gesture(ctx context.Context, target pointer.Element, button pointer.Button, sequence ...pointer.EventType) error {
	el, err := d.element(target)
	if err != nil {
		return err
	}
	pos, err := d.ClientPosition(ctx, el)
	if err != nil {
		return err
	}
	b := d.boxOf(el)
	x, y := pos.X+b.width/2, pos.Y+b.height/2

	d.logger.Debug("Performing gesture.", zap.Stringer("element", el), zap.Int("events", len(sequence)))
	for _, typ := range sequence {
		if !d.Connected(el) {
			return nil
		}
		if !d.dispatch(Event{Type: typ, Target: el, ClientX: x, ClientY: y, Button: button, Buttons: button.Buttons()}) {
			return nil
		}
		if typ == pointer.EventClick {
			d.activate(el)
		}
	}
	return nil
}

// activate applies the default action of a click on form controls.
func (d *Document) activate(el *Element) {
	defer d.invalidate()
	switch el.Tag() {
	case "option":
		sel := d.enclosingSelect(el)
		if sel != nil && hasAttr(sel.node, "multiple") {
			setBoolAttr(el, "selected", !hasAttr(el.node, "selected"))
			return
		}
		if sel != nil {
			for n := range walkElements(sel.node) {
				setBoolAttr(d.wrap(n), "selected", false)
			}
		}
		setBoolAttr(el, "selected", true)
	case "input":
		if t := el.Attr("type"); t == "checkbox" || t == "radio" {
			setBoolAttr(el, "checked", t == "radio" || !hasAttr(el.node, "checked"))
		}
	}
}

func (d *Document) enclosingSelect(el *Element) *Element {
	for n := d.elementParent(el.node); n != nil; n = d.elementParent(n) {
		if n.Data == "select" {
			return d.wrap(n)
		}
	}
	return nil
}

func setBoolAttr(el *Element, name string, on bool) {
	attrs := el.node.Attr[:0]
	for _, a := range el.node.Attr {
		if a.Key != name {
			attrs = append(attrs, a)
		}
	}
	el.node.Attr = attrs
	if on {
		el.node.Attr = append(el.node.Attr, html.Attribute{Key: name})
	}
}
