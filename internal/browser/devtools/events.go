// internal/browser/devtools/events.go
package devtools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/synthmouse/internal/pointer"
)

var (
	clickSequence = []pointer.EventType{
		pointer.EventMouseDown, pointer.EventMouseUp, pointer.EventClick,
	}
	doubleClickSequence = []pointer.EventType{
		pointer.EventMouseDown, pointer.EventMouseUp, pointer.EventClick,
		pointer.EventMouseDown, pointer.EventMouseUp, pointer.EventClick,
		pointer.EventDoubleClick,
	}
	rightClickSequence = []pointer.EventType{
		pointer.EventMouseDown, pointer.EventMouseUp, pointer.EventContextMenu,
	}
)

// Fire dispatches one MouseEvent on the element. It reports false when the
// target is missing, or is no longer connected once listeners have run.
func (p *Page) Fire(ctx context.Context, target pointer.Element, typ pointer.EventType, init pointer.EventInit) (bool, error) {
	if target == nil {
		return false, nil
	}
	el, err := p.element(target)
	if err != nil {
		return false, err
	}
	var related *Element
	if rel, ok := init.Related.(*Element); ok && rel != nil && rel.page == p {
		related = rel
	}
	if err := p.pace(ctx); err != nil {
		return false, err
	}

	var proceed bool
	err = p.callValue(ctx, el.object, jsFire, &proceed,
		string(typ), init.ClientX, init.ClientY, int(init.Button), init.Button.Buttons(), related)
	if err != nil {
		return false, fmt.Errorf("devtools: fire %s: %w", typ, err)
	}
	p.logger.Debug("Fired event.",
		zap.String("type", string(typ)),
		zap.Stringer("target", el),
		zap.Float64("client_x", init.ClientX),
		zap.Float64("client_y", init.ClientY),
		zap.Bool("proceed", proceed))
	return proceed, nil
}

func (p *Page) Click(ctx context.Context, target pointer.Element) error {
	return p.gesture(ctx, target, pointer.ButtonLeft, clickSequence)
}

func (p *Page) DoubleClick(ctx context.Context, target pointer.Element) error {
	return p.gesture(ctx, target, pointer.ButtonLeft, doubleClickSequence)
}

func (p *Page) RightClick(ctx context.Context, target pointer.Element) error {
	return p.gesture(ctx, target, pointer.ButtonRight, rightClickSequence)
}

// gesture fires a whole sequence at the element's center in one round trip,
// stopping early if the element is detached along the way.
func (p *Page) gesture(ctx context.Context, target pointer.Element, button pointer.Button, sequence []pointer.EventType) error {
	el, err := p.element(target)
	if err != nil {
		return err
	}
	if err := p.pace(ctx); err != nil {
		return err
	}
	var fired int
	if err := p.callValue(ctx, el.object, jsGesture, &fired, sequence, int(button), button.Buttons()); err != nil {
		return fmt.Errorf("devtools: gesture on %s: %w", el, err)
	}
	p.logger.Debug("Performed gesture.",
		zap.Stringer("element", el),
		zap.Stringer("button", button),
		zap.Int("fired", fired),
		zap.Int("events", len(sequence)))
	return nil
}

func (p *Page) pace(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("devtools: pacing: %w", err)
	}
	return nil
}
