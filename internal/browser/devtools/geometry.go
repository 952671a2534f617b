// internal/browser/devtools/geometry.go
package devtools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/synthmouse/internal/pointer"
)

func (p *Page) ScrollIntoView(ctx context.Context, target pointer.Element) error {
	el, err := p.element(target)
	if err != nil {
		return err
	}
	return p.callValue(ctx, el.object, jsScrollIntoView, nil)
}

// Location returns the element's top-left corner in document coordinates.
func (p *Page) Location(ctx context.Context, target pointer.Element) (pointer.Point, error) {
	return p.point(ctx, target, jsLocation)
}

// ClientPosition returns the element's top-left corner relative to the viewport.
func (p *Page) ClientPosition(ctx context.Context, target pointer.Element) (pointer.Point, error) {
	return p.point(ctx, target, jsClientPosition)
}

func (p *Page) point(ctx context.Context, target pointer.Element, fn string) (pointer.Point, error) {
	el, err := p.element(target)
	if err != nil {
		return pointer.Point{}, err
	}
	var pt pointer.Point
	err = p.callValue(ctx, el.object, fn, &pt)
	return pt, err
}

func (p *Page) OwnerDocument(ctx context.Context, target pointer.Element) (pointer.Document, error) {
	el, err := p.element(target)
	if err != nil {
		return nil, err
	}
	var key string
	if err := p.callValue(ctx, el.object, jsDocumentKey, &key); err != nil {
		return nil, err
	}

	p.mu.Lock()
	doc, ok := p.docs[key]
	p.mu.Unlock()
	if ok {
		return doc, nil
	}

	obj, err := p.callObject(ctx, el.object, jsOwnerDocument)
	if err != nil {
		return nil, err
	}
	if obj == nil || obj.ObjectID == "" {
		return nil, fmt.Errorf("devtools: element %s has no owner document", el)
	}
	doc = &Document{key: key, object: obj.ObjectID}
	doc.window = &Window{doc: doc}

	p.mu.Lock()
	existing, raced := p.docs[key]
	if !raced {
		p.docs[key] = doc
	}
	p.mu.Unlock()
	if raced {
		p.release(ctx, obj.ObjectID)
		return existing, nil
	}
	p.logger.Debug("Registered document.", zap.String("document", key))
	return doc, nil
}

func (p *Page) ScrollOffset(ctx context.Context, doc pointer.Document) (pointer.Point, error) {
	d, err := p.document(doc)
	if err != nil {
		return pointer.Point{}, err
	}
	var pt pointer.Point
	err = p.callValue(ctx, d.object, jsScrollOffset, &pt)
	return pt, err
}

func (p *Page) OwnerWindow(_ context.Context, doc pointer.Document) (pointer.Window, error) {
	d, err := p.document(doc)
	if err != nil {
		return nil, err
	}
	return d.window, nil
}

// BindWindow records the window later reads are made against. Every read
// already addresses its own remote object, so nothing is sent to the browser.
func (p *Page) BindWindow(_ context.Context, win pointer.Window) error {
	w, err := p.window(win)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.bound = w
	p.mu.Unlock()
	return nil
}

// BoundWindow returns the window last passed to BindWindow, or nil.
func (p *Page) BoundWindow() pointer.Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bound == nil {
		return nil
	}
	return p.bound
}

func (p *Page) ViewportSize(ctx context.Context, win pointer.Window) (pointer.Size, error) {
	w, err := p.window(win)
	if err != nil {
		return pointer.Size{}, err
	}
	var size pointer.Size
	err = p.callValue(ctx, w.doc.object, jsViewportSize, &size)
	return size, err
}

func (p *Page) DocumentHeight(ctx context.Context, win pointer.Window) (float64, error) {
	w, err := p.window(win)
	if err != nil {
		return 0, err
	}
	var h float64
	err = p.callValue(ctx, w.doc.object, jsDocumentHeight, &h)
	return h, err
}

func (p *Page) BodyWidth(ctx context.Context, doc pointer.Document) (float64, error) {
	d, err := p.document(doc)
	if err != nil {
		return 0, err
	}
	var w float64
	err = p.callValue(ctx, d.object, jsBodyWidth, &w)
	return w, err
}

// Parent returns the parent element, or nil at the document element.
func (p *Page) Parent(ctx context.Context, target pointer.Element) (pointer.Element, error) {
	el, err := p.element(target)
	if err != nil {
		return nil, err
	}
	obj, err := p.callObject(ctx, el.object, jsParent)
	if err != nil {
		return nil, err
	}
	parent, err := p.adopt(ctx, obj)
	if err != nil || parent == nil {
		return nil, err
	}
	return parent, nil
}

func (p *Page) TagName(_ context.Context, target pointer.Element) (string, error) {
	el, err := p.element(target)
	if err != nil {
		return "", err
	}
	return el.tag, nil
}

func (p *Page) Multiple(ctx context.Context, target pointer.Element) (bool, error) {
	el, err := p.element(target)
	if err != nil {
		return false, err
	}
	var multiple bool
	err = p.callValue(ctx, el.object, jsMultiple, &multiple)
	return multiple, err
}

// IsShown approximates the WebDriver displayedness check inside the page.
func (p *Page) IsShown(ctx context.Context, target pointer.Element, ignoreOpacity bool) (bool, error) {
	el, err := p.element(target)
	if err != nil {
		return false, err
	}
	var shown bool
	err = p.callValue(ctx, el.object, jsIsShown, &shown, ignoreOpacity)
	return shown, err
}
