// internal/pointer/mocks_test.go
package pointer

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"
)

// fakeDocument doubles as the document and its window.
type fakeDocument struct {
	scroll   Point
	viewport Size
	height   float64
	width    float64
}

type fakeElement struct {
	name     string
	tag      string
	doc      *fakeDocument
	loc      Point
	client   Point
	parent   *fakeElement
	multiple bool
	hidden   bool
}

// proxy wraps an element the way a host binding would.
type proxy struct{ inner Element }

func (p proxy) Unwrap() Element { return p.inner }

type recordedEvent struct {
	Target  string
	Type    EventType
	X, Y    float64
	Button  Button
	Related string
}

// fakePage implements Page over fakeElements and records everything fired.
// The Mock* hooks replace the default behavior when set.
type fakePage struct {
	events   []recordedEvent
	gestures []string
	scrolled []string
	bound    []Window

	MockFire     func(el *fakeElement, typ EventType, init EventInit) (bool, error)
	MockLocation func(el *fakeElement) (Point, error)
	MockIsShown  func(el *fakeElement) (bool, error)
	MockGesture  func(kind string, el *fakeElement) error
}

var _ Page = (*fakePage)(nil)

func newFakePage() *fakePage {
	return &fakePage{}
}

func setupController(t *testing.T) (*Controller, *fakePage) {
	t.Helper()
	page := newFakePage()
	return New(page, zaptest.NewLogger(t)), page
}

func newDocument() *fakeDocument {
	return &fakeDocument{viewport: Size{Width: 800, Height: 600}, height: 600, width: 800}
}

func nameOf(el Element) string {
	if el == nil {
		return ""
	}
	return el.(*fakeElement).name
}

func (p *fakePage) ScrollIntoView(ctx context.Context, el Element) error {
	p.scrolled = append(p.scrolled, nameOf(el))
	return nil
}

func (p *fakePage) Location(ctx context.Context, el Element) (Point, error) {
	fe := el.(*fakeElement)
	if p.MockLocation != nil {
		return p.MockLocation(fe)
	}
	return fe.loc, nil
}

func (p *fakePage) ClientPosition(ctx context.Context, el Element) (Point, error) {
	return el.(*fakeElement).client, nil
}

func (p *fakePage) OwnerDocument(ctx context.Context, el Element) (Document, error) {
	return el.(*fakeElement).doc, nil
}

func (p *fakePage) ScrollOffset(ctx context.Context, doc Document) (Point, error) {
	return doc.(*fakeDocument).scroll, nil
}

func (p *fakePage) OwnerWindow(ctx context.Context, doc Document) (Window, error) {
	return doc, nil
}

func (p *fakePage) BindWindow(ctx context.Context, win Window) error {
	p.bound = append(p.bound, win)
	return nil
}

func (p *fakePage) ViewportSize(ctx context.Context, win Window) (Size, error) {
	return win.(*fakeDocument).viewport, nil
}

func (p *fakePage) DocumentHeight(ctx context.Context, win Window) (float64, error) {
	return win.(*fakeDocument).height, nil
}

func (p *fakePage) BodyWidth(ctx context.Context, doc Document) (float64, error) {
	return doc.(*fakeDocument).width, nil
}

func (p *fakePage) Parent(ctx context.Context, el Element) (Element, error) {
	parent := el.(*fakeElement).parent
	if parent == nil {
		return nil, nil
	}
	return parent, nil
}

func (p *fakePage) TagName(ctx context.Context, el Element) (string, error) {
	return el.(*fakeElement).tag, nil
}

func (p *fakePage) Multiple(ctx context.Context, el Element) (bool, error) {
	return el.(*fakeElement).multiple, nil
}

func (p *fakePage) IsShown(ctx context.Context, el Element, ignoreOpacity bool) (bool, error) {
	fe := el.(*fakeElement)
	if p.MockIsShown != nil {
		return p.MockIsShown(fe)
	}
	return !fe.hidden, nil
}

func (p *fakePage) Fire(ctx context.Context, el Element, typ EventType, init EventInit) (bool, error) {
	fe := el.(*fakeElement)
	p.events = append(p.events, recordedEvent{
		Target:  fe.name,
		Type:    typ,
		X:       init.ClientX,
		Y:       init.ClientY,
		Button:  init.Button,
		Related: nameOf(init.Related),
	})
	if p.MockFire != nil {
		return p.MockFire(fe, typ, init)
	}
	return true, nil
}

func (p *fakePage) gesture(kind string, el Element) error {
	fe := el.(*fakeElement)
	p.gestures = append(p.gestures, kind+":"+fe.name)
	if p.MockGesture != nil {
		return p.MockGesture(kind, fe)
	}
	return nil
}

func (p *fakePage) Click(ctx context.Context, el Element) error {
	return p.gesture("click", el)
}

func (p *fakePage) DoubleClick(ctx context.Context, el Element) error {
	return p.gesture("dblclick", el)
}

func (p *fakePage) RightClick(ctx context.Context, el Element) error {
	return p.gesture("rightclick", el)
}
