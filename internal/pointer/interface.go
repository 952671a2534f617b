// internal/pointer/interface.go
package pointer

import "context"

// Geometry exposes the layout reads the controller needs. Locations are in
// document coordinates, client positions are relative to the viewport.
type Geometry interface {
	// ScrollIntoView brings the element into the viewport. Backends that cannot
	// scroll an element return nil without doing anything.
	ScrollIntoView(ctx context.Context, el Element) error
	Location(ctx context.Context, el Element) (Point, error)
	ClientPosition(ctx context.Context, el Element) (Point, error)
	OwnerDocument(ctx context.Context, el Element) (Document, error)
	ScrollOffset(ctx context.Context, doc Document) (Point, error)
	OwnerWindow(ctx context.Context, doc Document) (Window, error)
	// BindWindow makes win the rendering context for subsequent reads.
	BindWindow(ctx context.Context, win Window) error
	ViewportSize(ctx context.Context, win Window) (Size, error)
	DocumentHeight(ctx context.Context, win Window) (float64, error)
	BodyWidth(ctx context.Context, doc Document) (float64, error)
}

// Tree answers structural questions about elements.
type Tree interface {
	// Parent returns the parent element, or a nil Element at the root.
	Parent(ctx context.Context, el Element) (Element, error)
	// TagName returns the lower-case tag name.
	TagName(ctx context.Context, el Element) (string, error)
	// Multiple reports whether a <select> allows multiple selection.
	Multiple(ctx context.Context, el Element) (bool, error)
}

// Visibility decides whether an element is rendered.
type Visibility interface {
	IsShown(ctx context.Context, el Element, ignoreOpacity bool) (bool, error)
}

// Emitter fires one synthetic DOM event. The boolean is false when the page
// interrupted the gesture (for example a listener detached the element) and
// the caller should stop the sequence.
type Emitter interface {
	Fire(ctx context.Context, el Element, typ EventType, init EventInit) (bool, error)
}

// Gestures perform complete click sequences on an element.
type Gestures interface {
	Click(ctx context.Context, el Element) error
	DoubleClick(ctx context.Context, el Element) error
	RightClick(ctx context.Context, el Element) error
}

// Page bundles every collaborator a Controller talks to.
type Page interface {
	Geometry
	Tree
	Visibility
	Emitter
	Gestures
}
