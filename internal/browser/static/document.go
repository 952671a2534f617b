// internal/browser/static/document.go
package static

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/xkilldash9x/synthmouse/internal/pointer"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Element is a handle to a node of a Document. A Document hands out exactly
// one Element per node, so handles compare equal when they name the same node.
type Element struct {
	node *html.Node
	doc  *Document
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return strings.ToLower(e.node.Data) }

// Attr returns the value of an attribute, or "" when it is absent.
func (e *Element) Attr(name string) string { return attr(e.node, name) }

// HasAttr reports whether an attribute is present, including boolean ones.
func (e *Element) HasAttr(name string) bool { return hasAttr(e.node, name) }

// String renders the handle as tag#id.class for logs and event dumps.
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	s := e.Tag()
	if id := e.Attr("id"); id != "" {
		s += "#" + id
	}
	if class := strings.Fields(e.Attr("class")); len(class) > 0 {
		s += "." + strings.Join(class, ".")
	}
	return s
}

// Document is an in-memory HTML document with a fixed viewport. Layout is
// read from inline and <style> declarations: `left`/`top` offsets accumulate
// through ancestors and `width`/`height` size the element.
//
// A Document is not safe for concurrent use.
type Document struct {
	root     *html.Node
	logger   *zap.Logger
	viewport pointer.Size
	scroll   pointer.Point
	bound    pointer.Window

	rules    []rule
	elements map[*html.Node]*Element
	boxes    map[*html.Node]box
	styles   map[*html.Node]map[string]string

	listeners map[pointer.EventType][]Listener
	events    []Event
}

var _ pointer.Page = (*Document)(nil)

// Option configures a Document.
type Option func(*Document)

// WithViewport sets the viewport size in CSS pixels.
func WithViewport(width, height float64) Option {
	return func(d *Document) { d.viewport = pointer.Size{Width: width, Height: height} }
}

// Parse reads an HTML document.
func Parse(r io.Reader, logger *zap.Logger, opts ...Option) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("static: parse document: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Document{
		root:      root,
		logger:    logger.Named("static"),
		viewport:  pointer.Size{Width: 1280, Height: 800},
		elements:  make(map[*html.Node]*Element),
		listeners: make(map[pointer.EventType][]Listener),
	}
	for _, opt := range opts {
		opt(d)
	}

	for i, n := range htmlquery.Find(root, "//style") {
		d.rules = append(d.rules, parseStyleSheet(htmlquery.InnerText(n), i*1000, d.logger)...)
	}
	d.invalidate()
	d.logger.Debug("Document parsed.", zap.Int("style_rules", len(d.rules)))
	return d, nil
}

// ParseString is Parse over a string.
func ParseString(src string, logger *zap.Logger, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(src), logger, opts...)
}

// QueryCSS returns the connected elements matching a CSS selector.
func (d *Document) QueryCSS(_ context.Context, selector string) ([]pointer.Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("static: invalid selector %q: %w", selector, err)
	}
	return d.wrapAll(sel.MatchAll(d.root)), nil
}

// QueryXPath returns the elements selected by an XPath expression.
func (d *Document) QueryXPath(_ context.Context, expr string) ([]pointer.Element, error) {
	nodes, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("static: invalid xpath %q: %w", expr, err)
	}
	return d.wrapAll(nodes), nil
}

// MustFind returns the first element matching a CSS selector and panics
// otherwise. It is meant for fixtures.
func (d *Document) MustFind(selector string) *Element {
	found, err := d.QueryCSS(context.Background(), selector)
	if err != nil || len(found) == 0 {
		panic(fmt.Sprintf("static: no element matches %q", selector))
	}
	return found[0].(*Element)
}

// Remove detaches an element from the document. Handles to it stay valid
// but no longer report as connected.
func (d *Document) Remove(el *Element) {
	if el.node.Parent != nil {
		el.node.Parent.RemoveChild(el.node)
	}
	d.invalidate()
}

// SetStyle replaces an element's inline style attribute.
func (d *Document) SetStyle(el *Element, style string) {
	for i, a := range el.node.Attr {
		if a.Key == "style" {
			el.node.Attr[i].Val = style
			d.invalidate()
			return
		}
	}
	el.node.Attr = append(el.node.Attr, html.Attribute{Key: "style", Val: style})
	d.invalidate()
}

// ScrollTo sets the document scroll offset.
func (d *Document) ScrollTo(x, y float64) {
	d.scroll = pointer.Point{X: x, Y: y}
}

// Scroll returns the document scroll offset.
func (d *Document) Scroll() pointer.Point { return d.scroll }

// Connected reports whether the element is still attached to the document.
func (d *Document) Connected(el *Element) bool {
	for n := el.node; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

func (d *Document) invalidate() {
	d.boxes = make(map[*html.Node]box)
	d.styles = make(map[*html.Node]map[string]string)
}

func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{node: n, doc: d}
	d.elements[n] = el
	return el
}

func (d *Document) wrapAll(nodes []*html.Node) []pointer.Element {
	out := make([]pointer.Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, d.wrap(n))
		}
	}
	return out
}

// element converts a pointer.Element into one of this document's handles.
func (d *Document) element(el pointer.Element) (*Element, error) {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return nil, fmt.Errorf("static: unsupported element handle %T", el)
	}
	if e.doc != d {
		return nil, fmt.Errorf("static: element %s belongs to another document", e)
	}
	return e, nil
}

func (d *Document) elementParent(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

func (d *Document) styleOf(el *Element) map[string]string {
	if s, ok := d.styles[el.node]; ok {
		return s
	}
	s := cascade(el.node, d.rules)
	d.styles[el.node] = s
	return s
}

func (d *Document) body() *html.Node {
	return htmlquery.FindOne(d.root, "//body")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}
