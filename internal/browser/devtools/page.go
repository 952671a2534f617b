// internal/browser/devtools/page.go
package devtools

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/synthmouse/internal/pointer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Element is a resolved remote DOM element. A Page hands out one Element per
// backend node, so handles for the same node compare equal.
type Element struct {
	page   *Page
	node   cdp.BackendNodeID
	object runtime.RemoteObjectID
	tag    string
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.tag }

func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s[%d]", e.tag, e.node)
}

// Document is a remote document, keyed by a marker stored on the document
// object itself.
type Document struct {
	key    string
	object runtime.RemoteObjectID
	window *Window
}

// Window is the window rendering a Document.
type Window struct {
	doc *Document
}

// Page drives one browser tab through an Executor and implements
// pointer.Page. Events are synthesized in the page with dispatchEvent, so
// they reach listeners without moving the real input pointer.
type Page struct {
	exec    Executor
	logger  *zap.Logger
	limiter *rate.Limiter

	mu       sync.Mutex
	elements map[cdp.BackendNodeID]*Element
	docs     map[string]*Document
	bound    *Window
}

var _ pointer.Page = (*Page)(nil)

// Option configures a Page.
type Option func(*Page)

// WithPacing limits how many events per second the page fires. Zero
// disables pacing.
func WithPacing(eventsPerSecond float64, burst int) Option {
	return func(p *Page) {
		if eventsPerSecond <= 0 {
			p.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(eventsPerSecond), burst)
	}
}

// New returns a Page that talks to the browser through exec.
func New(exec Executor, logger *zap.Logger, opts ...Option) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Page{
		exec:     exec,
		logger:   logger.Named("devtools"),
		elements: make(map[cdp.BackendNodeID]*Element),
		docs:     make(map[string]*Document),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Forget drops every handle the page has handed out. Remote objects do not
// survive a navigation, so callers forget after navigating.
func (p *Page) Forget() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements = make(map[cdp.BackendNodeID]*Element)
	p.docs = make(map[string]*Document)
	p.bound = nil
}

// QueryCSS returns the elements matching a CSS selector.
func (p *Page) QueryCSS(ctx context.Context, selector string) ([]pointer.Element, error) {
	arg, err := json.MarshalToString(selector)
	if err != nil {
		return nil, err
	}
	return p.query(ctx, fmt.Sprintf(exprQueryCSS, arg))
}

// QueryXPath returns the elements selected by an XPath expression.
func (p *Page) QueryXPath(ctx context.Context, expr string) ([]pointer.Element, error) {
	arg, err := json.MarshalToString(expr)
	if err != nil {
		return nil, err
	}
	return p.query(ctx, fmt.Sprintf(exprQueryXPath, arg))
}

func (p *Page) query(ctx context.Context, expression string) ([]pointer.Element, error) {
	res, exc, err := p.exec.Evaluate(ctx, runtime.Evaluate(expression).WithSilent(true))
	if err != nil {
		return nil, err
	}
	if exc != nil {
		return nil, fmt.Errorf("devtools: query failed: %w", exc)
	}
	if res == nil || res.ObjectID == "" {
		return nil, nil
	}
	defer p.release(ctx, res.ObjectID)

	var n int
	if err := p.callValue(ctx, res.ObjectID, jsLength, &n); err != nil {
		return nil, err
	}
	out := make([]pointer.Element, 0, n)
	for i := 0; i < n; i++ {
		obj, err := p.callObject(ctx, res.ObjectID, jsIndex, i)
		if err != nil {
			return nil, err
		}
		el, err := p.adopt(ctx, obj)
		if err != nil {
			return nil, err
		}
		if el != nil {
			out = append(out, el)
		}
	}
	return out, nil
}

// adopt registers a remote element, returning the existing handle when the
// node is already known. A null object yields a nil Element.
func (p *Page) adopt(ctx context.Context, obj *runtime.RemoteObject) (*Element, error) {
	if obj == nil || obj.ObjectID == "" || obj.Subtype == runtime.SubtypeNull {
		return nil, nil
	}
	node, err := p.exec.DescribeNode(ctx, dom.DescribeNode().WithObjectID(obj.ObjectID))
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	el, known := p.elements[node.BackendNodeID]
	if !known {
		tag := node.LocalName
		if tag == "" {
			tag = node.NodeName
		}
		el = &Element{page: p, node: node.BackendNodeID, object: obj.ObjectID, tag: strings.ToLower(tag)}
		p.elements[node.BackendNodeID] = el
	}
	p.mu.Unlock()

	if known {
		p.release(ctx, obj.ObjectID)
	}
	return el, nil
}

func (p *Page) release(ctx context.Context, id runtime.RemoteObjectID) {
	if id == "" {
		return
	}
	if err := p.exec.ReleaseObject(ctx, runtime.ReleaseObject(id)); err != nil {
		p.logger.Debug("Failed to release remote object.", zap.String("object_id", string(id)), zap.Error(err))
	}
}

// callValue runs fn with `this` bound to object and decodes the returned
// value into out. A nil out discards the result.
func (p *Page) callValue(ctx context.Context, object runtime.RemoteObjectID, fn string, out interface{}, args ...interface{}) error {
	params, err := p.params(object, fn, args)
	if err != nil {
		return err
	}
	res, err := p.invoke(ctx, params.WithReturnByValue(true))
	if err != nil || out == nil {
		return err
	}
	if res == nil || len(res.Value) == 0 {
		return fmt.Errorf("devtools: function returned no value")
	}
	if err := json.Unmarshal([]byte(res.Value), out); err != nil {
		return fmt.Errorf("devtools: decode result: %w", err)
	}
	return nil
}

// callObject runs fn and returns the result as a remote object reference.
func (p *Page) callObject(ctx context.Context, object runtime.RemoteObjectID, fn string, args ...interface{}) (*runtime.RemoteObject, error) {
	params, err := p.params(object, fn, args)
	if err != nil {
		return nil, err
	}
	return p.invoke(ctx, params)
}

func (p *Page) params(object runtime.RemoteObjectID, fn string, args []interface{}) (*runtime.CallFunctionOnParams, error) {
	callArgs := make([]*runtime.CallArgument, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			callArgs = append(callArgs, &runtime.CallArgument{Value: []byte("null")})
		case *Element:
			if v == nil {
				callArgs = append(callArgs, &runtime.CallArgument{Value: []byte("null")})
				continue
			}
			callArgs = append(callArgs, &runtime.CallArgument{ObjectID: v.object})
		default:
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("devtools: encode argument: %w", err)
			}
			callArgs = append(callArgs, &runtime.CallArgument{Value: raw})
		}
	}
	return runtime.CallFunctionOn(fn).
		WithObjectID(object).
		WithArguments(callArgs).
		WithSilent(true), nil
}

func (p *Page) invoke(ctx context.Context, params *runtime.CallFunctionOnParams) (*runtime.RemoteObject, error) {
	res, exc, err := p.exec.CallFunctionOn(ctx, params)
	if err != nil {
		return nil, err
	}
	if exc != nil {
		return nil, fmt.Errorf("devtools: script threw: %w", exc)
	}
	return res, nil
}

// element converts a pointer.Element into one of this page's handles.
func (p *Page) element(el pointer.Element) (*Element, error) {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return nil, fmt.Errorf("devtools: unsupported element handle %T", el)
	}
	if e.page != p {
		return nil, fmt.Errorf("devtools: element %s belongs to another page", e)
	}
	return e, nil
}

func (p *Page) document(doc pointer.Document) (*Document, error) {
	d, ok := doc.(*Document)
	if !ok || d == nil {
		return nil, fmt.Errorf("devtools: unsupported document handle %T", doc)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.docs[d.key] != d {
		return nil, fmt.Errorf("devtools: document %s is not known to this page", d.key)
	}
	return d, nil
}

func (p *Page) window(win pointer.Window) (*Window, error) {
	w, ok := win.(*Window)
	if !ok || w == nil {
		return nil, fmt.Errorf("devtools: unsupported window handle %T", win)
	}
	if _, err := p.document(w.doc); err != nil {
		return nil, err
	}
	return w, nil
}
