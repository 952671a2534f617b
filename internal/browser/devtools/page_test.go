// internal/browser/devtools/page_test.go
package devtools

import (
	"context"
	"errors"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/synthmouse/internal/pointer"
)

func TestQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("one handle per node", func(t *testing.T) {
		page, exec := setupPage(t)

		exec.On("Evaluate", mock.Anything, evaluating(`document.querySelectorAll("#ok")`)).
			Return(remote("list-css"), nil, nil).Once()
		exec.On("Evaluate", mock.Anything, evaluating(`document.evaluate(expr`)).
			Return(remote("list-xpath"), nil, nil).Once()
		for _, list := range []runtime.RemoteObjectID{"list-css", "list-xpath"} {
			exec.On("CallFunctionOn", mock.Anything, call(jsLength, list)).Return(value(t, 1), nil, nil).Once()
			exec.On("ReleaseObject", mock.Anything, releasing(list)).Return(nil).Once()
		}
		exec.On("CallFunctionOn", mock.Anything, call(jsIndex, "list-css", "0")).Return(remote("ok-1"), nil, nil).Once()
		exec.On("CallFunctionOn", mock.Anything, call(jsIndex, "list-xpath", "0")).Return(remote("ok-2"), nil, nil).Once()
		exec.On("DescribeNode", mock.Anything, describing("ok-1")).Return(&cdp.Node{BackendNodeID: 42, LocalName: "button"}, nil).Once()
		exec.On("DescribeNode", mock.Anything, describing("ok-2")).Return(&cdp.Node{BackendNodeID: 42, LocalName: "button"}, nil).Once()
		// The second object names a node we already hold.
		exec.On("ReleaseObject", mock.Anything, releasing("ok-2")).Return(nil).Once()

		byCSS, err := page.QueryCSS(ctx, "#ok")
		require.NoError(t, err)
		byXPath, err := page.QueryXPath(ctx, "//button")
		require.NoError(t, err)

		require.Len(t, byCSS, 1)
		require.Len(t, byXPath, 1)
		assert.Same(t, byCSS[0], byXPath[0])
		assert.Equal(t, "button", byCSS[0].(*Element).Tag())
		assert.Equal(t, "button[42]", byCSS[0].(*Element).String())
	})

	t.Run("invalid selector", func(t *testing.T) {
		page, exec := setupPage(t)
		exec.On("Evaluate", mock.Anything, mock.Anything).
			Return(nil, &runtime.ExceptionDetails{Text: "SyntaxError"}, nil).Once()

		_, err := page.QueryCSS(ctx, "div[")
		assert.ErrorContains(t, err, "query failed")
	})

	t.Run("transport failure", func(t *testing.T) {
		page, exec := setupPage(t)
		boom := errors.New("connection closed")
		exec.On("Evaluate", mock.Anything, mock.Anything).Return(nil, nil, boom).Once()

		_, err := page.QueryXPath(ctx, "//a")
		assert.ErrorIs(t, err, boom)
	})
}

func TestGeometry(t *testing.T) {
	ctx := context.Background()
	page, exec := setupPage(t)
	ok := register(page, 1, "ok", "button")

	exec.On("CallFunctionOn", mock.Anything, call(jsScrollIntoView, "ok")).Return(&runtime.RemoteObject{Type: runtime.TypeUndefined}, nil, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsLocation, "ok")).Return(value(t, map[string]float64{"x": 120, "y": 1530}), nil, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsClientPosition, "ok")).Return(value(t, map[string]float64{"x": 120, "y": 130}), nil, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsIsShown, "ok", "true")).Return(value(t, true), nil, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsMultiple, "ok")).Return(value(t, false), nil, nil).Once()

	require.NoError(t, page.ScrollIntoView(ctx, ok))

	loc, err := page.Location(ctx, ok)
	require.NoError(t, err)
	assert.Equal(t, pointer.Point{X: 120, Y: 1530}, loc)

	client, err := page.ClientPosition(ctx, ok)
	require.NoError(t, err)
	assert.Equal(t, pointer.Point{X: 120, Y: 130}, client)

	shown, err := page.IsShown(ctx, ok, true)
	require.NoError(t, err)
	assert.True(t, shown)

	multiple, err := page.Multiple(ctx, ok)
	require.NoError(t, err)
	assert.False(t, multiple)

	tag, err := page.TagName(ctx, ok)
	require.NoError(t, err)
	assert.Equal(t, "button", tag)
}

func TestDocumentAndWindow(t *testing.T) {
	ctx := context.Background()
	page, exec := setupPage(t)
	ok := register(page, 1, "ok", "button")
	label := register(page, 2, "label", "span")

	exec.On("CallFunctionOn", mock.Anything, call(jsDocumentKey, "ok")).Return(value(t, "k1"), nil, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsDocumentKey, "label")).Return(value(t, "k1"), nil, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsOwnerDocument, "ok")).Return(remote("doc"), nil, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsScrollOffset, "doc")).Return(value(t, map[string]float64{"x": 0, "y": 1400}), nil, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsViewportSize, "doc")).Return(value(t, map[string]float64{"width": 800, "height": 600}), nil, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsDocumentHeight, "doc")).Return(value(t, 2000), nil, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsBodyWidth, "doc")).Return(value(t, 1000), nil, nil).Once()

	doc, err := page.OwnerDocument(ctx, ok)
	require.NoError(t, err)
	again, err := page.OwnerDocument(ctx, label)
	require.NoError(t, err)
	assert.Same(t, doc, again, "elements of one document share a handle")

	scroll, err := page.ScrollOffset(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, pointer.Point{Y: 1400}, scroll)

	win, err := page.OwnerWindow(ctx, doc)
	require.NoError(t, err)
	assert.Nil(t, page.BoundWindow())
	require.NoError(t, page.BindWindow(ctx, win))
	assert.Same(t, win, page.BoundWindow())

	size, err := page.ViewportSize(ctx, win)
	require.NoError(t, err)
	assert.Equal(t, pointer.Size{Width: 800, Height: 600}, size)

	h, err := page.DocumentHeight(ctx, win)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, h)

	w, err := page.BodyWidth(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, w)

	page.Forget()
	_, err = page.ScrollOffset(ctx, doc)
	assert.ErrorContains(t, err, "not known")
	assert.Nil(t, page.BoundWindow())
}

func TestParent(t *testing.T) {
	ctx := context.Background()
	page, exec := setupPage(t)
	ok := register(page, 1, "ok", "button")
	panel := register(page, 2, "panel", "div")
	html := register(page, 3, "html", "html")

	exec.On("CallFunctionOn", mock.Anything, call(jsParent, "ok")).Return(remote("panel-again"), nil, nil).Once()
	exec.On("DescribeNode", mock.Anything, describing("panel-again")).Return(&cdp.Node{BackendNodeID: 2, LocalName: "div"}, nil).Once()
	exec.On("ReleaseObject", mock.Anything, releasing("panel-again")).Return(nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsParent, "html")).
		Return(&runtime.RemoteObject{Type: runtime.TypeObject, Subtype: runtime.SubtypeNull}, nil, nil).Once()

	parent, err := page.Parent(ctx, ok)
	require.NoError(t, err)
	assert.Same(t, panel, parent)

	root, err := page.Parent(ctx, html)
	require.NoError(t, err)
	assert.Nil(t, root, "the document element has no parent element")
}

func TestForeignHandles(t *testing.T) {
	ctx := context.Background()
	page, _ := setupPage(t)
	other, _ := setupPage(t)

	_, err := page.Location(ctx, register(other, 1, "x", "div"))
	assert.ErrorContains(t, err, "another page")

	_, err = page.Fire(ctx, "not an element", pointer.EventClick, pointer.EventInit{})
	assert.ErrorContains(t, err, "unsupported element handle")

	_, err = page.ScrollOffset(ctx, &Document{key: "nope"})
	assert.Error(t, err)
	assert.Error(t, page.BindWindow(ctx, 42))
}

func TestScriptErrors(t *testing.T) {
	ctx := context.Background()
	page, exec := setupPage(t)
	ok := register(page, 1, "ok", "button")

	exec.On("CallFunctionOn", mock.Anything, call(jsLocation, "ok")).
		Return(nil, &runtime.ExceptionDetails{Text: "TypeError"}, nil).Once()
	exec.On("CallFunctionOn", mock.Anything, call(jsClientPosition, "ok")).
		Return(&runtime.RemoteObject{Type: runtime.TypeUndefined}, nil, nil).Once()

	_, err := page.Location(ctx, ok)
	assert.ErrorContains(t, err, "script threw")

	_, err = page.ClientPosition(ctx, ok)
	assert.ErrorContains(t, err, "no value")
}
