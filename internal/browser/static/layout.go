// internal/browser/static/layout.go
package static

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// charWidth and lineHeight size boxes that only carry text.
const (
	charWidth  = 8.0
	lineHeight = 16.0
)

// nonRendered elements never generate a box.
var nonRendered = map[string]bool{
	"head": true, "title": true, "meta": true, "link": true,
	"style": true, "script": true, "template": true, "noscript": true,
}

// box is an element's border box in document coordinates.
type box struct {
	x, y          float64
	width, height float64
}

func (b box) right() float64  { return b.x + b.width }
func (b box) bottom() float64 { return b.y + b.height }

// boxOf lays out an element. Offsets from `left`/`top` accumulate through
// ancestors; an element without an explicit size takes the extent of its
// children, or of its own text.
func (d *Document) boxOf(el *Element) box {
	if b, ok := d.boxes[el.node]; ok {
		return b
	}

	x, y := d.originOf(el.node)
	if nonRendered[el.Tag()] {
		b := box{x: x, y: y}
		d.boxes[el.node] = b
		return b
	}
	style := d.styleOf(el)

	width, hasW := pixelValue(style["width"])
	height, hasH := pixelValue(style["height"])
	if !hasW || !hasH {
		var extentW, extentH float64
		for c := el.node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			cb := d.boxOf(d.wrap(c))
			extentW = math.Max(extentW, cb.right()-x)
			extentH = math.Max(extentH, cb.bottom()-y)
		}
		if text := ownText(el.node); text != "" {
			extentW = math.Max(extentW, float64(len([]rune(text)))*charWidth)
			extentH = math.Max(extentH, lineHeight)
		}
		if !hasW {
			width = extentW
		}
		if !hasH {
			height = extentH
		}
	}

	b := box{x: x, y: y, width: width, height: height}
	d.boxes[el.node] = b
	return b
}

// originOf resolves the top-left corner of n from its ancestors only.
func (d *Document) originOf(n *html.Node) (float64, float64) {
	var x, y float64
	if parent := d.elementParent(n); parent != nil {
		x, y = d.originOf(parent)
	}
	el := d.wrap(n)
	if nonRendered[el.Tag()] {
		return x, y
	}
	style := d.styleOf(el)
	return x + pixels(style["left"]), y + pixels(style["top"])
}

// documentExtent is the union of every element box.
func (d *Document) documentExtent() (width, height float64) {
	for n := range walkElements(d.root) {
		b := d.boxOf(d.wrap(n))
		width = math.Max(width, b.right())
		height = math.Max(height, b.bottom())
	}
	return width, height
}

// pixels parses a px length, treating anything else as zero.
func pixels(v string) float64 {
	f, _ := pixelValue(v)
	return f
}

func pixelValue(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" || v == "auto" {
		return 0, false
	}
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func ownText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}

// walkElements yields element nodes in document order.
func walkElements(root *html.Node) func(yield func(*html.Node) bool) {
	return func(yield func(*html.Node) bool) {
		var walk func(n *html.Node) bool
		walk = func(n *html.Node) bool {
			if n.Type == html.ElementNode && !yield(n) {
				return false
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(root)
	}
}
