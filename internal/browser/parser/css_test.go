// internal/browser/parser/css_test.go
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to build expected declarations concisely
func d(prop, val string, important bool) Declaration {
	return Declaration{Property: Property(prop), Value: Value(val), Important: important}
}

func TestParseRuleSets(t *testing.T) {
	input := `
		body { width: 1000px; height: 2000px }
		a, b.c
		{ color: red; }
		#panel > .item[data-x="{"] { left: 10px }
	`
	sheet := NewParser(input).Parse()

	require.Len(t, sheet.Rules, 3)
	assert.Equal(t, RuleSet{
		Selector:     "body",
		Declarations: []Declaration{d("width", "1000px", false), d("height", "2000px", false)},
	}, sheet.Rules[0])
	assert.Equal(t, "a, b.c", sheet.Rules[1].Selector, "whitespace in the prelude is collapsed")
	assert.Equal(t, `#panel > .item[data-x="{"]`, sheet.Rules[2].Selector, "braces inside quotes stay in the selector")
	assert.Equal(t, []Declaration{d("left", "10px", false)}, sheet.Rules[2].Declarations)
}

func TestParseDeclarations(t *testing.T) {
	input := `
		COLOR: red;
		font-size: 16px !important;
		margin: 10px 20px;
		background: url(data:image/png;base64,AAA);
		content: "a;b";
		padding: 0
	`
	got := ParseInline(input)

	expected := []Declaration{
		d("color", "red", false),
		d("font-size", "16px", true),
		d("margin", "10px 20px", false),
		d("background", "url(data:image/png;base64,AAA)", false),
		d("content", `"a;b"`, false),
		d("padding", "0", false),
	}
	assert.Equal(t, expected, got)
}

func TestEdgeCasesAndSkipping(t *testing.T) {
	t.Run("Skip Comments", func(t *testing.T) {
		sheet := NewParser(`/* Start */ body { /* inner */ margin: 0; } /* End */`).Parse()
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []Declaration{d("margin", "0", false)}, sheet.Rules[0].Declarations)
	})

	t.Run("Skip At-Rules", func(t *testing.T) {
		input := `@import url("x.css"); @media screen and (min-width: 900px) { div { display: none; } } p { color: blue; } @charset "utf-8";`
		sheet := NewParser(input).Parse()
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, "p", sheet.Rules[0].Selector)
	})

	t.Run("Malformed Declarations Recovery", func(t *testing.T) {
		decls := ParseInline(`color: ; *zoom: 1; font-size: 12px; border; ;width: 3px`)
		assert.Equal(t, []Declaration{d("font-size", "12px", false), d("width", "3px", false)}, decls)
	})

	t.Run("Rules Without Declarations Dropped", func(t *testing.T) {
		sheet := NewParser(`p {} { color: red } div { color: ; }`).Parse()
		assert.Empty(t, sheet.Rules)
	})

	t.Run("Unterminated Input", func(t *testing.T) {
		sheet := NewParser(`p { color: red`).Parse()
		require.Len(t, sheet.Rules, 1)
		assert.Equal(t, []Declaration{d("color", "red", false)}, sheet.Rules[0].Declarations)

		assert.Empty(t, NewParser(`p`).Parse().Rules)
		assert.Empty(t, ParseInline(""))
	})
}
