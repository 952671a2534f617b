// internal/browser/static/style.go
package static

import (
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/synthmouse/internal/browser/parser"
)

// rule is one selector of a style rule with the declarations it applies.
// Grouped selectors ("a, b") are split into one rule per selector so that
// each carries its own specificity.
type rule struct {
	selector cascadia.Sel
	order    int
	decls    []parser.Declaration
}

// parseStyleSheet compiles the rule sets of a <style> block. Selectors
// cascadia cannot compile are dropped.
func parseStyleSheet(src string, startOrder int, logger *zap.Logger) []rule {
	var rules []rule
	order := startOrder
	for _, set := range parser.NewParser(src).Parse().Rules {
		group, err := cascadia.ParseGroup(set.Selector)
		if err != nil {
			logger.Debug("Skipping unsupported selector.", zap.String("selector", set.Selector), zap.Error(err))
			continue
		}
		for _, sel := range group {
			rules = append(rules, rule{selector: sel, order: order, decls: set.Declarations})
			order++
		}
	}
	return rules
}

// cascade computes the declared values for node: matching sheet rules ordered
// by specificity then source order, inline style on top, and !important
// declarations above all normal ones.
func cascade(node *html.Node, rules []rule) map[string]string {
	type candidate struct {
		decl        parser.Declaration
		specificity cascadia.Specificity
		order       int
		inline      bool
	}
	var matched []candidate
	for _, r := range rules {
		if !r.selector.Match(node) {
			continue
		}
		for _, d := range r.decls {
			matched = append(matched, candidate{decl: d, specificity: r.selector.Specificity(), order: r.order})
		}
	}
	for _, d := range parser.ParseInline(attr(node, "style")) {
		matched = append(matched, candidate{decl: d, inline: true})
	}

	rank := func(c candidate) int {
		switch {
		case c.decl.Important && c.inline:
			return 3
		case c.decl.Important:
			return 2
		case c.inline:
			return 1
		}
		return 0
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra < rb
		}
		if a.inline || b.inline {
			return false
		}
		if a.specificity != b.specificity {
			return a.specificity.Less(b.specificity)
		}
		return a.order < b.order
	})

	computed := make(map[string]string, len(matched))
	for _, c := range matched {
		computed[string(c.decl.Property)] = strings.ToLower(string(c.decl.Value))
	}
	return computed
}
