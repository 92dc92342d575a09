// Package extract pulls loosely structured values out of an HTML tree with
// XPath selections, optional regular expressions and lenient numeric casts.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Selection is the first item an expression produced. Exactly one of Node
// and Value is meaningful: Node for element and text nodes, Value for
// attributes and for expressions that evaluate to a string, number or bool.
type Selection struct {
	Node  *html.Node
	Value string
}

// IsNode reports whether the selection is a tree node rather than a plain value.
func (s Selection) IsNode() bool { return s.Node != nil }

// Text returns the textual content of the selection. For an element this is
// its leading text, the text that precedes its first child element.
func (s Selection) Text() (string, bool) {
	if !s.IsNode() {
		return s.Value, true
	}
	switch s.Node.Type {
	case html.TextNode:
		return s.Node.Data, true
	case html.ElementNode:
		if c := s.Node.FirstChild; c != nil && c.Type == html.TextNode {
			return c.Data, true
		}
	}
	return "", false
}

// Select evaluates expr relative to top and returns the first result.
func Select(top *html.Node, expr *xpath.Expr) (Selection, bool) {
	if top == nil || expr == nil {
		return Selection{}, false
	}
	switch v := expr.Evaluate(htmlquery.CreateXPathNavigator(top)).(type) {
	case *xpath.NodeIterator:
		if !v.MoveNext() {
			return Selection{}, false
		}
		cur := v.Current()
		nav, ok := cur.(*htmlquery.NodeNavigator)
		if !ok || cur.NodeType() == xpath.AttributeNode {
			return Selection{Value: cur.Value()}, true
		}
		return Selection{Node: nav.Current()}, true
	case string:
		return Selection{Value: v}, true
	case float64:
		return Selection{Value: strconv.FormatFloat(v, 'f', -1, 64)}, true
	case bool:
		return Selection{Value: strconv.FormatBool(v)}, true
	}
	return Selection{}, false
}

// Text selects expr under top and returns its text. With a pattern, runs of
// whitespace are squeezed to single spaces first and the first match is
// returned; if the pattern has a capture group, the first group is returned.
func Text(top *html.Node, expr *xpath.Expr, pattern *regexp.Regexp) (string, bool) {
	sel, ok := Select(top, expr)
	if !ok {
		return "", false
	}
	s, ok := sel.Text()
	if !ok {
		return "", false
	}
	if pattern == nil {
		return s, true
	}
	m := pattern.FindStringSubmatch(strings.Join(strings.Fields(s), " "))
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}

// Optional converts a (value, ok) pair into a pointer, nil when !ok.
func Optional(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}
