package dom

import (
	"fmt"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Matcher is anything that can test a single node.
type Matcher = cascadia.Matcher

// MatcherFunc adapts a predicate to Matcher.
type MatcherFunc func(*html.Node) bool

func (f MatcherFunc) Match(n *html.Node) bool { return f(n) }

var selectorCache sync.Map

// Compile parses a CSS selector group. Compiled selectors are cached.
func Compile(selector string) (Matcher, error) {
	if cached, ok := selectorCache.Load(selector); ok {
		return cached.(Matcher), nil
	}
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("dom: compile selector %q: %w", selector, err)
	}
	selectorCache.Store(selector, Matcher(group))
	return group, nil
}

// MustCompile is Compile for selectors known at build time.
func MustCompile(selector string) Matcher {
	m, err := Compile(selector)
	if err != nil {
		panic(err)
	}
	return m
}

// Query returns the first descendant of n matching selector. Invalid
// selectors panic.
func Query(n *html.Node, selector string) *html.Node {
	if n == nil {
		return nil
	}
	return cascadia.Query(n, MustCompile(selector))
}

// QueryAll returns every descendant of n matching selector. Invalid
// selectors panic.
func QueryAll(n *html.Node, selector string) []*html.Node {
	if n == nil {
		return nil
	}
	return cascadia.QueryAll(n, MustCompile(selector))
}

// Matches reports whether n itself matches m.
func Matches(n *html.Node, m Matcher) bool {
	return n != nil && n.Type == html.ElementNode && m.Match(n)
}

// Descendants returns the descendants of root matching m in document order.
// The interior of <template> elements is not searched: template content is
// inert and reachable only as its own root.
func Descendants(root *html.Node, m Matcher) []*html.Node {
	if root == nil {
		return nil
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if m.Match(c) {
				out = append(out, c)
			}
			if c.Data == "template" {
				continue
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// ByID returns the first element under n with the given id, searching
// outside template content.
func ByID(n *html.Node, id string) *html.Node {
	if n == nil || id == "" {
		return nil
	}
	byID := MatcherFunc(func(c *html.Node) bool {
		v, ok := Attr(c, "id")
		return ok && v == id
	})
	if Matches(n, byID) {
		return n
	}
	found := Descendants(n, byID)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}
