package dom

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IsElement reports whether n is an element, optionally with the given tag.
func IsElement(n *html.Node, tag ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return len(tag) == 0 || slices.Contains(tag, n.Data)
}

// CreateElement returns a detached element.
func CreateElement(tag string) *html.Node {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// CreateText returns a detached text node.
func CreateText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// AppendChild moves child to the end of parent's children.
func AppendChild(parent, child *html.Node) {
	if parent == nil || child == nil {
		return
	}
	Detach(child)
	parent.AppendChild(child)
}

// InsertBefore moves child in front of ref. A nil ref appends.
func InsertBefore(parent, child, ref *html.Node) {
	if parent == nil || child == nil || child == ref {
		return
	}
	Detach(child)
	if ref == nil || ref.Parent != parent {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, ref)
}

// RemoveChildren drops every child of n.
func RemoveChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// TextContent concatenates the text of every descendant text node.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode, html.DocumentNode:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// SetTextContent replaces every child of n with a single text node.
func SetTextContent(n *html.Node, text string) {
	if n == nil {
		return
	}
	RemoveChildren(n)
	if text != "" {
		n.AppendChild(CreateText(text))
	}
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("dom: render inner html: %w", err)
		}
	}
	return buf.String(), nil
}

// SetInnerHTML parses markup in the context of n and replaces its children.
func SetInnerHTML(n *html.Node, markup string) error {
	if n == nil {
		return nil
	}
	context := n
	if n.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("dom: parse inner html: %w", err)
	}
	RemoveChildren(n)
	for _, child := range nodes {
		AppendChild(n, child)
	}
	return nil
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	key = strings.ToLower(key)
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether n carries key.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets key on n, replacing any previous value.
func SetAttr(n *html.Node, key, value string) {
	if n == nil {
		return
	}
	key = strings.ToLower(key)
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr removes key from n.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	key = strings.ToLower(key)
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

// SetBoolAttr adds key as an empty attribute when on, removes it otherwise.
func SetBoolAttr(n *html.Node, key string, on bool) {
	if on {
		if !HasAttr(n, key) {
			SetAttr(n, key, "")
		}
		return
	}
	RemoveAttr(n, key)
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	value, _ := Attr(n, "class")
	return strings.Fields(value)
}

// HasClass reports whether n has class name.
func HasClass(n *html.Node, name string) bool {
	return slices.Contains(Classes(n), name)
}

// AddClass adds names missing from the class list.
func AddClass(n *html.Node, names ...string) {
	if n == nil {
		return
	}
	classes := Classes(n)
	changed := false
	for _, name := range names {
		if name != "" && !slices.Contains(classes, name) {
			classes = append(classes, name)
			changed = true
		}
	}
	if changed {
		SetAttr(n, "class", strings.Join(classes, " "))
	}
}

// RemoveClass drops names from the class list.
func RemoveClass(n *html.Node, names ...string) {
	if n == nil || !HasAttr(n, "class") {
		return
	}
	classes := slices.DeleteFunc(Classes(n), func(c string) bool {
		return slices.Contains(names, c)
	})
	SetAttr(n, "class", strings.Join(classes, " "))
}

// ToggleClass flips name and reports whether it is present afterwards.
func ToggleClass(n *html.Node, name string) bool {
	if HasClass(n, name) {
		RemoveClass(n, name)
		return false
	}
	AddClass(n, name)
	return true
}

// SetClass adds name when on and removes it otherwise.
func SetClass(n *html.Node, name string, on bool) {
	if on {
		AddClass(n, name)
		return
	}
	RemoveClass(n, name)
}
