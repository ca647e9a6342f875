package dom

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// RootKind distinguishes the node kinds a tree walk can start from.
type RootKind int

const (
	// RootDocument is a parsed document (the main page or an import).
	RootDocument RootKind = iota
	// RootFragment is a detached container of sibling nodes.
	RootFragment
	// RootElement is a single element and its subtree.
	RootElement
	// RootTemplateContent is the inert content of a <template> element.
	RootTemplateContent
)

// Root identifies a processable subtree. Two roots are the same root when
// both the node and the kind match, so a template element and its content
// are distinct.
type Root struct {
	Node *html.Node
	Kind RootKind
}

// IsElement reports whether the root is an element root.
func (r Root) IsElement() bool { return r.Kind == RootElement }

// ElementRoot wraps el as a root.
func ElementRoot(el *html.Node) Root { return Root{Node: el, Kind: RootElement} }

// TemplateContent returns the content root of a <template> element. The
// second result is false when tpl is not a template or has no content.
func TemplateContent(tpl *html.Node) (Root, bool) {
	if !IsElement(tpl, "template") || tpl.FirstChild == nil {
		return Root{}, false
	}
	return Root{Node: tpl, Kind: RootTemplateContent}, true
}

// Option configures a Document.
type Option func(*Document)

// WithImporter sets the resolver used for <link rel=import> references.
func WithImporter(importer Importer) Option {
	return func(d *Document) {
		d.importer = importer
	}
}

// WithURL records the document location. Relative import hrefs resolve
// against its directory.
func WithURL(location string) Option {
	return func(d *Document) {
		d.url = strings.TrimSpace(location)
	}
}

// Document owns a parsed node tree together with the state a browser would
// keep alongside it: resolved imports and script-level element properties.
type Document struct {
	node     *html.Node
	url      string
	importer Importer

	imports    map[string]*html.Node
	importErrs map[string]error
	bases      map[*html.Node]string
	props      map[*html.Node]map[string]any
}

// Parse reads an HTML document.
func Parse(r io.Reader, options ...Option) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return newDocument(node, options...), nil
}

// ParseString is Parse over a string.
func ParseString(markup string, options ...Option) (*Document, error) {
	return Parse(strings.NewReader(markup), options...)
}

func newDocument(node *html.Node, options ...Option) *Document {
	d := &Document{
		node:       node,
		imports:    make(map[string]*html.Node),
		importErrs: make(map[string]error),
		bases:      make(map[*html.Node]string),
		props:      make(map[*html.Node]map[string]any),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	if !isAbsoluteURL(d.url) {
		d.bases[node] = d.url
	}
	return d
}

// Node returns the document node.
func (d *Document) Node() *html.Node { return d.node }

// Root returns the document as a processable root.
func (d *Document) Root() Root { return Root{Node: d.node, Kind: RootDocument} }

// URL returns the location configured with WithURL.
func (d *Document) URL() string { return d.url }

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *html.Node {
	for c := d.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *html.Node {
	root := d.DocumentElement()
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c, "body") {
			return c
		}
	}
	return nil
}

// GetElementByID searches the main document for id.
func (d *Document) GetElementByID(id string) *html.Node {
	return ByID(d.node, id)
}

// Render serializes the main document.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.node); err != nil {
		return fmt.Errorf("dom: render document: %w", err)
	}
	return nil
}

// String serializes the main document, returning "" on render failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// NewFragment returns a detached fragment root holding nodes.
func NewFragment(nodes ...*html.Node) Root {
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		AppendChild(container, n)
	}
	return Root{Node: container, Kind: RootFragment}
}

// Import resolves the document referenced by a <link rel=import> element.
// Each href is loaded at most once, so repeated and mutually recursive imports
// yield the same root. The second result is false when no importer is
// configured, the element has no href, or loading failed; ImportErrors
// records failures.
func (d *Document) Import(link *html.Node) (Root, bool) {
	if d.importer == nil || link == nil {
		return Root{}, false
	}
	href, ok := Attr(link, "href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return Root{}, false
	}

	key := d.resolve(link, href)
	if node, ok := d.imports[key]; ok {
		return Root{Node: node, Kind: RootDocument}, true
	}
	if _, failed := d.importErrs[key]; failed {
		return Root{}, false
	}

	data, err := d.importer.Import(key)
	if err != nil {
		d.importErrs[key] = err
		return Root{}, false
	}
	node, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		d.importErrs[key] = fmt.Errorf("dom: parse import %s: %w", key, err)
		return Root{}, false
	}
	d.imports[key] = node
	d.bases[node] = key
	return Root{Node: node, Kind: RootDocument}, true
}

// Imported returns the already loaded import for a resolved href.
func (d *Document) Imported(href string) (*html.Node, bool) {
	node, ok := d.imports[href]
	return node, ok
}

// ImportErrors returns the failures recorded while resolving imports.
func (d *Document) ImportErrors() map[string]error {
	out := make(map[string]error, len(d.importErrs))
	for k, v := range d.importErrs {
		out[k] = v
	}
	return out
}

func (d *Document) resolve(link *html.Node, href string) string {
	if isAbsoluteURL(href) {
		return href
	}
	top := link
	for top.Parent != nil {
		top = top.Parent
	}
	base := d.bases[top]
	if strings.HasPrefix(href, "/") || base == "" {
		return strings.TrimPrefix(path.Clean("/"+href), "/")
	}
	return strings.TrimPrefix(path.Clean("/"+path.Join(path.Dir(base), href)), "/")
}

func isAbsoluteURL(href string) bool {
	scheme, _, ok := strings.Cut(href, "://")
	return ok && scheme != "" && !strings.ContainsAny(scheme, "/?#")
}
