package i18ntemplate

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-interstitial/pkg/dom"
	"github.com/goliatone/go-interstitial/pkg/loadtime"
)

var (
	// ErrMalformedValues marks an i18n-values directive without `name:key`
	// syntax.
	ErrMalformedValues = errors.New("i18ntemplate: malformed i18n-values")
	// ErrNilDocument is returned when Process is called without a document.
	ErrNilDocument = errors.New("i18ntemplate: document is required")
	// ErrNilStore is returned when Process is called without a store.
	ErrNilStore = errors.New("i18ntemplate: store is required")
)

// MalformedValuesError carries the full directive and the offending part.
type MalformedValuesError struct {
	Value string
	Part  string
}

func (e *MalformedValuesError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedValues.Error(), e.Value)
}

func (e *MalformedValuesError) Unwrap() error { return ErrMalformedValues }

var (
	markerSelector = dom.MustCompile("[" + strings.Join(markers, "], [") + "]")
	importSelector = dom.MustCompile("link[rel=import]")
	templateMatch  = dom.MatcherFunc(func(n *html.Node) bool { return n.Data == "template" })
)

// ProcessDocument processes the whole document.
func ProcessDocument(doc *dom.Document, data *loadtime.Store) error {
	if doc == nil {
		return ErrNilDocument
	}
	return Process(doc, doc.Root(), data)
}

// Process populates every marker element under root from data. Imports and
// template content reachable from root are processed too, each root at most
// once per call, and top-level nodes are tagged with i18n-processed.
//
// Missing keys and type mismatches are reported through the store and
// skipped. A malformed i18n-values directive stops processing and is
// returned; later directives stay unprocessed.
func Process(doc *dom.Document, root dom.Root, data *loadtime.Store) error {
	if doc == nil {
		return ErrNilDocument
	}
	if data == nil {
		return ErrNilStore
	}
	w := &walker{
		doc:     doc,
		data:    data,
		visited: make(map[dom.Root]struct{}),
	}
	return w.walk(root, true)
}

type walker struct {
	doc     *dom.Document
	data    *loadtime.Store
	visited map[dom.Root]struct{}
}

func (w *walker) walk(root dom.Root, mark bool) error {
	if root.Node == nil {
		return nil
	}
	if _, seen := w.visited[root]; seen {
		return nil
	}
	w.visited[root] = struct{}{}

	// Links inside inert template content never load.
	if root.Kind != dom.RootTemplateContent {
		for _, link := range dom.Descendants(root.Node, importSelector) {
			imported, ok := w.doc.Import(link)
			if !ok {
				continue
			}
			if err := w.walk(imported, mark); err != nil {
				return err
			}
		}
	}

	for _, tpl := range dom.Descendants(root.Node, templateMatch) {
		content, ok := dom.TemplateContent(tpl)
		if !ok {
			continue
		}
		if err := w.walk(content, mark); err != nil {
			return err
		}
	}

	if root.IsElement() && dom.Matches(root.Node, markerSelector) {
		if err := w.processElement(root.Node); err != nil {
			return err
		}
	}
	for _, el := range dom.Descendants(root.Node, markerSelector) {
		if err := w.processElement(el); err != nil {
			return err
		}
	}

	if mark {
		processed := []*html.Node{root.Node}
		if !root.IsElement() {
			processed = dom.Children(root.Node)
		}
		for _, n := range processed {
			dom.SetAttr(n, AttrProcessed, "")
		}
	}
	return nil
}

func (w *walker) processElement(el *html.Node) error {
	for _, attr := range markers {
		value, ok := dom.Attr(el, attr)
		if !ok {
			continue
		}
		if err := w.apply(el, attr, value); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) defect(err error) {
	w.data.Report(err)
}
