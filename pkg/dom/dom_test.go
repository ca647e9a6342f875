package dom_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-interstitial/pkg/dom"
)

func mustParse(t *testing.T, markup string, opts ...dom.Option) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(markup, opts...)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestQueryHelpers(t *testing.T) {
	doc := mustParse(t, `<div id="main-content" class="a b"><button id="reload-button" class="blue-button">Reload</button></div>`)

	btn := dom.Query(doc.Node(), "#main-content .blue-button")
	if btn == nil || btn != doc.GetElementByID("reload-button") {
		t.Fatalf("query and id lookup disagree")
	}
	if got := dom.TextContent(btn); got != "Reload" {
		t.Fatalf("text content = %q", got)
	}
	if n := len(dom.QueryAll(doc.Node(), "button, div")); n != 2 {
		t.Fatalf("expected two matches, got %d", n)
	}
	if _, err := dom.Compile("[["); err == nil {
		t.Fatalf("expected selector error")
	}
}

func TestDescendantsSkipsTemplateContent(t *testing.T) {
	doc := mustParse(t, `<body><span data-x></span><template id="tpl"><span data-x></span></template></body>`)
	matcher := dom.MustCompile("[data-x], template")

	found := dom.Descendants(doc.Node(), matcher)
	tags := make([]string, 0, len(found))
	for _, n := range found {
		tags = append(tags, n.Data)
	}
	if diff := cmp.Diff([]string{"span", "template"}, tags); diff != "" {
		t.Fatalf("descendants mismatch (-want +got):\n%s", diff)
	}

	content, ok := dom.TemplateContent(doc.GetElementByID("tpl"))
	if !ok {
		t.Fatalf("expected template content")
	}
	if n := len(dom.Descendants(content.Node, matcher)); n != 1 {
		t.Fatalf("expected one match inside template content, got %d", n)
	}
}

func TestClassListHelpers(t *testing.T) {
	el := dom.CreateElement("div")

	dom.AddClass(el, "hidden", "offline")
	dom.AddClass(el, "hidden")
	if got, _ := dom.Attr(el, "class"); got != "hidden offline" {
		t.Fatalf("class = %q", got)
	}
	if dom.ToggleClass(el, "hidden") {
		t.Fatalf("toggle should report removal")
	}
	dom.SetClass(el, "list-hidden", true)
	if diff := cmp.Diff([]string{"offline", "list-hidden"}, dom.Classes(el)); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestContentSetters(t *testing.T) {
	el := dom.CreateElement("div")
	if err := dom.SetInnerHTML(el, `<p>one</p><p>two <b>bold</b></p>`); err != nil {
		t.Fatalf("set inner html: %v", err)
	}
	if n := len(dom.Children(el)); n != 2 {
		t.Fatalf("expected two children, got %d", n)
	}
	if got := dom.TextContent(el); got != "onetwo bold" {
		t.Fatalf("text content = %q", got)
	}

	dom.SetTextContent(el, "<b>plain</b>")
	got, err := dom.InnerHTML(el)
	if err != nil {
		t.Fatalf("inner html: %v", err)
	}
	if want := "&lt;b&gt;plain&lt;/b&gt;"; got != want {
		t.Fatalf("inner html = %q, want %q", got, want)
	}
}

func TestInsertBeforeMovesNodes(t *testing.T) {
	doc := mustParse(t, `<div id="c"><button id="a"></button><button id="b"></button></div>`)
	parent := doc.GetElementByID("c")

	dom.InsertBefore(parent, doc.GetElementByID("b"), doc.GetElementByID("a"))

	var ids []string
	for _, child := range dom.Children(parent) {
		id, _ := dom.Attr(child, "id")
		ids = append(ids, id)
	}
	if diff := cmp.Diff([]string{"b", "a"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestStyleHelpers(t *testing.T) {
	el := dom.CreateElement("span")
	dom.SetAttr(el, "style", "color: blue; margin: 0")

	dom.SetStyle(el, "fontSize", "75%")
	dom.SetStyle(el, "color", "red")
	if got, _ := dom.Attr(el, "style"); got != "color: red; margin: 0; font-size: 75%;" {
		t.Fatalf("style = %q", got)
	}
	if got := dom.Style(el, "font-size"); got != "75%" {
		t.Fatalf("font-size = %q", got)
	}

	dom.SetStyle(el, "margin", "")
	if got := dom.Style(el, "margin"); got != "" {
		t.Fatalf("margin should be removed, got %q", got)
	}

	if got := dom.CSSPropertyName("webkitUserSelect"); got != "-webkit-user-select" {
		t.Fatalf("css name = %q", got)
	}
}

func TestSetStyleKeepsExistingDeclarations(t *testing.T) {
	cases := []struct {
		name  string
		style string
		want  string
	}{
		{name: "unterminated", style: "display: none", want: "display: none; color: red;"},
		{name: "unterminated multi-word", style: "margin: 0 auto", want: "margin: 0 auto; color: red;"},
		{name: "terminated", style: " margin: 0; ", want: "margin: 0; color: red;"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			el := dom.CreateElement("div")
			dom.SetAttr(el, "style", tc.style)
			dom.SetStyle(el, "color", "red")
			if got, _ := dom.Attr(el, "style"); got != tc.want {
				t.Fatalf("style = %q, want %q", got, tc.want)
			}
		})
	}

	el := dom.CreateElement("button")
	dom.SetAttr(el, "style", "display: none")
	if got := dom.Style(el, "display"); got != "none" {
		t.Fatalf("display = %q", got)
	}
}

func TestSetPropertyPaths(t *testing.T) {
	doc := mustParse(t, `<button id="details-button"></button>`)
	btn := doc.GetElementByID("details-button")

	if !doc.SetProperty(btn, []string{"style", "color"}, "red") {
		t.Fatalf("style assignment failed")
	}
	if got := dom.Style(btn, "color"); got != "red" {
		t.Fatalf("color = %q", got)
	}
	if !doc.SetProperty(btn, []string{"hidden"}, true) || !dom.HasAttr(btn, "hidden") {
		t.Fatalf("hidden not reflected")
	}
	doc.SetProperty(btn, []string{"hidden"}, "")
	if dom.HasAttr(btn, "hidden") {
		t.Fatalf("falsy hidden should remove the attribute")
	}
	doc.SetProperty(btn, []string{"dataset", "trackingId"}, 7)
	if got, _ := dom.Attr(btn, "data-tracking-id"); got != "7" {
		t.Fatalf("dataset attr = %q", got)
	}

	if !doc.SetProperty(btn, []string{"detailsText"}, "Details") {
		t.Fatalf("expando assignment failed")
	}
	if got, ok := doc.Property(btn, "detailsText"); !ok || got != "Details" {
		t.Fatalf("expando = %v, %v", got, ok)
	}
	if dom.HasAttr(btn, "detailstext") {
		t.Fatalf("expando must not become an attribute")
	}

	if doc.SetProperty(btn, []string{"missing", "deep"}, "x") {
		t.Fatalf("absent intermediate must abandon assignment")
	}
}

func TestImportsAreCachedAndResolvedRelative(t *testing.T) {
	calls := 0
	files := fstest.MapFS{
		"partials/a.html": {Data: []byte(`<link rel="import" href="b.html"><p>a</p>`)},
		"partials/b.html": {Data: []byte(`<p>b</p>`)},
	}
	importer := dom.ImporterFunc(func(href string) ([]byte, error) {
		calls++
		return dom.FSImporter{FS: files}.Import(href)
	})
	doc := mustParse(t, `<link rel="import" href="partials/a.html"><link rel="import" href="missing.html">`,
		dom.WithImporter(importer), dom.WithURL("index.html"))

	links := dom.QueryAll(doc.Node(), "link[rel=import]")
	first, ok := doc.Import(links[0])
	if !ok {
		t.Fatalf("expected import to resolve: %v", doc.ImportErrors())
	}
	again, _ := doc.Import(links[0])
	if first != again || calls != 1 {
		t.Fatalf("expected cached import, calls=%d", calls)
	}

	nested := dom.Query(first.Node, "link[rel=import]")
	b, ok := doc.Import(nested)
	if !ok {
		t.Fatalf("nested import failed: %v", doc.ImportErrors())
	}
	if _, ok := doc.Imported("partials/b.html"); !ok || dom.TextContent(b.Node) != "b" {
		t.Fatalf("nested import not resolved relative to its parent")
	}

	if _, ok := doc.Import(links[1]); ok {
		t.Fatalf("missing import should not resolve")
	}
	if err := doc.ImportErrors()["missing.html"]; err == nil {
		t.Fatalf("expected recorded import error")
	}
}

func TestMapImporterNotFound(t *testing.T) {
	_, err := dom.MapImporter{}.Import("x.html")
	if !errors.Is(err, dom.ErrImportNotFound) {
		t.Fatalf("expected ErrImportNotFound, got %v", err)
	}
}

func TestDocumentRender(t *testing.T) {
	doc := mustParse(t, `<p>hi</p>`)
	dom.SetAttr(dom.Query(doc.Node(), "p"), "i18n-processed", "")

	out := doc.String()
	if !strings.Contains(out, `<p i18n-processed="">hi</p>`) {
		t.Fatalf("unexpected render %q", out)
	}
	if doc.Body() == nil || doc.DocumentElement().Data != "html" {
		t.Fatalf("expected html/body elements")
	}
}
