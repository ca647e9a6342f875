package dom

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

var booleanProperties = map[string]string{
	"hidden":   "hidden",
	"disabled": "disabled",
	"checked":  "checked",
	"selected": "selected",
	"required": "required",
	"readOnly": "readonly",
	"multiple": "multiple",
	"open":     "open",
}

var reflectedProperties = map[string]string{
	"id":          "id",
	"title":       "title",
	"value":       "value",
	"href":        "href",
	"src":         "src",
	"lang":        "lang",
	"dir":         "dir",
	"name":        "name",
	"type":        "type",
	"alt":         "alt",
	"placeholder": "placeholder",
	"rel":         "rel",
	"target":      "target",
	"className":   "class",
	"htmlFor":     "for",
	"tabIndex":    "tabindex",
}

// propertyObject is one step of a dotted property path.
type propertyObject interface {
	child(name string) (propertyObject, bool)
	set(name string, value any)
}

// SetProperty assigns value to the dotted property path on el, the way
// `el.a.b = value` would in a page script. Every segment before the last
// must resolve to an existing object; otherwise nothing is assigned and
// false is returned.
//
// Element properties that reflect markup (text and markup content, boolean
// and string attributes, `style`, `dataset`) update the tree; anything else
// is kept as a document-scoped expando readable with Property.
func (d *Document) SetProperty(el *html.Node, path []string, value any) bool {
	if el == nil || len(path) == 0 {
		return false
	}
	var target propertyObject = elementObject{doc: d, el: el}
	for _, segment := range path[:len(path)-1] {
		next, ok := target.child(segment)
		if !ok {
			return false
		}
		target = next
	}
	target.set(path[len(path)-1], value)
	return true
}

// Property reads an element property: expandos first, then reflected
// attributes and text content.
func (d *Document) Property(el *html.Node, name string) (any, bool) {
	if el == nil {
		return nil, false
	}
	if props, ok := d.props[el]; ok {
		if v, ok := props[name]; ok {
			return v, true
		}
	}
	if attr, ok := booleanProperties[name]; ok {
		return HasAttr(el, attr), true
	}
	if attr, ok := reflectedProperties[name]; ok {
		v, _ := Attr(el, attr)
		return v, true
	}
	switch name {
	case "textContent", "innerText":
		return TextContent(el), true
	}
	return nil, false
}

// SetExpando stores a script-only property on el.
func (d *Document) SetExpando(el *html.Node, name string, value any) {
	if el == nil {
		return
	}
	props, ok := d.props[el]
	if !ok {
		props = make(map[string]any)
		d.props[el] = props
	}
	props[name] = value
}

type elementObject struct {
	doc *Document
	el  *html.Node
}

func (o elementObject) child(name string) (propertyObject, bool) {
	switch name {
	case "style":
		return styleObject{el: o.el}, true
	case "dataset":
		return datasetObject{el: o.el}, true
	}
	if props, ok := o.doc.props[o.el]; ok {
		if nested, ok := props[name].(map[string]any); ok {
			return mapObject(nested), true
		}
	}
	return nil, false
}

func (o elementObject) set(name string, value any) {
	switch name {
	case "textContent", "innerText":
		SetTextContent(o.el, stringify(value))
		return
	case "innerHTML":
		// A fragment that fails to parse leaves the children untouched.
		_ = SetInnerHTML(o.el, stringify(value))
		return
	}
	if attr, ok := booleanProperties[name]; ok {
		SetBoolAttr(o.el, attr, truthy(value))
		return
	}
	if attr, ok := reflectedProperties[name]; ok {
		SetAttr(o.el, attr, stringify(value))
		return
	}
	o.doc.SetExpando(o.el, name, value)
}

type styleObject struct {
	el *html.Node
}

func (styleObject) child(string) (propertyObject, bool) { return nil, false }

func (o styleObject) set(name string, value any) {
	SetStyle(o.el, name, stringify(value))
}

type datasetObject struct {
	el *html.Node
}

func (datasetObject) child(string) (propertyObject, bool) { return nil, false }

func (o datasetObject) set(name string, value any) {
	SetAttr(o.el, "data-"+kebab(name), stringify(value))
}

type mapObject map[string]any

func (m mapObject) child(name string) (propertyObject, bool) {
	nested, ok := m[name].(map[string]any)
	if !ok {
		return nil, false
	}
	return mapObject(nested), true
}

func (m mapObject) set(name string, value any) {
	m[name] = value
}

func kebab(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case interface{ Truthy() bool }:
		return v.Truthy()
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

// Truthy exposes the truthiness rule used for boolean properties.
func Truthy(value any) bool { return truthy(value) }
