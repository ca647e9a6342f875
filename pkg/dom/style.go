package dom

import (
	"strings"
	"unicode"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Style returns the inline value of a CSS property (either `font-size` or
// the script name `fontSize`).
func Style(n *html.Node, property string) string {
	name := CSSPropertyName(property)
	for _, decl := range declarations(n) {
		if strings.EqualFold(decl.Property, name) {
			return decl.Value
		}
	}
	return ""
}

// SetStyle sets an inline CSS property. An empty value removes it.
func SetStyle(n *html.Node, property, value string) {
	if n == nil {
		return
	}
	name := CSSPropertyName(property)
	if name == "" {
		return
	}
	value = strings.TrimSpace(value)

	decls := declarations(n)
	out := make([]*css.Declaration, 0, len(decls)+1)
	replaced := false
	for _, decl := range decls {
		if !strings.EqualFold(decl.Property, name) {
			out = append(out, decl)
			continue
		}
		if value != "" && !replaced {
			out = append(out, &css.Declaration{Property: name, Value: value})
			replaced = true
		}
	}
	if value != "" && !replaced {
		out = append(out, &css.Declaration{Property: name, Value: value})
	}

	if len(out) == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", serializeDeclarations(out))
}

// CSSPropertyName maps a script-style property name (`fontSize`,
// `webkitUserSelect`, `cssFloat`) to its CSS spelling.
func CSSPropertyName(property string) string {
	property = strings.TrimSpace(property)
	if property == "" || strings.Contains(property, "-") {
		return strings.ToLower(property)
	}
	if property == "cssFloat" {
		return "float"
	}
	var b strings.Builder
	for i, r := range property {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if i == 0 && strings.HasPrefix(property, "webkit") {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// declarations parses the style attribute. A style attribute that fails to
// parse is treated as empty. The parser drops the value of an unterminated
// last declaration, so the list is closed before parsing.
func declarations(n *html.Node) []*css.Declaration {
	raw, ok := Attr(n, "style")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil
	}
	if !strings.HasSuffix(raw, ";") {
		raw += ";"
	}
	decls, err := parser.ParseDeclarations(raw)
	if err != nil {
		return nil
	}
	return decls
}

func serializeDeclarations(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		part := decl.Property + ": " + decl.Value
		if decl.Important {
			part += " !important"
		}
		parts = append(parts, part+";")
	}
	return strings.Join(parts, " ")
}
