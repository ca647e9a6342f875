package i18ntemplate

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-interstitial/pkg/dom"
	"github.com/goliatone/go-interstitial/pkg/loadtime"
)

const (
	// AttrContent sets the element's text content from a string key.
	//
	//	<span i18n-content="myContent"></span>
	AttrContent = "i18n-content"
	// AttrOptions appends <option> elements built from a list key.
	//
	//	<select i18n-options="myOptionList"></select>
	AttrOptions = "i18n-options"
	// AttrValues assigns attributes and dotted properties from keys.
	//
	//	<span i18n-values="title:myTitle;.style.fontSize:fontSize"></span>
	AttrValues = "i18n-values"
	// AttrProcessed is written on top-level processed nodes.
	AttrProcessed = "i18n-processed"
)

// markers lists the marker attributes in the order they are applied to
// elements carrying several of them.
var markers = []string{AttrContent, AttrOptions, AttrValues}

// Handlers returns the recognised marker attribute names in the order they
// are applied.
func Handlers() []string {
	return append([]string(nil), markers...)
}

// apply runs the handler for one marker attribute.
func (w *walker) apply(el *html.Node, attr, value string) error {
	switch attr {
	case AttrContent:
		return handleContent(w, el, value)
	case AttrOptions:
		return handleOptions(w, el, value)
	case AttrValues:
		return handleValues(w, el, value)
	}
	return nil
}

func handleContent(w *walker, el *html.Node, key string) error {
	dom.SetTextContent(el, w.data.GetString(key))
	return nil
}

// handleOptions appends one <option> per list entry. A bare string is the
// label with no value; a pair is [value, label]. Entries are appended on
// every call.
func handleOptions(w *walker, el *html.Node, key string) error {
	value := w.data.Value(key)
	if value.IsUndefined() {
		return nil
	}
	entries, err := value.AsList()
	if err != nil {
		w.defect(&loadtime.TypeError{Key: key, Want: loadtime.KindList, Got: value.Kind(), Value: value.String()})
		return nil
	}
	for _, entry := range entries {
		option := dom.CreateElement("option")
		if pair, err := entry.AsList(); err == nil {
			var optionValue, label loadtime.Value
			if len(pair) > 0 {
				optionValue = pair[0]
			}
			if len(pair) > 1 {
				label = pair[1]
			}
			dom.SetAttr(option, "value", optionValue.String())
			dom.SetTextContent(option, label.String())
		} else {
			dom.SetTextContent(option, entry.String())
		}
		dom.AppendChild(el, option)
	}
	return nil
}

var valuesPair = regexp.MustCompile(`^([^:]+):(.+)$`)

var whitespace = regexp.MustCompile(`\s`)

// handleValues applies `name:key` pairs separated by semicolons. Names with
// a leading dot are property paths; all other names are attributes. A part
// without a colon aborts processing.
func handleValues(w *walker, el *html.Node, attributeAndKeys string) error {
	parts := strings.Split(whitespace.ReplaceAllString(attributeAndKeys, ""), ";")
	for _, part := range parts {
		if part == "" {
			continue
		}
		match := valuesPair.FindStringSubmatch(part)
		if match == nil {
			return &MalformedValuesError{Value: attributeAndKeys, Part: part}
		}
		propName, propExpr := match[1], match[2]
		value := w.data.Value(propExpr)

		if !strings.HasPrefix(propName, ".") {
			dom.SetAttr(el, propName, value.String())
			continue
		}

		path := strings.Split(propName[1:], ".")
		if !w.doc.SetProperty(el, path, value) {
			continue
		}
		// Injected markup may carry markers of its own.
		if path[len(path)-1] == "innerHTML" {
			for _, child := range dom.Children(el) {
				if err := w.walk(dom.ElementRoot(child), false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
