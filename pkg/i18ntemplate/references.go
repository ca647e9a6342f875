package i18ntemplate

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-interstitial/pkg/dom"
)

// Reference is a store key named by a marker attribute.
type Reference struct {
	Attr string `json:"attr"`
	Key  string `json:"key"`
}

// References lists the keys the markers under root would read, in document
// order. Template content is included; imports are not. Each attribute and
// key pair appears once.
func References(root *html.Node) ([]Reference, error) {
	var out []Reference
	seen := make(map[Reference]struct{})
	add := func(ref Reference) {
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}

	var scan func(n *html.Node) error
	scan = func(n *html.Node) error {
		elements := dom.Descendants(n, markerSelector)
		if n.Type == html.ElementNode && dom.Matches(n, markerSelector) {
			elements = append([]*html.Node{n}, elements...)
		}
		for _, el := range elements {
			if key, ok := dom.Attr(el, AttrContent); ok {
				add(Reference{Attr: AttrContent, Key: key})
			}
			if key, ok := dom.Attr(el, AttrOptions); ok {
				add(Reference{Attr: AttrOptions, Key: key})
			}
			if value, ok := dom.Attr(el, AttrValues); ok {
				keys, err := valuesKeys(value)
				if err != nil {
					return err
				}
				for _, key := range keys {
					add(Reference{Attr: AttrValues, Key: key})
				}
			}
		}
		for _, tpl := range dom.Descendants(n, templateMatch) {
			content, ok := dom.TemplateContent(tpl)
			if !ok {
				continue
			}
			if err := scan(content.Node); err != nil {
				return err
			}
		}
		return nil
	}

	if root == nil {
		return nil, nil
	}
	if err := scan(root); err != nil {
		return nil, err
	}
	return out, nil
}

func valuesKeys(attributeAndKeys string) ([]string, error) {
	var keys []string
	for _, part := range strings.Split(whitespace.ReplaceAllString(attributeAndKeys, ""), ";") {
		if part == "" {
			continue
		}
		match := valuesPair.FindStringSubmatch(part)
		if match == nil {
			return nil, &MalformedValuesError{Value: attributeAndKeys, Part: part}
		}
		keys = append(keys, match[2])
	}
	return keys, nil
}
