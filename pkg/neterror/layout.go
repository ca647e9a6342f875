package neterror

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/goliatone/go-interstitial/pkg/dom"
	"github.com/goliatone/go-interstitial/pkg/i18ntemplate"
	"github.com/goliatone/go-interstitial/pkg/loadtime"
)

// IconOffline is the icon class of the offline (dinosaur) page.
const IconOffline = "icon-offline"

// UpdateIconClass swaps the icon class on el, removing the one set by the
// previous call for the same element, and tags the body as an offline or
// generic net-error page.
func (p *Page) UpdateIconClass(el *html.Node, newClass string) {
	if el == nil {
		return
	}
	oldClass, hadOld := p.iconClasses[el]
	if hadOld && oldClass == newClass {
		return
	}

	dom.AddClass(el, newClass)
	if hadOld {
		dom.RemoveClass(el, oldClass)
	}
	p.iconClasses[el] = newClass

	body := p.doc.Body()
	if newClass == IconOffline {
		dom.AddClass(body, "offline")
	} else {
		dom.AddClass(body, "neterror")
	}
}

// ToggleHelpBox shows or hides the details box and relabels the details
// button from its detailsText / hideDetailsText properties. On small screens
// the details replace the main content.
func (p *Page) ToggleHelpBox() {
	details := p.doc.GetElementByID(IDDetails)
	if details == nil {
		return
	}
	hidden := dom.ToggleClass(details, HiddenClass)

	if button := p.doc.GetElementByID(IDDetailsButton); button != nil {
		name := "hideDetailsText"
		if hidden {
			name = "detailsText"
		}
		label, _ := p.doc.Property(button, name)
		p.doc.SetProperty(button, []string{"innerText"}, label)
	}

	if p.mobileNav {
		if main := p.doc.GetElementByID(IDMainContent); main != nil {
			dom.ToggleClass(main, HiddenClass)
		}
		if runner := dom.Query(p.doc.Node(), ".runner-container"); runner != nil {
			dom.ToggleClass(runner, HiddenClass)
		}
	}
}

// Viewport is the size of the window showing the page, in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// MobileNav reports whether the viewport matches the small-screen layout:
//
//	(min-width: 240px) and (max-width: 420px) and (min-height: 401px),
//	(max-height: 560px) and (min-height: 240px) and (min-width: 421px)
func (v Viewport) MobileNav() bool {
	portrait := v.Width >= 240 && v.Width <= 420 && v.Height >= 401
	landscape := v.Height <= 560 && v.Height >= 240 && v.Width >= 421
	return portrait || landscape
}

// OnResize moves the navigation below the details on small screens. Only a
// change of layout touches the document.
func (p *Page) OnResize(v Viewport) {
	if p.mobileNav == v.MobileNav() {
		return
	}
	p.mobileNav = !p.mobileNav

	details := p.doc.GetElementByID(IDDetails)
	main := p.doc.GetElementByID(IDMainContent)
	runner := dom.Query(p.doc.Node(), ".runner-container")
	detailsHidden := dom.HasClass(details, HiddenClass)

	if p.mobileNav {
		dom.SetClass(main, HiddenClass, !detailsHidden)
		dom.SetClass(details, HiddenClass, detailsHidden)
		dom.SetClass(runner, HiddenClass, !detailsHidden)
		return
	}
	if !detailsHidden {
		dom.RemoveClass(main, HiddenClass)
		dom.RemoveClass(details, HiddenClass)
		dom.RemoveClass(runner, HiddenClass)
	}
}

// MarkSubframe flags the document for the subframe layout when the page is
// not the top-level frame.
func (p *Page) MarkSubframe(subframe bool) {
	if !subframe {
		return
	}
	dom.SetAttr(p.doc.DocumentElement(), "subframe", "")
}

// UpdateForDNSProbe merges the probe results into the page strings and
// re-renders the page template root.
func (p *Page) UpdateForDNSProbe(replacements map[string]loadtime.Value) error {
	if err := p.data.OverrideValues(replacements); err != nil {
		return fmt.Errorf("neterror: dns probe: %w", err)
	}
	root, err := p.require(IDTemplateRoot)
	if err != nil {
		return err
	}
	if err := i18ntemplate.Process(p.doc, dom.ElementRoot(root), p.data); err != nil {
		return fmt.Errorf("neterror: dns probe: %w", err)
	}
	return nil
}
