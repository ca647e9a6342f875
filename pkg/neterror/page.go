package neterror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/goliatone/go-interstitial/pkg/dom"
	"github.com/goliatone/go-interstitial/pkg/loadtime"
	"github.com/goliatone/go-interstitial/pkg/render/template"
	"github.com/goliatone/go-interstitial/pkg/render/template/pongo"
)

// HiddenClass hides an element through the page stylesheet.
const HiddenClass = "hidden"

// Element ids the page script relies on.
const (
	IDControlButtons            = "control-buttons"
	IDButtons                   = "buttons"
	IDReloadButton              = "reload-button"
	IDDetailsButton             = "details-button"
	IDShowSavedCopyButton       = "show-saved-copy-button"
	IDDownloadButton            = "download-button"
	IDDetails                   = "details"
	IDMainContent               = "main-content"
	IDTemplateRoot              = "t"
	IDDownloadLink              = "download-link"
	IDDownloadLinksWrapper      = "download-links-wrapper"
	IDDownloadLinkWrapper       = "download-link-wrapper"
	IDDownloadLinkClicked       = "download-link-clicked-wrapper"
	IDErrorInformationPopup     = "error-information-popup-container"
	IDErrorInformationButton    = "error-information-button"
	IDCancelSavePageButton      = "cancel-save-page-button"
	IDSavePageForLaterButton    = "save-page-for-later-button"
	IDOfflineContentSummary     = "offline-content-summary"
	IDOfflineContentList        = "offline-content-list"
	IDOfflineContentSuggestions = "offline-content-suggestions"
	IDSearchBox                 = "search-box"
)

var (
	// ErrNilDocument is returned by New without a document.
	ErrNilDocument = errors.New("neterror: document is required")
	// ErrNilStore is returned by New without a store.
	ErrNilStore = errors.New("neterror: store is required")
	// ErrNoController is returned by actions that only make sense with a host
	// controller.
	ErrNoController = errors.New("neterror: no controller")
	// ErrAlreadyApplied is returned when Apply runs twice on the same page.
	ErrAlreadyApplied = errors.New("neterror: layout already applied")
)

// MissingElementError names a required element absent from the document.
type MissingElementError struct {
	ID string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("neterror: missing element #%s", e.ID)
}

// Option configures a Page.
type Option func(*Page)

// WithController forwards clicks to controller.
func WithController(controller Controller) Option {
	return func(p *Page) {
		p.controller = controller
	}
}

// WithRenderer replaces the embedded suggestion card templates.
func WithRenderer(renderer template.TemplateRenderer) Option {
	return func(p *Page) {
		p.renderer = renderer
	}
}

// WithLogger sets the logger used for page diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPrimaryControlOnLeft chooses which side the primary button sits on.
// Defaults to true.
func WithPrimaryControlOnLeft(left bool) Option {
	return func(p *Page) {
		p.primaryControlOnLeft = left
	}
}

// WithNavigator receives location changes (reload without a controller,
// cached copy, search).
func WithNavigator(navigate func(url string)) Option {
	return func(p *Page) {
		p.navigate = navigate
	}
}

// CachedCopy is the action installed on the reload button when the strings
// carry a cacheButton entry.
type CachedCopy struct {
	URL        string
	TrackingID int
}

// Page holds one processed error page and the script state around it.
type Page struct {
	doc        *dom.Document
	data       *loadtime.Store
	controller Controller
	renderer   template.TemplateRenderer
	logger     *slog.Logger
	navigate   func(string)

	primaryControlOnLeft bool
	applied              bool
	mobileNav            bool
	location             string
	cachedCopy           *CachedCopy
	iconClasses          map[*html.Node]string
}

// New wraps a document already processed against data.
func New(doc *dom.Document, data *loadtime.Store, options ...Option) (*Page, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if data == nil {
		return nil, ErrNilStore
	}
	p := &Page{
		doc:                  doc,
		data:                 data,
		logger:               slog.Default(),
		primaryControlOnLeft: true,
		iconClasses:          make(map[*html.Node]string),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.renderer == nil {
		engine, err := pongo.New(pongo.WithFS(TemplatesFS()), pongo.WithName("neterror"))
		if err != nil {
			return nil, fmt.Errorf("neterror: template engine: %w", err)
		}
		p.renderer = engine
	}
	return p, nil
}

// Document returns the wrapped document.
func (p *Page) Document() *dom.Document { return p.doc }

// Store returns the page strings.
func (p *Page) Store() *loadtime.Store { return p.data }

// Location returns the last URL the page navigated to.
func (p *Page) Location() string { return p.location }

// MobileNav reports whether the small-screen layout is active.
func (p *Page) MobileNav() bool { return p.mobileNav }

// CachedCopy returns the action installed on the reload button, if any.
func (p *Page) CachedCopy() (CachedCopy, bool) {
	if p.cachedCopy == nil {
		return CachedCopy{}, false
	}
	return *p.cachedCopy, true
}

// Render serializes the page.
func (p *Page) Render(w io.Writer) error {
	return p.doc.Render(w)
}

// Apply runs the layout the page performs once its content has loaded.
//
// When offline content will be presented the navigation and details
// buttons give way to download links. Otherwise the primary and secondary
// buttons are ordered for the platform, the cached copy button is installed,
// and the control buttons are shown when any of them has a label.
func (p *Page) Apply(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.applied {
		return ErrAlreadyApplied
	}

	controlButtons, err := p.require(IDControlButtons)
	if err != nil {
		return err
	}
	reloadButton, err := p.require(IDReloadButton)
	if err != nil {
		return err
	}
	detailsButton, err := p.require(IDDetailsButton)
	if err != nil {
		return err
	}
	savedCopyButton, err := p.require(IDShowSavedCopyButton)
	if err != nil {
		return err
	}
	downloadButton, err := p.require(IDDownloadButton)
	if err != nil {
		return err
	}
	p.applied = true

	reloadVisible := p.labelled("reloadButton")
	savedCopyVisible := p.labelled("showSavedCopyButton")
	downloadVisible := p.labelled("downloadButton")

	if p.data.Has("suggestedOfflineContentPresentationMode") {
		p.applyOfflinePresentation(detailsButton, downloadVisible)
		return nil
	}

	primary, secondary := reloadButton, savedCopyButton
	if primaryFlag, ok := p.doc.Property(savedCopyButton, "primary"); ok && dom.Truthy(primaryFlag) {
		primary, secondary = savedCopyButton, reloadButton
	}

	buttons := p.doc.GetElementByID(IDButtons)
	if p.primaryControlOnLeft {
		dom.AddClass(buttons, "suggested-left")
		dom.InsertBefore(controlButtons, secondary, primary)
	} else {
		dom.AddClass(buttons, "suggested-right")
		dom.InsertBefore(controlButtons, primary, secondary)
	}

	if p.data.Has("cacheButton") {
		p.setUpCachedButton(reloadButton, controlButtons, p.data.Value("cacheButton"))
	}

	if isDisplayNone(reloadButton) && isDisplayNone(savedCopyButton) && isDisplayNone(downloadButton) {
		dom.AddClass(detailsButton, "singular")
	}

	attemptAutoFetch := p.data.Has("attemptAutoFetch") && p.data.Value("attemptAutoFetch").Truthy()

	if reloadVisible || savedCopyVisible || downloadVisible || attemptAutoFetch {
		dom.RemoveAttr(controlButtons, "hidden")
		if (reloadVisible || downloadVisible) && savedCopyVisible {
			dom.AddClass(secondary, "secondary-button")
		}
	}
	return nil
}

func (p *Page) applyOfflinePresentation(detailsButton *html.Node, downloadVisible bool) {
	dom.AddClass(dom.Query(p.doc.Node(), ".nav-wrapper"), HiddenClass)
	dom.AddClass(detailsButton, HiddenClass)

	if downloadVisible {
		dom.RemoveAttr(p.doc.GetElementByID(IDDownloadLink), "hidden")
	}
	dom.RemoveClass(p.doc.GetElementByID(IDDownloadLinksWrapper), HiddenClass)
	dom.AddClass(p.doc.GetElementByID(IDErrorInformationPopup), "use-popup-container", HiddenClass)
	dom.RemoveClass(p.doc.GetElementByID(IDErrorInformationButton), HiddenClass)
}

// setUpCachedButton turns the reload button into the cached copy button.
func (p *Page) setUpCachedButton(reloadButton, controlButtons *html.Node, button loadtime.Value) {
	dom.SetTextContent(reloadButton, button.Field("msg").String())

	cached := &CachedCopy{URL: button.Field("cacheUrl").String()}
	if id, err := button.Field("trackingId").AsInteger(); err == nil {
		cached.TrackingID = id
	} else {
		cached.TrackingID = -1
	}
	p.cachedCopy = cached

	dom.SetStyle(reloadButton, "display", "")
	dom.RemoveAttr(controlButtons, "hidden")
}

// labelled reports whether key exists and carries a non-empty msg.
func (p *Page) labelled(key string) bool {
	if !p.data.Has(key) {
		return false
	}
	return p.data.Value(key).Field("msg").Truthy()
}

func (p *Page) require(id string) (*html.Node, error) {
	el := p.doc.GetElementByID(id)
	if el == nil {
		return nil, &MissingElementError{ID: id}
	}
	return el, nil
}

func (p *Page) goTo(url string) {
	p.location = url
	p.logger.Debug("neterror: navigate", slog.String("url", url))
	if p.navigate != nil {
		p.navigate(url)
	}
}

func isDisplayNone(el *html.Node) bool {
	return dom.Style(el, "display") == "none"
}
