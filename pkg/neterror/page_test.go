package neterror_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-interstitial/pkg/dom"
	"github.com/goliatone/go-interstitial/pkg/i18ntemplate"
	"github.com/goliatone/go-interstitial/pkg/loadtime"
	"github.com/goliatone/go-interstitial/pkg/neterror"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseStrings() map[string]loadtime.Value {
	return map[string]loadtime.Value{
		"title":            loadtime.String("example.com"),
		"heading":          loadtime.String("This site can't be reached"),
		"details":          loadtime.String("Details"),
		"hideDetails":      loadtime.String("Hide details"),
		"reloadLabel":      loadtime.String("Reload"),
		"savedCopyPrimary": loadtime.Bool(false),
		"downloadDisabled": loadtime.String("Downloading..."),
		"reloadButton": loadtime.Object(map[string]loadtime.Value{
			"msg":       loadtime.String("Reload"),
			"reloadUrl": loadtime.String("https://example.com/"),
		}),
	}
}

func newPage(t *testing.T, extra map[string]loadtime.Value, opts ...neterror.Option) *neterror.Page {
	t.Helper()

	markup, err := os.ReadFile(filepath.Join("testdata", "page.html"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc, err := dom.ParseString(string(markup))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	data := baseStrings()
	for k, v := range extra {
		data[k] = v
	}
	store := loadtime.NewWithData(data, loadtime.WithLogger(discardLogger()))
	if err := i18ntemplate.ProcessDocument(doc, store); err != nil {
		t.Fatalf("process: %v", err)
	}

	opts = append([]neterror.Option{neterror.WithLogger(discardLogger())}, opts...)
	page, err := neterror.New(doc, store, opts...)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	return page
}

func childIDs(page *neterror.Page, id string) []string {
	var ids []string
	for _, child := range dom.Children(page.Document().GetElementByID(id)) {
		v, _ := dom.Attr(child, "id")
		ids = append(ids, v)
	}
	return ids
}

func msg(text string) loadtime.Value {
	return loadtime.Object(map[string]loadtime.Value{"msg": loadtime.String(text)})
}

func TestApply_DefaultLayout(t *testing.T) {
	page := newPage(t, nil)
	if err := page.Apply(context.Background()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	doc := page.Document()

	want := []string{"show-saved-copy-button", "reload-button", "download-button", "cancel-save-page-button", "save-page-for-later-button"}
	if diff := cmp.Diff(want, childIDs(page, neterror.IDControlButtons)); diff != "" {
		t.Fatalf("button order mismatch (-want +got):\n%s", diff)
	}
	if !dom.HasClass(doc.GetElementByID(neterror.IDButtons), "suggested-left") {
		t.Fatalf("expected suggested-left")
	}
	if dom.HasAttr(doc.GetElementByID(neterror.IDControlButtons), "hidden") {
		t.Fatalf("control buttons should be visible")
	}
	if dom.HasClass(doc.GetElementByID(neterror.IDShowSavedCopyButton), "secondary-button") {
		t.Fatalf("single call to action must not mark a secondary button")
	}
	if dom.HasClass(doc.GetElementByID(neterror.IDDetailsButton), "singular") {
		t.Fatalf("details button is not alone")
	}

	if err := page.Apply(context.Background()); !errors.Is(err, neterror.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestApply_PrimarySavedCopyOnRight(t *testing.T) {
	page := newPage(t, map[string]loadtime.Value{
		"savedCopyPrimary":    loadtime.Bool(true),
		"showSavedCopyButton": msg("Show saved copy"),
	}, neterror.WithPrimaryControlOnLeft(false))

	if err := page.Apply(context.Background()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	doc := page.Document()

	ids := childIDs(page, neterror.IDControlButtons)
	if diff := cmp.Diff([]string{"show-saved-copy-button", "reload-button"}, ids[:2]); diff != "" {
		t.Fatalf("button order mismatch (-want +got):\n%s", diff)
	}
	if !dom.HasClass(doc.GetElementByID(neterror.IDButtons), "suggested-right") {
		t.Fatalf("expected suggested-right")
	}
	if !dom.HasClass(doc.GetElementByID(neterror.IDReloadButton), "secondary-button") {
		t.Fatalf("reload should be the secondary button")
	}
}

func TestApply_PrimarySavedCopyOnLeft(t *testing.T) {
	page := newPage(t, map[string]loadtime.Value{"savedCopyPrimary": loadtime.Bool(true)})
	if err := page.Apply(context.Background()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	ids := childIDs(page, neterror.IDControlButtons)
	if diff := cmp.Diff([]string{"reload-button", "show-saved-copy-button"}, ids[:2]); diff != "" {
		t.Fatalf("button order mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_OfflinePresentation(t *testing.T) {
	page := newPage(t, map[string]loadtime.Value{
		"suggestedOfflineContentPresentationMode": loadtime.Bool(true),
		"downloadButton":                          msg("Download page"),
	})
	if err := page.Apply(context.Background()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	doc := page.Document()

	if !dom.HasClass(doc.GetElementByID(neterror.IDButtons), neterror.HiddenClass) {
		t.Fatalf("nav wrapper should be hidden")
	}
	if !dom.HasClass(doc.GetElementByID(neterror.IDDetailsButton), neterror.HiddenClass) {
		t.Fatalf("details button should be hidden")
	}
	if dom.HasAttr(doc.GetElementByID(neterror.IDDownloadLink), "hidden") {
		t.Fatalf("download link should be shown")
	}
	if dom.HasClass(doc.GetElementByID(neterror.IDDownloadLinksWrapper), neterror.HiddenClass) {
		t.Fatalf("download links wrapper should be shown")
	}
	popup := doc.GetElementByID(neterror.IDErrorInformationPopup)
	if diff := cmp.Diff([]string{"use-popup-container", "hidden"}, dom.Classes(popup)); diff != "" {
		t.Fatalf("popup classes mismatch (-want +got):\n%s", diff)
	}
	if !dom.HasAttr(doc.GetElementByID(neterror.IDControlButtons), "hidden") {
		t.Fatalf("control buttons stay hidden in offline presentation")
	}
}

func TestApply_CachedCopyButton(t *testing.T) {
	rec := &neterror.RecordingController{}
	var navigated []string
	page := newPage(t, map[string]loadtime.Value{
		"cacheButton": loadtime.Object(map[string]loadtime.Value{
			"msg":        loadtime.String("Show cached copy"),
			"cacheUrl":   loadtime.String("https://cache.example/x"),
			"trackingId": loadtime.Int(4),
		}),
	}, neterror.WithController(rec), neterror.WithNavigator(func(url string) { navigated = append(navigated, url) }))

	if err := page.Apply(context.Background()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	reload := page.Document().GetElementByID(neterror.IDReloadButton)
	if got := dom.TextContent(reload); got != "Show cached copy" {
		t.Fatalf("reload label = %q", got)
	}
	if cached, ok := page.CachedCopy(); !ok || cached.TrackingID != 4 {
		t.Fatalf("cached copy = %+v, %v", cached, ok)
	}

	page.ReloadButtonClick("https://example.com/")
	if diff := cmp.Diff([]string{"TrackClick", "TrackCachedCopyButtonClick"}, rec.Methods()); diff != "" {
		t.Fatalf("controller calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"https://cache.example/x"}, navigated); diff != "" {
		t.Fatalf("navigation mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_SingularDetailsButton(t *testing.T) {
	page := newPage(t, nil)
	dom.SetStyle(page.Document().GetElementByID(neterror.IDReloadButton), "display", "none")

	if err := page.Apply(context.Background()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !dom.HasClass(page.Document().GetElementByID(neterror.IDDetailsButton), "singular") {
		t.Fatalf("expected singular details button")
	}
}

func TestApply_MissingElement(t *testing.T) {
	doc, err := dom.ParseString(`<div id="control-buttons"></div>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	page, err := neterror.New(doc, loadtime.NewWithData(map[string]loadtime.Value{}), neterror.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var missing *neterror.MissingElementError
	if err := page.Apply(context.Background()); !errors.As(err, &missing) || missing.ID != neterror.IDReloadButton {
		t.Fatalf("expected missing reload button, got %v", err)
	}
}

func TestApply_CancelledContext(t *testing.T) {
	page := newPage(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := page.Apply(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNew_RequiresDocumentAndStore(t *testing.T) {
	if _, err := neterror.New(nil, loadtime.New()); !errors.Is(err, neterror.ErrNilDocument) {
		t.Fatalf("expected ErrNilDocument, got %v", err)
	}
	doc, _ := dom.ParseString(`<p></p>`)
	if _, err := neterror.New(doc, nil); !errors.Is(err, neterror.ErrNilStore) {
		t.Fatalf("expected ErrNilStore, got %v", err)
	}
}

func TestReloadWithoutController(t *testing.T) {
	page := newPage(t, nil)
	page.ReloadButtonClick("https://example.com/")
	if got := page.Location(); got != "https://example.com/" {
		t.Fatalf("location = %q", got)
	}
}

func TestDownloadButtonClick(t *testing.T) {
	rec := &neterror.RecordingController{}
	page := newPage(t, nil, neterror.WithController(rec))
	doc := page.Document()

	page.DownloadButtonClick()

	button := doc.GetElementByID(neterror.IDDownloadButton)
	if !dom.HasAttr(button, "disabled") {
		t.Fatalf("download button should be disabled")
	}
	if got := dom.TextContent(button); got != "Downloading..." {
		t.Fatalf("download label = %q", got)
	}
	if !dom.HasClass(doc.GetElementByID(neterror.IDDownloadLinkWrapper), neterror.HiddenClass) {
		t.Fatalf("download link wrapper should be hidden")
	}
	if dom.HasClass(doc.GetElementByID(neterror.IDDownloadLinkClicked), neterror.HiddenClass) {
		t.Fatalf("clicked wrapper should be shown")
	}
	if diff := cmp.Diff([]string{"DownloadButtonClick"}, rec.Methods()); diff != "" {
		t.Fatalf("controller calls mismatch (-want +got):\n%s", diff)
	}
}

func TestDownloadButtonClickWithoutController(t *testing.T) {
	page := newPage(t, nil)
	page.DownloadButtonClick()
	if dom.HasAttr(page.Document().GetElementByID(neterror.IDDownloadButton), "disabled") {
		t.Fatalf("nothing should change without a controller")
	}
}

func TestTrackClickIgnoresNegativeIDs(t *testing.T) {
	rec := &neterror.RecordingController{}
	page := newPage(t, nil, neterror.WithController(rec))

	page.TrackClick(-1)
	page.TrackClick(0)

	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Method != "TrackClick" || calls[0].Args[0] != 0 {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestSavePageFlow(t *testing.T) {
	rec := &neterror.RecordingController{}
	page := newPage(t, nil, neterror.WithController(rec))
	doc := page.Document()

	if err := page.SavePageLaterClick(); err != nil {
		t.Fatalf("save later: %v", err)
	}
	page.SetAutoFetchState(true, true)
	if dom.HasClass(doc.GetElementByID(neterror.IDCancelSavePageButton), neterror.HiddenClass) {
		t.Fatalf("cancel button should show while scheduled")
	}
	if !dom.HasClass(doc.GetElementByID(neterror.IDSavePageForLaterButton), neterror.HiddenClass) {
		t.Fatalf("save button should hide while scheduled")
	}

	if err := page.CancelSavePageClick(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !dom.HasClass(doc.GetElementByID(neterror.IDCancelSavePageButton), neterror.HiddenClass) {
		t.Fatalf("cancel button should hide after cancelling")
	}
	if dom.HasClass(doc.GetElementByID(neterror.IDSavePageForLaterButton), neterror.HiddenClass) {
		t.Fatalf("save button should show after cancelling")
	}
	if diff := cmp.Diff([]string{"SavePageForLater", "CancelSavePage"}, rec.Methods()); diff != "" {
		t.Fatalf("controller calls mismatch (-want +got):\n%s", diff)
	}

	bare := newPage(t, nil)
	if err := bare.SavePageLaterClick(); !errors.Is(err, neterror.ErrNoController) {
		t.Fatalf("expected ErrNoController, got %v", err)
	}
}

func TestToggleHelpBox(t *testing.T) {
	page := newPage(t, nil)
	doc := page.Document()
	details := doc.GetElementByID(neterror.IDDetails)
	button := doc.GetElementByID(neterror.IDDetailsButton)

	page.ToggleHelpBox()
	if dom.HasClass(details, neterror.HiddenClass) {
		t.Fatalf("details should be shown")
	}
	if got := dom.TextContent(button); got != "Hide details" {
		t.Fatalf("button label = %q", got)
	}

	page.ToggleHelpBox()
	if !dom.HasClass(details, neterror.HiddenClass) {
		t.Fatalf("details should be hidden again")
	}
	if got := dom.TextContent(button); got != "Details" {
		t.Fatalf("button label = %q", got)
	}
}

func TestMobileNavResizeAndToggle(t *testing.T) {
	page := newPage(t, nil)
	doc := page.Document()
	details := doc.GetElementByID(neterror.IDDetails)
	main := doc.GetElementByID(neterror.IDMainContent)

	page.OnResize(neterror.Viewport{Width: 360, Height: 640})
	if !page.MobileNav() {
		t.Fatalf("expected mobile nav")
	}
	if dom.HasClass(main, neterror.HiddenClass) || !dom.HasClass(details, neterror.HiddenClass) {
		t.Fatalf("hidden details keep main content visible")
	}

	page.ToggleHelpBox()
	if !dom.HasClass(main, neterror.HiddenClass) || dom.HasClass(details, neterror.HiddenClass) {
		t.Fatalf("details should replace main content on small screens")
	}

	page.OnResize(neterror.Viewport{Width: 1280, Height: 800})
	if page.MobileNav() {
		t.Fatalf("expected desktop nav")
	}
	if dom.HasClass(main, neterror.HiddenClass) || dom.HasClass(details, neterror.HiddenClass) {
		t.Fatalf("desktop layout shows both main content and details")
	}
}

func TestViewportMobileNav(t *testing.T) {
	cases := []struct {
		v    neterror.Viewport
		want bool
	}{
		{neterror.Viewport{Width: 360, Height: 640}, true},
		{neterror.Viewport{Width: 360, Height: 400}, false},
		{neterror.Viewport{Width: 640, Height: 360}, true},
		{neterror.Viewport{Width: 640, Height: 561}, false},
		{neterror.Viewport{Width: 200, Height: 640}, false},
		{neterror.Viewport{Width: 1280, Height: 800}, false},
	}
	for _, tc := range cases {
		if got := tc.v.MobileNav(); got != tc.want {
			t.Fatalf("%+v: mobile nav = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestUpdateIconClass(t *testing.T) {
	page := newPage(t, nil)
	doc := page.Document()
	icon := doc.GetElementByID("icon")

	page.UpdateIconClass(icon, "icon-generic")
	page.UpdateIconClass(icon, "icon-generic")
	if diff := cmp.Diff([]string{"icon", "icon-generic"}, dom.Classes(icon)); diff != "" {
		t.Fatalf("icon classes mismatch (-want +got):\n%s", diff)
	}
	if !dom.HasClass(doc.Body(), "neterror") {
		t.Fatalf("body should be tagged neterror")
	}

	page.UpdateIconClass(icon, neterror.IconOffline)
	if diff := cmp.Diff([]string{"icon", "icon-offline"}, dom.Classes(icon)); diff != "" {
		t.Fatalf("icon classes mismatch (-want +got):\n%s", diff)
	}
	if !dom.HasClass(doc.Body(), "offline") {
		t.Fatalf("body should be tagged offline")
	}
}

func TestMarkSubframe(t *testing.T) {
	page := newPage(t, nil)
	page.MarkSubframe(false)
	if dom.HasAttr(page.Document().DocumentElement(), "subframe") {
		t.Fatalf("top frame must not be marked")
	}
	page.MarkSubframe(true)
	if !dom.HasAttr(page.Document().DocumentElement(), "subframe") {
		t.Fatalf("subframe attribute missing")
	}
}

func TestUpdateForDNSProbe(t *testing.T) {
	page := newPage(t, nil)

	err := page.UpdateForDNSProbe(map[string]loadtime.Value{
		"heading": loadtime.String("DNS_PROBE_FINISHED_NXDOMAIN"),
	})
	if err != nil {
		t.Fatalf("dns probe: %v", err)
	}
	if got := dom.TextContent(page.Document().GetElementByID("heading")); got != "DNS_PROBE_FINISHED_NXDOMAIN" {
		t.Fatalf("heading = %q", got)
	}
	if got := page.Store().GetString("heading"); got != "DNS_PROBE_FINISHED_NXDOMAIN" {
		t.Fatalf("store not updated: %q", got)
	}

	if err := page.UpdateForDNSProbe(nil); !errors.Is(err, loadtime.ErrInvalidReplacements) {
		t.Fatalf("expected ErrInvalidReplacements, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	page := newPage(t, nil)
	page.Search("https://www.google.com/search?q=")
	if got := page.Location(); got != "https://www.google.com/search?q=cats" {
		t.Fatalf("location = %q", got)
	}
}
