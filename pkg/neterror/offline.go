package neterror

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/goliatone/go-interstitial/pkg/dom"
)

// ContentType classifies an offline item.
type ContentType int

const (
	ContentPrefetchedPage ContentType = iota
	ContentVideo
	ContentAudio
	ContentOtherPage
)

// IconClass returns the icon shown for items without a thumbnail.
func (c ContentType) IconClass() string {
	switch c {
	case ContentVideo:
		return "image-video"
	case ContentAudio:
		return "image-music-note"
	case ContentPrefetchedPage, ContentOtherPage:
		return "image-earth"
	default:
		return "image-file"
	}
}

// Summary describes the offline content available to the user.
type Summary struct {
	TotalItems int `json:"total_items"`
}

// Suggestion is one offline item offered on the page. Title and attribution
// are UTF-16 text encoded as base64 and are only ever inserted as text.
type Suggestion struct {
	ID                string      `json:"ID"`
	NameSpace         string      `json:"name_space"`
	TitleBase64       string      `json:"title_base64"`
	AttributionBase64 string      `json:"attribution_base64"`
	SnippetBase64     string      `json:"snippet_base64,omitempty"`
	ThumbnailDataURI  string      `json:"thumbnail_data_uri,omitempty"`
	DateModified      string      `json:"date_modified"`
	ContentType       ContentType `json:"content_type"`
}

func (s Suggestion) containerClasses() string {
	var classes []string
	if s.ThumbnailDataURI != "" {
		classes = append(classes, "suggestion-with-image")
	} else {
		classes = append(classes, "suggestion-with-icon")
	}
	if s.AttributionBase64 == "" {
		classes = append(classes, "no-attribution")
	}
	return strings.Join(classes, " ")
}

// OfflineContentSummaryAvailable reveals the summary when there is content
// to summarise and the page has a summary string.
func (p *Page) OfflineContentSummaryAvailable(summary *Summary) {
	if summary == nil || summary.TotalItems == 0 || !p.data.Has("offlineContentSummary") {
		return
	}
	dom.RemoveAttr(p.doc.GetElementByID(IDOfflineContentSummary), "hidden")
}

// OfflineContentAvailable renders suggestion cards into the suggestions
// container and reveals the list, collapsed unless isShown. Nothing happens
// when the page has no offlineContentList string.
func (p *Page) OfflineContentAvailable(isShown bool, suggestions []Suggestion) error {
	if suggestions == nil || !p.data.Has("offlineContentList") {
		return nil
	}

	titles := make([]string, len(suggestions))
	attributions := make([]string, len(suggestions))
	cards := make([]string, len(suggestions))
	for i, item := range suggestions {
		var err error
		if titles[i], err = DecodeUTF16Base64(item.TitleBase64); err != nil {
			return fmt.Errorf("neterror: suggestion %d title: %w", i, err)
		}
		if attributions[i], err = DecodeUTF16Base64(item.AttributionBase64); err != nil {
			return fmt.Errorf("neterror: suggestion %d attribution: %w", i, err)
		}
		card, err := p.renderer.RenderTemplate("suggestion", map[string]any{
			"index":      i,
			"item":       item,
			"classes":    item.containerClasses(),
			"icon_class": item.ContentType.IconClass(),
		})
		if err != nil {
			return fmt.Errorf("neterror: render suggestion %d: %w", i, err)
		}
		cards[i] = card
	}

	container, err := p.require(IDOfflineContentSuggestions)
	if err != nil {
		return err
	}
	if err := dom.SetInnerHTML(container, strings.Join(cards, "\n")); err != nil {
		return fmt.Errorf("neterror: suggestions: %w", err)
	}

	for i := range suggestions {
		dom.SetTextContent(p.doc.GetElementByID(fmt.Sprintf("offline-content-suggestion-title-%d", i)), titles[i])
		dom.SetTextContent(p.doc.GetElementByID(fmt.Sprintf("offline-content-suggestion-attribution-%d", i)), attributions[i])
	}

	list := p.doc.GetElementByID(IDOfflineContentList)
	if dir, _ := dom.Attr(p.doc.DocumentElement(), "dir"); dir == "rtl" {
		dom.AddClass(list, "is-rtl")
	}
	if !isShown {
		p.ToggleOfflineContentListVisibility(false)
	}
	dom.RemoveAttr(list, "hidden")
	return nil
}

// ToggleOfflineContentListVisibility collapses or expands the offline list.
// With updatePref the new visibility is reported to the host.
func (p *Page) ToggleOfflineContentListVisibility(updatePref bool) {
	if !p.data.Has("offlineContentList") {
		return
	}
	list := p.doc.GetElementByID(IDOfflineContentList)
	if list == nil {
		return
	}
	visible := !dom.ToggleClass(list, "list-hidden")
	if updatePref && p.controller != nil {
		p.controller.ListVisibilityChanged(visible)
	}
}

// DecodeUTF16Base64 decodes base64 holding big-endian UTF-16 code units. A
// trailing odd byte is dropped.
func DecodeUTF16Base64(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return "", fmt.Errorf("neterror: decode base64: %w", err)
		}
	}
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
	}
	return string(utf16.Decode(units)), nil
}
