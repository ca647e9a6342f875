package neterror

import (
	"github.com/goliatone/go-interstitial/pkg/dom"
)

// ReloadButtonClick reloads through the controller, or navigates to url when
// the host exposes none. Once a cached copy button is installed the click
// opens the cached copy instead.
func (p *Page) ReloadButtonClick(url string) {
	if p.cachedCopy != nil {
		p.cachedCopyClick()
		return
	}
	if p.controller != nil {
		p.controller.ReloadButtonClick()
		return
	}
	p.goTo(url)
}

func (p *Page) cachedCopyClick() {
	p.TrackClick(p.cachedCopy.TrackingID)
	if p.controller != nil {
		p.controller.TrackCachedCopyButtonClick()
	}
	p.goTo(p.cachedCopy.URL)
}

// ShowSavedCopyButtonClick asks the host to show its saved copy.
func (p *Page) ShowSavedCopyButtonClick() {
	if p.controller != nil {
		p.controller.ShowSavedCopyButtonClick()
	}
}

// DownloadButtonClick starts the download, disables the button and swaps
// the download link for its "clicked" variant.
func (p *Page) DownloadButtonClick() {
	if p.controller == nil {
		return
	}
	p.controller.DownloadButtonClick()

	button := p.doc.GetElementByID(IDDownloadButton)
	if button != nil {
		p.doc.SetProperty(button, []string{"disabled"}, true)
		disabledText, _ := p.doc.Property(button, "disabledText")
		p.doc.SetProperty(button, []string{"textContent"}, disabledText)
	}
	dom.AddClass(p.doc.GetElementByID(IDDownloadLinkWrapper), HiddenClass)
	dom.RemoveClass(p.doc.GetElementByID(IDDownloadLinkClicked), HiddenClass)
}

// DetailsButtonClick notifies the host that details were requested.
func (p *Page) DetailsButtonClick() {
	if p.controller != nil {
		p.controller.DetailsButtonClick()
	}
}

// DiagnoseErrors asks the host to run its network diagnostics.
func (p *Page) DiagnoseErrors() {
	if p.controller != nil {
		p.controller.DiagnoseErrorsButtonClick()
	}
}

// TrackClick reports a click on an element generated by the navigation
// correction service. Negative ids mark elements from elsewhere and are
// ignored.
func (p *Page) TrackClick(trackingID int) {
	if trackingID >= 0 && p.controller != nil {
		p.controller.TrackClick(trackingID)
	}
}

// SavePageLaterClick schedules the page for a later automatic fetch. The host
// answers with SetAutoFetchState once scheduling completes.
func (p *Page) SavePageLaterClick() error {
	if p.controller == nil {
		return ErrNoController
	}
	p.controller.SavePageForLater()
	return nil
}

// CancelSavePageClick cancels a scheduled fetch. The host does not call back,
// so the button state is updated here.
func (p *Page) CancelSavePageClick() error {
	if p.controller == nil {
		return ErrNoController
	}
	p.controller.CancelSavePage()
	p.SetAutoFetchState(false, true)
	return nil
}

// SetAutoFetchState shows the cancel button while a fetch is scheduled and
// the save button while one can be.
func (p *Page) SetAutoFetchState(scheduled, canSchedule bool) {
	dom.SetClass(p.doc.GetElementByID(IDCancelSavePageButton), HiddenClass, !scheduled)
	dom.SetClass(p.doc.GetElementByID(IDSavePageForLaterButton), HiddenClass, scheduled || !canSchedule)
}

// ToggleErrorInformationPopup flips the error information popup.
func (p *Page) ToggleErrorInformationPopup() {
	if popup := p.doc.GetElementByID(IDErrorInformationPopup); popup != nil {
		dom.ToggleClass(popup, HiddenClass)
	}
}

// LaunchOfflineItem opens a suggested offline item.
func (p *Page) LaunchOfflineItem(itemID, namespace string) error {
	if p.controller == nil {
		return ErrNoController
	}
	p.controller.LaunchOfflineItem(itemID, namespace)
	return nil
}

// LaunchDownloadsPage opens the downloads page.
func (p *Page) LaunchDownloadsPage() error {
	if p.controller == nil {
		return ErrNoController
	}
	p.controller.LaunchDownloadsPage()
	return nil
}

// Search navigates to baseSearchURL followed by the search box value.
func (p *Page) Search(baseSearchURL string) {
	box := p.doc.GetElementByID(IDSearchBox)
	query, _ := dom.Attr(box, "value")
	p.goTo(baseSearchURL + query)
}
