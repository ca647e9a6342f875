package neterror

import (
	"sync"
)

// Controller receives the actions a page forwards to its host browser.
type Controller interface {
	ReloadButtonClick()
	ShowSavedCopyButtonClick()
	DownloadButtonClick()
	DetailsButtonClick()
	DiagnoseErrorsButtonClick()
	TrackClick(trackingID int)
	TrackCachedCopyButtonClick()
	SavePageForLater()
	CancelSavePage()
	ListVisibilityChanged(visible bool)
	LaunchOfflineItem(itemID, namespace string)
	LaunchDownloadsPage()
}

// NopController accepts every call and does nothing.
type NopController struct{}

var _ Controller = NopController{}

func (NopController) ReloadButtonClick() {}
func (NopController) ShowSavedCopyButtonClick() {}
func (NopController) DownloadButtonClick() {}
func (NopController) DetailsButtonClick() {}
func (NopController) DiagnoseErrorsButtonClick() {}
func (NopController) TrackClick(int) {}
func (NopController) TrackCachedCopyButtonClick() {}
func (NopController) SavePageForLater() {}
func (NopController) CancelSavePage() {}
func (NopController) ListVisibilityChanged(bool) {}
func (NopController) LaunchOfflineItem(string, string) {}
func (NopController) LaunchDownloadsPage() {}

// Call is one recorded controller invocation.
type Call struct {
	Method string
	Args   []any
}

// RecordingController keeps every call in order. It is safe for concurrent
// use.
type RecordingController struct {
	mu    sync.Mutex
	calls []Call
}

var _ Controller = (*RecordingController)(nil)

// Calls returns a copy of the recorded calls.
func (r *RecordingController) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Methods returns the recorded method names in order.
func (r *RecordingController) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Method
	}
	return out
}

// Reset drops the recorded calls.
func (r *RecordingController) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func (r *RecordingController) record(method string, args ...any) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Method: method, Args: args})
	r.mu.Unlock()
}

func (r *RecordingController) ReloadButtonClick() { r.record("ReloadButtonClick") }
func (r *RecordingController) ShowSavedCopyButtonClick() { r.record("ShowSavedCopyButtonClick") }
func (r *RecordingController) DownloadButtonClick() { r.record("DownloadButtonClick") }
func (r *RecordingController) DetailsButtonClick() { r.record("DetailsButtonClick") }
func (r *RecordingController) DiagnoseErrorsButtonClick() { r.record("DiagnoseErrorsButtonClick") }
func (r *RecordingController) TrackClick(trackingID int) { r.record("TrackClick", trackingID) }
func (r *RecordingController) TrackCachedCopyButtonClick() { r.record("TrackCachedCopyButtonClick") }
func (r *RecordingController) SavePageForLater() { r.record("SavePageForLater") }
func (r *RecordingController) CancelSavePage() { r.record("CancelSavePage") }
func (r *RecordingController) ListVisibilityChanged(visible bool) {
	r.record("ListVisibilityChanged", visible)
}
func (r *RecordingController) LaunchOfflineItem(itemID, namespace string) {
	r.record("LaunchOfflineItem", itemID, namespace)
}
func (r *RecordingController) LaunchDownloadsPage() { r.record("LaunchDownloadsPage") }
