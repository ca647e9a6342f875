// Package neterror applies the net-error interstitial's page behaviour to a
// processed document: the control button layout run once the page has
// loaded, the details toggle and small-screen navigation, the cached copy
// and download buttons, offline content suggestions and the DNS probe
// refresh.
//
// Button clicks that reach the browser are forwarded to a Controller. A Page
// without a controller behaves like a page whose host exposes none.
package neterror
