// Package interstitial renders browser error pages on the server.
//
// A page is HTML whose elements carry i18n-content, i18n-options and
// i18n-values markers. Render loads the strings into a loadtime.Store,
// substitutes them into the marked elements, lays out the net-error
// controls and serializes the result:
//
//	out, err := interstitial.Render(ctx, bytes.NewReader(interstitial.DefaultPage()),
//	  interstitial.DefaultStrings(), interstitial.WithPageTemplate(true))
//
// Build returns the neterror.Page instead, so callers can keep driving the
// page (clicks, offline content, DNS probe updates) before serializing it.
package interstitial
