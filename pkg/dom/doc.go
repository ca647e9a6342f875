// Package dom is a thin document layer over golang.org/x/net/html. It adds
// the browser pieces an interstitial page relies on that a bare node tree
// lacks: CSS selector queries, text and markup content setters, class lists,
// inline styles, script-visible element properties, template content roots
// and <link rel=import> resolution with a per-document cache.
package dom
