// Package template defines the template engine seam used for the markup the
// page script would otherwise build by string concatenation, such as offline
// content suggestion cards.
package template
