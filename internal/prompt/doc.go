// Package prompt fills strings a page needs but the loaded strings lack by
// asking on the terminal.
package prompt
