// Package loader reads the strings mapping a page is rendered with from JSON
// or YAML files.
package loader
