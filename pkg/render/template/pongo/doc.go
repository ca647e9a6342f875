// Package pongo adapts github.com/flosch/pongo2 to template.TemplateRenderer.
// Templates load from a directory or an fs.FS and are autoescaped; the
// jsstring filter escapes values interpolated into inline handlers.
package pongo
