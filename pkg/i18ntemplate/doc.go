// Package i18ntemplate fills an HTML tree from a loadtime.Store. Elements
// opt in through marker attributes:
//
//	i18n-content="key"              text content from a string
//	i18n-options="key"              <option> children from a list
//	i18n-values="title:key;.a.b:k"  attributes and dotted properties
//
// Process walks the given root, every document reachable through
// <link rel=import> and the content of every <template>, visiting each
// root once so mutually importing documents terminate.
package i18ntemplate
