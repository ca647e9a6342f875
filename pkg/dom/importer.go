package dom

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrImportNotFound is returned by importers that have no document for href.
var ErrImportNotFound = errors.New("dom: import not found")

// Importer loads the markup behind a <link rel=import> href. Hrefs reach the
// importer already resolved against the importing document.
type Importer interface {
	Import(href string) ([]byte, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(href string) ([]byte, error)

func (f ImporterFunc) Import(href string) ([]byte, error) { return f(href) }

// FSImporter loads imports from a filesystem such as an embed.FS or
// os.DirFS. Absolute URLs are never fetched.
type FSImporter struct {
	FS fs.FS
}

func (i FSImporter) Import(href string) ([]byte, error) {
	if i.FS == nil || isAbsoluteURL(href) || !fs.ValidPath(href) {
		return nil, fmt.Errorf("%w: %s", ErrImportNotFound, href)
	}
	data, err := fs.ReadFile(i.FS, href)
	if err != nil {
		return nil, fmt.Errorf("dom: read import %s: %w", href, err)
	}
	return data, nil
}

// MapImporter serves imports from memory, keyed by resolved href.
type MapImporter map[string]string

func (m MapImporter) Import(href string) ([]byte, error) {
	markup, ok := m[href]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImportNotFound, href)
	}
	return []byte(markup), nil
}
