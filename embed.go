package interstitial

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-interstitial/pkg/loadtime"
	"github.com/goliatone/go-interstitial/pkg/loadtime/loader"
)

const (
	defaultPageFile    = "neterror.html"
	defaultStringsFile = "strings.json"
)

//go:embed assets/neterror.html assets/strings.json
var embeddedAssets embed.FS

// AssetsFS exposes the bundled net-error page template and its sample
// strings.
//
// Typical use:
//
//	out, err := interstitial.RenderFS(ctx, interstitial.AssetsFS(),
//	  "neterror.html", "strings.json", interstitial.WithPageTemplate(true))
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// DefaultPage returns the bundled net-error page. Structured values are
// expanded with template tags, so render it with WithPageTemplate(true).
func DefaultPage() []byte {
	data, err := fs.ReadFile(AssetsFS(), defaultPageFile)
	if err != nil {
		panic(fmt.Errorf("interstitial: read default page: %w", err))
	}
	return data
}

// DefaultStrings returns the sample strings for an offline page.
func DefaultStrings() map[string]loadtime.Value {
	data, err := loader.LoadFS(AssetsFS(), defaultStringsFile)
	if err != nil {
		panic(fmt.Errorf("interstitial: load default strings: %w", err))
	}
	return data
}
