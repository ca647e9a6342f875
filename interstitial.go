package interstitial

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-interstitial/pkg/dom"
	"github.com/goliatone/go-interstitial/pkg/i18ntemplate"
	"github.com/goliatone/go-interstitial/pkg/loadtime"
	"github.com/goliatone/go-interstitial/pkg/loadtime/loader"
	"github.com/goliatone/go-interstitial/pkg/neterror"
	"github.com/goliatone/go-interstitial/pkg/render/template"
	"github.com/goliatone/go-interstitial/pkg/render/template/pongo"
	"github.com/goliatone/go-interstitial/pkg/sanitize"
)

// ErrNilPage is returned when no page source is given.
var ErrNilPage = errors.New("interstitial: page is required")

// Option configures Build, Render and RenderFS.
type Option func(*config)

type config struct {
	location      string
	importer      dom.Importer
	logger        *slog.Logger
	onDefect      loadtime.DefectHandler
	renderer      template.TemplateRenderer
	pageTemplate  bool
	layout        bool
	subframe      bool
	viewport      *neterror.Viewport
	sanitizedKeys []string
	sanitizeOpts  loadtime.SanitizeOptions
	pageOptions   []neterror.Option
}

// WithLocation sets the page URL used for import resolution and defect logs.
func WithLocation(location string) Option {
	return func(c *config) {
		c.location = location
	}
}

// WithImporter resolves <link rel=import> references in the page.
func WithImporter(importer dom.Importer) Option {
	return func(c *config) {
		c.importer = importer
	}
}

// WithLogger sets the logger handed to the string store and the page.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefectHandler receives every missing key and type mismatch reported
// while the page is processed.
func WithDefectHandler(fn loadtime.DefectHandler) Option {
	return func(c *config) {
		c.onDefect = fn
	}
}

// WithPageTemplate executes the page source as a template over the strings
// before parsing it. The bundled page needs it for its structured values.
func WithPageTemplate(enabled bool) Option {
	return func(c *config) {
		c.pageTemplate = enabled
	}
}

// WithTemplateRenderer replaces the engine used by WithPageTemplate.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(c *config) {
		c.renderer = renderer
	}
}

// WithLayout toggles the net-error button layout. Defaults to true; pages
// without the net-error controls should disable it.
func WithLayout(enabled bool) Option {
	return func(c *config) {
		c.layout = enabled
	}
}

// WithSubframe renders the page for display inside a subframe.
func WithSubframe(subframe bool) Option {
	return func(c *config) {
		c.subframe = subframe
	}
}

// WithViewport lays the page out for the given window size.
func WithViewport(v neterror.Viewport) Option {
	return func(c *config) {
		c.viewport = &v
	}
}

// WithSanitizedKeys passes the named string values through the markup
// sanitizer before the page is processed. opts widens the allowed subset.
func WithSanitizedKeys(opts loadtime.SanitizeOptions, keys ...string) Option {
	return func(c *config) {
		c.sanitizeOpts = opts
		c.sanitizedKeys = append(c.sanitizedKeys, keys...)
	}
}

// WithPageOptions forwards options to the net-error page.
func WithPageOptions(options ...neterror.Option) Option {
	return func(c *config) {
		c.pageOptions = append(c.pageOptions, options...)
	}
}

func newConfig(options []Option) *config {
	cfg := &config{
		logger: slog.Default(),
		layout: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}

// Render processes page against strings and returns the serialized HTML.
func Render(ctx context.Context, page io.Reader, strings map[string]loadtime.Value, options ...Option) ([]byte, error) {
	p, err := Build(ctx, page, strings, options...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return nil, fmt.Errorf("interstitial: render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderFS is Render over a page and a JSON or YAML strings file read from
// fsys. Imports resolve against fsys unless WithImporter is given.
func RenderFS(ctx context.Context, fsys fs.FS, pagePath, stringsPath string, options ...Option) ([]byte, error) {
	if fsys == nil {
		return nil, fmt.Errorf("interstitial: read %s: nil filesystem", pagePath)
	}
	src, err := fs.ReadFile(fsys, pagePath)
	if err != nil {
		return nil, fmt.Errorf("interstitial: read page: %w", err)
	}
	strings, err := loader.LoadFS(fsys, stringsPath)
	if err != nil {
		return nil, fmt.Errorf("interstitial: %w", err)
	}
	defaults := []Option{
		WithImporter(dom.FSImporter{FS: fsys}),
		WithLocation(pagePath),
	}
	return Render(ctx, bytes.NewReader(src), strings, append(defaults, options...)...)
}

// Build runs the whole pipeline and returns the page, ready for further
// interaction or serialization: the page template is expanded, the store is
// built, the document is processed, and the net-error layout applied.
func Build(ctx context.Context, page io.Reader, strings map[string]loadtime.Value, options ...Option) (*neterror.Page, error) {
	if page == nil {
		return nil, ErrNilPage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := newConfig(options)

	src, err := io.ReadAll(page)
	if err != nil {
		return nil, fmt.Errorf("interstitial: read page: %w", err)
	}
	if cfg.pageTemplate {
		if src, err = cfg.expand(src, strings); err != nil {
			return nil, err
		}
	}

	store := loadtime.NewWithData(strings,
		loadtime.WithLogger(cfg.logger),
		loadtime.WithDefectHandler(cfg.onDefect),
		loadtime.WithLocation(cfg.location),
		loadtime.WithSanitizer(sanitize.New()),
	)
	if err := cfg.sanitize(store); err != nil {
		return nil, err
	}

	doc, err := dom.Parse(bytes.NewReader(src), dom.WithURL(cfg.location), dom.WithImporter(cfg.importer))
	if err != nil {
		return nil, fmt.Errorf("interstitial: %w", err)
	}
	if err := i18ntemplate.ProcessDocument(doc, store); err != nil {
		return nil, fmt.Errorf("interstitial: %w", err)
	}
	for href, importErr := range doc.ImportErrors() {
		cfg.logger.Warn("interstitial: import failed", slog.String("href", href), slog.Any("error", importErr))
	}

	pageOptions := append([]neterror.Option{neterror.WithLogger(cfg.logger)}, cfg.pageOptions...)
	p, err := neterror.New(doc, store, pageOptions...)
	if err != nil {
		return nil, fmt.Errorf("interstitial: %w", err)
	}
	p.MarkSubframe(cfg.subframe)
	if store.Has("iconClass") {
		p.UpdateIconClass(dom.Query(doc.Node(), ".icon"), store.GetString("iconClass"))
	}
	if cfg.layout {
		if err := p.Apply(ctx); err != nil {
			return nil, fmt.Errorf("interstitial: %w", err)
		}
	}
	if cfg.viewport != nil {
		p.OnResize(*cfg.viewport)
	}
	return p, nil
}

func (c *config) expand(src []byte, strings map[string]loadtime.Value) ([]byte, error) {
	renderer := c.renderer
	if renderer == nil {
		engine, err := pongo.New(pongo.WithFS(AssetsFS()), pongo.WithName("page"))
		if err != nil {
			return nil, fmt.Errorf("interstitial: template engine: %w", err)
		}
		renderer = engine
	}
	out, err := renderer.RenderString(string(src), strings)
	if err != nil {
		return nil, fmt.Errorf("interstitial: expand page: %w", err)
	}
	return []byte(out), nil
}

func (c *config) sanitize(store *loadtime.Store) error {
	if len(c.sanitizedKeys) == 0 {
		return nil
	}
	replacements := make(map[string]loadtime.Value, len(c.sanitizedKeys))
	for _, key := range c.sanitizedKeys {
		if !store.Has(key) {
			continue
		}
		clean, err := store.SanitizeMarkup(store.GetString(key), c.sanitizeOpts)
		if err != nil {
			return fmt.Errorf("interstitial: sanitize %s: %w", key, err)
		}
		replacements[key] = loadtime.String(clean)
	}
	return store.OverrideValues(replacements)
}
