package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-interstitial"
	"github.com/goliatone/go-interstitial/internal/prompt"
	"github.com/goliatone/go-interstitial/pkg/dom"
	"github.com/goliatone/go-interstitial/pkg/i18ntemplate"
	"github.com/goliatone/go-interstitial/pkg/loadtime"
	"github.com/goliatone/go-interstitial/pkg/loadtime/loader"
	"github.com/goliatone/go-interstitial/pkg/neterror"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("Failed to render page: %v", err)
	}
}

type options struct {
	page     string
	strings  string
	output   string
	location string
	sanitize string
	viewport string
	prompt   bool
	template bool
	layout   bool
	subframe bool
	verbose  bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("interstitial-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.page, "page", "", "page HTML path (bundled net-error page if empty)")
	fs.StringVar(&opts.strings, "strings", "", "JSON or YAML strings file (bundled sample if empty)")
	fs.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	fs.StringVar(&opts.location, "location", "", "page URL used in diagnostics")
	fs.StringVar(&opts.sanitize, "sanitize", "", "comma separated keys holding markup to sanitize")
	fs.StringVar(&opts.viewport, "viewport", "", "window size as WIDTHxHEIGHT")
	fs.BoolVar(&opts.prompt, "prompt", false, "ask for strings the page uses but the strings file lacks")
	fs.BoolVar(&opts.template, "template", false, "expand template tags in the page before processing (always on for the bundled page)")
	fs.BoolVar(&opts.layout, "layout", true, "apply the net-error button layout")
	fs.BoolVar(&opts.subframe, "subframe", false, "render for display inside a subframe")
	fs.BoolVar(&opts.verbose, "verbose", false, "log missing strings and other defects to stderr")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelError + 1
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	renderOpts := []interstitial.Option{
		interstitial.WithLogger(logger),
		interstitial.WithLayout(opts.layout),
		interstitial.WithSubframe(opts.subframe),
	}

	src := interstitial.DefaultPage()
	location := opts.location
	if opts.page != "" {
		if src, err = os.ReadFile(opts.page); err != nil {
			return fmt.Errorf("read page: %w", err)
		}
		dir, name := filepath.Split(opts.page)
		if dir == "" {
			dir = "."
		}
		renderOpts = append(renderOpts, interstitial.WithImporter(dom.FSImporter{FS: os.DirFS(dir)}))
		if location == "" {
			location = name
		}
	}
	renderOpts = append(renderOpts,
		interstitial.WithPageTemplate(opts.template || opts.page == ""),
		interstitial.WithLocation(location),
	)

	data := interstitial.DefaultStrings()
	if opts.strings != "" {
		if data, err = loader.LoadFile(opts.strings); err != nil {
			return err
		}
	}

	if opts.sanitize != "" {
		renderOpts = append(renderOpts, interstitial.WithSanitizedKeys(loadtime.SanitizeOptions{}, splitKeys(opts.sanitize)...))
	}
	if opts.viewport != "" {
		v, err := parseViewport(opts.viewport)
		if err != nil {
			return err
		}
		renderOpts = append(renderOpts, interstitial.WithViewport(v))
	}

	if opts.prompt {
		if data, err = fillMissing(ctx, prompt.NewSurveyDriver(prompt.WithOutput(stderr)), src, data); err != nil {
			return err
		}
	}

	out, err := interstitial.Render(ctx, bytes.NewReader(src), data, renderOpts...)
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(stdout, "Page written to %s\n", opts.output)
		return nil
	}
	_, err = stdout.Write(out)
	return err
}

func fillMissing(ctx context.Context, driver prompt.Driver, src []byte, data map[string]loadtime.Value) (map[string]loadtime.Value, error) {
	doc, err := dom.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	refs, err := i18ntemplate.References(doc.Node())
	if err != nil {
		return nil, err
	}
	return prompt.Fill(ctx, driver, refs, data)
}

func splitKeys(raw string) []string {
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func parseViewport(raw string) (neterror.Viewport, error) {
	var v neterror.Viewport
	if _, err := fmt.Sscanf(strings.ToLower(strings.TrimSpace(raw)), "%dx%d", &v.Width, &v.Height); err != nil {
		return neterror.Viewport{}, fmt.Errorf("invalid viewport %q: want WIDTHxHEIGHT", raw)
	}
	return v, nil
}
