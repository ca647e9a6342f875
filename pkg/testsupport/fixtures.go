package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-interstitial/pkg/dom"
	"github.com/goliatone/go-interstitial/pkg/loadtime"
	"github.com/goliatone/go-interstitial/pkg/loadtime/loader"
)

// MustParseDocument reads an HTML fixture into a Document.
func MustParseDocument(t *testing.T, path string, options ...dom.Option) *dom.Document {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	doc, err := dom.Parse(bytes.NewReader(data), options...)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

// MustParseString parses inline markup into a Document.
func MustParseString(t *testing.T, markup string, options ...dom.Option) *dom.Document {
	t.Helper()

	doc, err := dom.ParseString(markup, options...)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

// MustLoadStrings loads a JSON or YAML strings fixture.
func MustLoadStrings(t *testing.T, path string) map[string]loadtime.Value {
	t.Helper()

	data, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("load strings: %v", err)
	}
	return data
}

// DiscardLogger returns a logger that drops every record, keeping defect
// logging out of test output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// AssertJSONGolden compares value, encoded as indented JSON, with the golden
// file at path. With UPDATE_GOLDENS set the golden is rewritten instead.
func AssertJSONGolden(t *testing.T, path string, value any) {
	t.Helper()

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	payload = append(payload, '\n')
	if WriteMaybeGolden(t, path, payload) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := cmp.Diff(want, string(payload)); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
