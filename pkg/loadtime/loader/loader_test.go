package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-interstitial/pkg/loadtime"
	"github.com/goliatone/go-interstitial/pkg/loadtime/loader"
)

func TestLoadFS_JSONAndYAMLAgree(t *testing.T) {
	fsys := os.DirFS("testdata")

	fromJSON, err := loader.LoadFS(fsys, "strings.json")
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	fromYAML, err := loader.LoadFS(fsys, "strings.yaml")
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}

	for _, key := range []string{"heading", "summary", "suggestionsCount", "showSavePageForLater"} {
		if !fromJSON[key].Equal(fromYAML[key]) {
			t.Fatalf("key %s differs: json=%v yaml=%v", key, fromJSON[key], fromYAML[key])
		}
	}

	summary := fromJSON["summary"]
	if got := summary.Field("hostName").String(); got != "example.com" {
		t.Fatalf("summary.hostName = %q", got)
	}
	if got, err := fromJSON["suggestionsCount"].AsInteger(); err != nil || got != 2 {
		t.Fatalf("suggestionsCount = %d, %v", got, err)
	}

	choices, err := fromYAML["choices"].AsList()
	if err != nil || len(choices) != 2 || choices[1].Kind() != loadtime.KindList {
		t.Fatalf("choices = %v, %v", choices, err)
	}
}

func TestLoadStore(t *testing.T) {
	store, err := loader.LoadStore(os.DirFS("testdata"), "strings.json")
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	if !store.Loaded() || store.GetString("iconClass") != "icon-generic" {
		t.Fatalf("store not populated: %v", store.Keys())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strings.yml")
	if err := os.WriteFile(path, []byte("a: b\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if diff := cmp.Diff("b", got["a"].String()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "  \n", want: loader.ErrEmpty},
		{name: "list", input: `["a", "b"]`, want: loader.ErrNotMapping},
		{name: "null", input: "null", want: loader.ErrNotMapping},
		{name: "scalar", input: "just text", want: loader.ErrNotMapping},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loader.Parse([]byte(tc.input), tc.name)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := loader.Parse([]byte("a: [unclosed"), "broken"); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestLoadFSRejectsUnknownExtension(t *testing.T) {
	fsys := fstest.MapFS{"strings.txt": {Data: []byte(`{"a":"b"}`)}}
	if _, err := loader.LoadFS(fsys, "strings.txt"); !errors.Is(err, loader.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
