package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-interstitial/internal/prompt"
	"github.com/goliatone/go-interstitial/pkg/i18ntemplate"
	"github.com/goliatone/go-interstitial/pkg/loadtime"
)

type fakeDriver struct {
	answers map[string]string
	confirm bool
	asked   []string
	info    []string
}

func (f *fakeDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	f.asked = append(f.asked, cfg.Message)
	answer, ok := f.answers[cfg.Message]
	if !ok {
		return "", prompt.ErrAborted
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (f *fakeDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return f.confirm, nil
}

func (f *fakeDriver) Info(_ context.Context, msg string) error {
	f.info = append(f.info, msg)
	return nil
}

var refs = []i18ntemplate.Reference{
	{Attr: i18ntemplate.AttrContent, Key: "title"},
	{Attr: i18ntemplate.AttrOptions, Key: "choices"},
	{Attr: i18ntemplate.AttrValues, Key: "title"},
	{Attr: i18ntemplate.AttrValues, Key: "tip"},
}

func TestMissing(t *testing.T) {
	got := prompt.Missing(refs, map[string]loadtime.Value{"tip": loadtime.String("x")})
	want := []i18ntemplate.Reference{
		{Attr: i18ntemplate.AttrContent, Key: "title"},
		{Attr: i18ntemplate.AttrOptions, Key: "choices"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestFill(t *testing.T) {
	driver := &fakeDriver{
		confirm: true,
		answers: map[string]string{"title": "Offline", "choices": "Retry, , Wait"},
	}
	data := map[string]loadtime.Value{"tip": loadtime.String("x")}

	got, err := prompt.Fill(context.Background(), driver, refs, data)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := map[string]loadtime.Value{
		"tip":     loadtime.String("x"),
		"title":   loadtime.String("Offline"),
		"choices": loadtime.Strings("Retry", "Wait"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filled strings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title", "choices"}, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if len(data) != 1 {
		t.Fatalf("input map must not be modified")
	}
}

func TestFillDeclined(t *testing.T) {
	driver := &fakeDriver{}
	got, err := prompt.Fill(context.Background(), driver, refs, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if len(got) != 0 || len(driver.asked) != 0 {
		t.Fatalf("declining must not prompt, got %v asked %v", got, driver.asked)
	}
	if len(driver.info) != 1 {
		t.Fatalf("expected one notice, got %v", driver.info)
	}
}

func TestFillAborted(t *testing.T) {
	driver := &fakeDriver{confirm: true, answers: map[string]string{"title": "ok"}}
	_, err := prompt.Fill(context.Background(), driver, refs, nil)
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestFillEmptyOptionList(t *testing.T) {
	driver := &fakeDriver{confirm: true, answers: map[string]string{"title": "ok", "choices": " , "}}
	if _, err := prompt.Fill(context.Background(), driver, refs, nil); err == nil {
		t.Fatalf("expected validation error for an empty list")
	}
}
