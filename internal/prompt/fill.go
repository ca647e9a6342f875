package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-interstitial/pkg/i18ntemplate"
	"github.com/goliatone/go-interstitial/pkg/loadtime"
)

// Missing returns the referenced keys absent from data, in reference order.
// A key named by several markers is returned once with its first marker.
func Missing(refs []i18ntemplate.Reference, data map[string]loadtime.Value) []i18ntemplate.Reference {
	var out []i18ntemplate.Reference
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.Key]; ok {
			continue
		}
		seen[ref.Key] = struct{}{}
		if value, ok := data[ref.Key]; ok && !value.IsUndefined() {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// Fill asks for every referenced key missing from data and returns a copy of
// data with the answers added. Option lists are entered comma separated.
// Declining the confirmation returns the copy unchanged.
func Fill(ctx context.Context, driver Driver, refs []i18ntemplate.Reference, data map[string]loadtime.Value) (map[string]loadtime.Value, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}
	out := make(map[string]loadtime.Value, len(data))
	for k, v := range data {
		out[k] = v
	}

	missing := Missing(refs, data)
	if len(missing) == 0 {
		return out, nil
	}
	if err := driver.Info(ctx, fmt.Sprintf("%d string(s) used by the page are missing.", len(missing))); err != nil {
		return nil, err
	}
	ok, err := driver.Confirm(ctx, ConfirmConfig{Message: "Fill them in now?", Default: true})
	if err != nil {
		return nil, err
	}
	if !ok {
		return out, nil
	}

	for _, ref := range missing {
		if ref.Attr == i18ntemplate.AttrOptions {
			answer, err := driver.Input(ctx, InputConfig{
				Message:   ref.Key,
				Help:      "Comma separated option labels",
				Validator: requireValue,
			})
			if err != nil {
				return nil, fmt.Errorf("prompt: %s: %w", ref.Key, err)
			}
			out[ref.Key] = loadtime.Strings(splitList(answer)...)
			continue
		}
		answer, err := driver.Input(ctx, InputConfig{
			Message: ref.Key,
			Help:    "Used by " + ref.Attr,
		})
		if err != nil {
			return nil, fmt.Errorf("prompt: %s: %w", ref.Key, err)
		}
		out[ref.Key] = loadtime.String(answer)
	}
	return out, nil
}

func requireValue(s string) error {
	if len(splitList(s)) == 0 {
		return errors.New("at least one value is required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
