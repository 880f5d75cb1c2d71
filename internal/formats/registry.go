package formats

import (
	"fmt"
	"strings"

	"reelbuild/internal/config"
	"reelbuild/internal/services"
)

// Registry is an ordered, key-unique catalog of formats.
type Registry struct {
	formats []Format
	index   map[string]int
}

// NewRegistry validates descriptors and rejects duplicate keys.
func NewRegistry(list ...Format) (*Registry, error) {
	r := &Registry{
		formats: make([]Format, 0, len(list)),
		index:   make(map[string]int, len(list)),
	}
	for _, f := range list {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.index[f.Key]; dup {
			return nil, fmt.Errorf("format %q registered twice", f.Key)
		}
		r.index[f.Key] = len(r.formats)
		r.formats = append(r.formats, f)
	}
	return r, nil
}

// FromConfig returns the registry described by cfg, or the built-in
// registry when cfg declares no formats.
func FromConfig(cfg *config.Config) (*Registry, error) {
	if cfg == nil || len(cfg.Formats) == 0 {
		return Default(), nil
	}
	list := make([]Format, 0, len(cfg.Formats))
	for _, f := range cfg.Formats {
		list = append(list, Format{
			Key:      f.Key,
			Width:    f.Width,
			Height:   f.Height,
			FPS:      f.FPS,
			Duration: f.Duration,
			Anchors: Anchors{
				HeaderTopPct:    f.HeaderTopPct,
				MiddlePct:       f.MiddlePct,
				FooterBottomPct: f.FooterBottomPct,
			},
			Safe:           SafeArea{TopPct: f.SafeTopPct, BottomPct: f.SafeBottomPct},
			ScaleRefHeight: f.ScaleRefHeight,
		})
	}
	return NewRegistry(list...)
}

// List returns every format in registration order.
func (r *Registry) List() []Format {
	out := make([]Format, len(r.formats))
	copy(out, r.formats)
	return out
}

// Keys returns the registered keys in order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.formats))
	for _, f := range r.formats {
		keys = append(keys, f.Key)
	}
	return keys
}

// Lookup returns the format registered under key.
func (r *Registry) Lookup(key string) (Format, bool) {
	i, ok := r.index[key]
	if !ok {
		return Format{}, false
	}
	return r.formats[i], true
}

// ResolveSelection maps user-supplied keys onto formats. An empty selection
// yields the whole registry; any unknown key fails the entire resolution.
// Duplicate keys are collapsed, keeping the first occurrence.
func (r *Registry) ResolveSelection(keys []string) ([]Format, error) {
	cleaned := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, key)
	}
	if len(cleaned) == 0 {
		return r.List(), nil
	}

	selected := make([]Format, 0, len(cleaned))
	for _, key := range cleaned {
		f, ok := r.Lookup(key)
		if !ok {
			return nil, services.WithHint(
				services.Wrap(services.ErrConfiguration, "", "", fmt.Sprintf("unknown format key %q. Valid options: %s", key, strings.Join(r.Keys(), ", ")), nil),
				"pass --formats with keys from `reelbuild formats`",
			)
		}
		selected = append(selected, f)
	}
	return selected, nil
}

// ParseKeyList splits a comma-separated --formats value.
func ParseKeyList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
