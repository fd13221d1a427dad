package render

import (
	"encoding/json"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
)

var (
	filterMu          sync.Mutex
	defaultFilterOnce sync.Once
)

// registerDefaultFilters installs tojson, trim and lowerfirst unless a
// filter with the same name is already registered.
func registerDefaultFilters() {
	defaultFilterOnce.Do(func() {
		filterMu.Lock()
		defer filterMu.Unlock()
		for name, fn := range map[string]pongo2.FilterFunction{
			"tojson":     filterToJSON,
			"trim":       filterTrim,
			"lowerfirst": filterLowerFirst,
		} {
			if !pongo2.FilterExists(name) {
				_ = pongo2.RegisterFilter(name, fn)
			}
		}
	})
}

func filterToJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	raw, err := json.Marshal(in.Interface())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:tojson", OrigError: err}
	}
	return pongo2.AsSafeValue(string(raw)), nil
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterLowerFirst lowercases the first non-blank rune.
func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	text := in.String()
	idx := strings.IndexFunc(text, func(r rune) bool {
		return !strings.ContainsRune(" \t\n\r", r)
	})
	if idx < 0 {
		return pongo2.AsValue(text), nil
	}
	r, size := utf8.DecodeRuneInString(text[idx:])
	return pongo2.AsValue(text[:idx] + strings.ToLower(string(r)) + text[idx+size:]), nil
}
