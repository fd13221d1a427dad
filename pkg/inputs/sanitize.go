package inputs

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// StripMarkup removes every HTML element from raw, keeping the text. Entities
// produced by the sanitizer are decoded back so plain text round-trips.
func StripMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

func sanitizeList(list List) {
	for i, in := range list {
		list[i] = sanitizeInput(in)
	}
}

func sanitizeInput(in Input) Input {
	switch typed := in.(type) {
	case TextInput:
		typed.Info = sanitizeInfo(typed.Info)
		return typed
	case BooleanInput:
		typed.Info = sanitizeInfo(typed.Info)
		return typed
	case NumberInput:
		typed.Info = sanitizeInfo(typed.Info)
		return typed
	case GroupInput:
		typed.Info = sanitizeInfo(typed.Info)
		sanitizeList(typed.Inputs)
		return typed
	case ListInput:
		typed.Info = sanitizeInfo(typed.Info)
		sanitizeList(typed.Inputs)
		return typed
	default:
		return in
	}
}

func sanitizeInfo(info Info) Info {
	info.Name = StripMarkup(info.Name)
	info.Description = StripMarkup(info.Description)
	return info
}
