package normalize

import (
	"sort"
	"strings"
)

const maxMessageRunes = 300

// ErrorMessage extracts a human readable message from an error body. JSON
// bodies are probed for message/error/detail/errors; any other content type is
// used as text and never parsed.
func ErrorMessage(payload []byte, contentType string) string {
	text := strings.TrimSpace(string(payload))
	if text == "" {
		return ""
	}
	if !IsJSONContentType(contentType) {
		return truncate(text)
	}
	env, warn := Decode(payload, contentType)
	if warn != nil {
		return truncate(text)
	}
	obj, ok := asRecord(env)
	if !ok {
		if s, ok := Stringify(env); ok {
			return truncate(s)
		}
		return ""
	}
	return truncate(messageFrom(obj))
}

func messageFrom(obj Record) string {
	if s := obj.String("message", "msg"); s != "" {
		return s
	}
	if s, ok := obj["error"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	if inner := obj.Object("error"); inner != nil {
		if s := inner.String("message", "detail", "code"); s != "" {
			return s
		}
	}
	if s := obj.String("detail", "error_description"); s != "" {
		return s
	}
	if errs := obj.Object("errors"); errs != nil {
		return firstFieldError(errs)
	}
	if list, ok := obj["errors"].([]any); ok {
		for _, item := range list {
			if s, ok := Stringify(item); ok && s != "" {
				return s
			}
			if r, ok := asRecord(item); ok {
				if s := messageFrom(r); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// firstFieldError renders the first message of a {"field": ["msg"]} map,
// taking fields in sorted order so the result is stable.
func firstFieldError(errs Record) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		switch v := errs[f].(type) {
		case []any:
			for _, item := range v {
				if s, ok := Stringify(item); ok && s != "" {
					return f + ": " + s
				}
			}
		default:
			if s, ok := Stringify(v); ok && s != "" {
				return f + ": " + s
			}
		}
	}
	return ""
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxMessageRunes {
		return s
	}
	return string(r[:maxMessageRunes]) + "..."
}
