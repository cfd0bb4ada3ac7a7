package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"strings"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/apierror"
)

// RawKey is the single key of the fallback record produced for bodies that
// are not JSON.
const RawKey = "raw"

// IsJSONContentType reports whether a Content-Type header denotes JSON. An
// empty content type is treated as JSON since some backends omit the header.
func IsJSONContentType(contentType string) bool {
	ct := strings.TrimSpace(contentType)
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Decode turns a response body into an envelope. JSON bodies are decoded with
// json.Number preserved. Anything else (HTML error pages, plain text, broken
// JSON) becomes {"raw": text} together with a MalformedResponseError warning.
// An empty body decodes to nil.
func Decode(payload []byte, contentType string) (any, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !IsJSONContentType(contentType) {
		text := string(trimmed)
		return Record{RawKey: text}, &apierror.MalformedResponseError{ContentType: contentType, Raw: text}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		text := string(trimmed)
		return Record{RawKey: text}, &apierror.MalformedResponseError{ContentType: contentType, Raw: text, Err: err}
	}
	// trailing garbage after a valid value is still malformed
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		text := string(trimmed)
		return Record{RawKey: text}, &apierror.MalformedResponseError{ContentType: contentType, Raw: text, Err: errors.New("unexpected data after JSON value")}
	}
	return canonical(out), nil
}

// canonical converts decoded objects to Record so type switches only need to
// handle one map type.
func canonical(v any) any {
	switch t := v.(type) {
	case map[string]any:
		r := make(Record, len(t))
		for k, val := range t {
			r[k] = canonical(val)
		}
		return r
	case []any:
		for i := range t {
			t[i] = canonical(t[i])
		}
		return t
	default:
		return v
	}
}

// IsRaw reports whether r is the raw-text fallback record.
func IsRaw(r Record) bool {
	if len(r) != 1 {
		return false
	}
	_, ok := r[RawKey].(string)
	return ok
}
