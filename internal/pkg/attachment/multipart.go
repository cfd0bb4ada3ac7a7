package attachment

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Field is a plain form value of a multipart body.
type Field struct {
	Name  string
	Value string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// EncodeMultipart builds a multipart/form-data body and returns its content
// type (including the boundary) and bytes.
func EncodeMultipart(fields []Field, files []File) (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return "", nil, fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	for _, file := range files {
		field := file.Field
		if field == "" {
			field = "file"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(file.Name)))
		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return "", nil, fmt.Errorf("create part %s: %w", file.Name, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return "", nil, fmt.Errorf("write part %s: %w", file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
