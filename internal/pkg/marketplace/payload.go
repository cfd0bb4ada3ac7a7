package marketplace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/ManuelReschke/SellerDesk/app/models"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/apierror"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/attachment"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/resolver"
)

// Payload is the body of a create or update. Data is an input model from
// app/models or a plain map. With files attached the body is sent as
// multipart/form-data, otherwise as JSON.
type Payload struct {
	Data  any
	Files []attachment.File
}

// validate runs the model rules; maps are passed through as-is.
func (p Payload) validate(update bool) error {
	if p.Data == nil && len(p.Files) == 0 {
		return apierror.NewValidationError("body", "is required")
	}
	if !isStruct(p.Data) {
		return nil
	}
	var err error
	if update {
		err = models.ValidateUpdate(p.Data)
	} else {
		err = models.ValidateCreate(p.Data)
	}
	return apierror.FromValidator(err)
}

func isStruct(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// encode builds the request body. Images are downscaled to maxDimension
// before they are attached.
func (p Payload) encode(maxDimension int) (resolver.Body, error) {
	if len(p.Files) == 0 {
		if p.Data == nil {
			return resolver.Body{}, nil
		}
		return resolver.JSONBody(p.Data)
	}

	fields, err := FormFields(p.Data)
	if err != nil {
		return resolver.Body{}, err
	}
	files := make([]attachment.File, 0, len(p.Files))
	for _, f := range p.Files {
		prepared, err := attachment.PrepareImage(f, maxDimension)
		if err != nil {
			return resolver.Body{}, apierror.NewValidationError(fieldOrDefault(f.Field), err.Error())
		}
		files = append(files, prepared)
	}
	ct, data, err := attachment.EncodeMultipart(fields, files)
	if err != nil {
		return resolver.Body{}, err
	}
	return resolver.NewBody(ct, data), nil
}

func fieldOrDefault(field string) string {
	if field == "" {
		return "file"
	}
	return field
}

// FormFields flattens data into form fields using bracket notation for nested
// values (address[city], tags[0]). Keys are emitted in sorted order.
func FormFields(data any) ([]attachment.Field, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode form data: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("encode form data: %w", err)
	}
	var out []attachment.Field
	flatten("", tree, &out)
	return out, nil
}

func flatten(prefix string, v any, out *[]attachment.Field) {
	switch t := v.(type) {
	case nil:
		return
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			name := k
			if prefix != "" {
				name = prefix + "[" + k + "]"
			}
			flatten(name, t[k], out)
		}
	case []any:
		for i, item := range t {
			flatten(prefix+"["+strconv.Itoa(i)+"]", item, out)
		}
	case bool:
		val := "0"
		if t {
			val = "1"
		}
		*out = append(*out, attachment.Field{Name: prefix, Value: val})
	default:
		if s, ok := normalize.Stringify(t); ok {
			*out = append(*out, attachment.Field{Name: prefix, Value: s})
		}
	}
}
