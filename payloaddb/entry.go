// payloaddb/entry.go
package payloaddb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/xeipuuv/gojsonschema"
)

// Entry is one row of any payload database table. Only the fields relevant to the table are set.
// The schema only fixes id and name, so the other columns keep whatever JSON type the server used
// (json.Number for numbers); use IDField to read them as ids. Raw keeps the entry exactly as the
// server sent it.
type Entry struct {
	ID          int64  `json:"id"`
	Name        string `json:"name,omitempty"`
	GlobalTag   any    `json:"global_tag,omitempty"`
	PayloadType any    `json:"payload_type,omitempty"`
	PayloadURL  string `json:"payload_url,omitempty"`
	PayloadList any    `json:"payload_list,omitempty"`
	MajorIOV    any    `json:"major_iov,omitempty"`
	MinorIOV    any    `json:"minor_iov,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps a copy of data in Raw. A name that is not a
// string is left empty.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		return err
	}

	id, ok := IDField(fields["id"])
	if !ok && fields["id"] != nil {
		return fmt.Errorf("id %v is not an integer", fields["id"])
	}

	name, _ := fields["name"].(string)
	payloadURL, _ := fields["payload_url"].(string)

	*e = Entry{
		ID:          id,
		Name:        name,
		GlobalTag:   fields["global_tag"],
		PayloadType: fields["payload_type"],
		PayloadURL:  payloadURL,
		PayloadList: fields["payload_list"],
		MajorIOV:    fields["major_iov"],
		MinorIOV:    fields["minor_iov"],
		Raw:         append(json.RawMessage(nil), data...),
	}
	return nil
}

// MarshalJSON returns Raw when the entry came from the server.
func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type plain Entry
	return json.Marshal(plain(e))
}

// IDField returns v as an id when it holds an integral number. Strings, objects and fractions
// are not ids.
func IDField(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// matchesID reports whether v is the id want. Non-numeric values never match.
func matchesID(v any, want int64) bool {
	id, ok := IDField(v)
	return ok && id == want
}

const entrySchema = `{
	"definitions": {
		"entry": {
			"type": "object",
			"properties": {
				"id":   {"type": "integer"},
				"name": {"type": "string"}
			},
			"required": ["id"]
		}
	},
	%s
}`

var (
	singleEntrySchema = mustSchema(fmt.Sprintf(entrySchema, `"$ref": "#/definitions/entry"`))
	entryListSchema   = mustSchema(fmt.Sprintf(entrySchema, `"type": "array", "items": {"$ref": "#/definitions/entry"}`))
)

func mustSchema(source string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("payloaddb: invalid schema: %v", err))
	}
	return schema
}

func validate(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !result.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidResponse, result.Errors()[0].String())
	}
	return nil
}

// decodeEntry validates and decodes the response to a create request.
func decodeEntry(data []byte) (Entry, error) {
	if err := validate(singleEntrySchema, data); err != nil {
		return Entry{}, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return entry, nil
}

// decodeEntries validates and decodes a list response. A single object is treated as a list of one.
func decodeEntries(data []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		trimmed = append(append([]byte{'['}, trimmed...), ']')
	}

	if err := validate(entryListSchema, trimmed); err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return entries, nil
}
