package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Envelope is the backend's wrapped response:
//
//	{ "status": true, "statusFlag": "Ok", "paramObjectsMap": { "<key>": ... } }
//
// The key under paramObjectsMap varies per endpoint and sometimes per
// deployment, so callers look it up through an ordered alias list.
type Envelope struct {
	Status          *bool                      `json:"status,omitempty"`
	StatusFlag      string                     `json:"statusFlag,omitempty"`
	ParamObjectsMap map[string]json.RawMessage `json:"paramObjectsMap,omitempty"`
}

// FlagMirrored marks an envelope served from an offline mirror instead of
// the backend.
const FlagMirrored = "Mirrored"

// OK is false only when the backend explicitly answered status=false.
func (e *Envelope) OK() bool {
	return e != nil && (e.Status == nil || *e.Status)
}

// Lookup returns the payload under the first key that is present and not null.
func (e *Envelope) Lookup(keys []string) (json.RawMessage, string, bool) {
	if e == nil || len(e.ParamObjectsMap) == 0 {
		return nil, "", false
	}
	for _, k := range keys {
		raw, ok := e.ParamObjectsMap[k]
		if !ok {
			continue
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		return trimmed, k, true
	}
	return nil, "", false
}

// Message returns paramObjectsMap.message when the backend sent one.
func (e *Envelope) Message() string {
	raw, _, ok := e.Lookup([]string{"message"})
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return s
}

// Count is an integer the backend sometimes serializes as a string.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("count %q: %w", s, err)
		}
		*c = Count(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = Count(int(f))
	return nil
}

// Page is one page of list data as the backend reported it.
// TotalCount and TotalPages are nil when the backend omitted them.
type Page[T any] struct {
	Rows       []T
	TotalCount *int
	TotalPages *int
	IsFirst    *bool
	IsLast     *bool
}

type pageWire[T any] struct {
	Data       []T    `json:"data"`
	TotalCount *Count `json:"totalCount"`
	TotalPages *Count `json:"totalPages"`
	IsFirst    *bool  `json:"isFirst"`
	IsLast     *bool  `json:"isLast"`
}

// DecodePage unwraps a list payload. found is false when none of the keys is
// present, which callers treat as an empty result rather than an error.
func DecodePage[T any](e *Envelope, keys []string) (page Page[T], found bool, err error) {
	raw, key, ok := e.Lookup(keys)
	if !ok {
		return Page[T]{}, false, nil
	}
	var w pageWire[T]
	if err := json.Unmarshal(raw, &w); err != nil {
		return Page[T]{}, true, fmt.Errorf("decode %s: %w", key, err)
	}
	page = Page[T]{Rows: w.Data, IsFirst: w.IsFirst, IsLast: w.IsLast}
	if w.TotalCount != nil {
		n := int(*w.TotalCount)
		page.TotalCount = &n
	}
	if w.TotalPages != nil {
		n := int(*w.TotalPages)
		page.TotalPages = &n
	}
	return page, true, nil
}

// DecodeRecord unwraps a detail payload, which is either the record itself or
// { "data": [record] }.
func DecodeRecord[T any](e *Envelope, keys []string) (rec T, found bool, err error) {
	raw, key, ok := e.Lookup(keys)
	if !ok {
		return rec, false, nil
	}

	switch raw[0] {
	case '[':
		return firstOf[T](raw, key)
	case '{':
		var wrapped struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err == nil {
			data := bytes.TrimSpace(wrapped.Data)
			if len(data) > 0 && data[0] == '[' {
				return firstOf[T](data, key)
			}
		}
	}

	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, true, fmt.Errorf("decode %s: %w", key, err)
	}
	return rec, true, nil
}

func firstOf[T any](raw json.RawMessage, key string) (rec T, found bool, err error) {
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return rec, true, fmt.Errorf("decode %s: %w", key, err)
	}
	if len(list) == 0 {
		return rec, false, nil
	}
	return list[0], true, nil
}
