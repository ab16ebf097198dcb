// Package dataset loads the JSON documents that back a search tab.
//
// Two shapes are recognized. An array of flat objects is a list dataset
// (weapon records keyed by id, gallery, Index and language codes). A flat
// object of key to value is a dictionary dataset; its entries keep document
// order.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rubiojr/armory/pkg/log"
)

// Mode selects how a dataset is decoded, indexed, searched and rendered.
type Mode string

const (
	ModeList       Mode = "list"
	ModeDictionary Mode = "dictionary"
)

// ParseMode validates a mode name. An empty name means list.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeList:
		return ModeList, nil
	case ModeDictionary:
		return ModeDictionary, nil
	}
	return "", fmt.Errorf("unknown dataset type %q", s)
}

// Field names shared by dictionary records.
const (
	KeyField   = "key"
	ValueField = "value"
)

// Record is a single decoded entry. Values are always strings; missing
// fields read as "".
type Record map[string]string

// Get returns the value of field or "".
func (r Record) Get(field string) string {
	return r[field]
}

// Dataset is an immutable set of records loaded for one tab.
type Dataset struct {
	Source  string
	Mode    Mode
	Records []Record
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

var ErrShape = errors.New("unexpected JSON document shape")

// Decode reads a JSON document from r and builds the records for mode.
// Object order is preserved for dictionaries, so the document is walked
// token by token instead of being unmarshaled into a map.
func Decode(r io.Reader, mode Mode) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("%w: got %v", ErrShape, tok)
	}

	ds := &Dataset{Mode: mode}
	switch delim {
	case '[':
		ds.Records, err = decodeArray(dec, mode)
	case '{':
		ds.Records, err = decodeObject(dec, mode)
	default:
		err = fmt.Errorf("%w: got %v", ErrShape, delim)
	}
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("trailing data after document")
		}
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	return ds, nil
}

func decodeArray(dec *json.Decoder, mode Mode) ([]Record, error) {
	var records []Record
	for dec.More() {
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding element %d: %w", len(records), err)
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			log.ForService("dataset").Debugf("skipping non-object element %d", len(records))
			continue
		}
		rec := make(Record, len(obj))
		for k, v := range obj {
			rec[k] = stringify(v)
		}
		if mode == ModeDictionary {
			rec = Record{KeyField: rec[KeyField], ValueField: rec[ValueField]}
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("closing array: %w", err)
	}
	return records, nil
}

func decodeObject(dec *json.Decoder, mode Mode) ([]Record, error) {
	var records []Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key %v", ErrShape, tok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding value of %q: %w", key, err)
		}
		records = append(records, Record{KeyField: key, ValueField: stringify(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("closing object: %w", err)
	}

	if mode == ModeList {
		log.ForService("dataset").Warnf("object document given to a list tab, ignoring %d entries", len(records))
		return nil, nil
	}
	return records, nil
}

// stringify turns a decoded JSON value into the text used for searching
// and display. Nested values keep their compact JSON form.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
