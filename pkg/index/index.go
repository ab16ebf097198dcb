// Package index precomputes normalized field values for a loaded dataset so
// searches never normalize static data twice.
package index

import (
	"strings"

	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/normalize"
	"github.com/tchap/go-patricia/v2/patricia"
)

// CabPrefix is stripped from dictionary values before prefix matching.
const CabPrefix = "cab-"

// Entry is the indexed form of one record.
type Entry struct {
	Pos    int
	Record dataset.Record
	// Norm holds the normalized recognized fields (list mode) or key and
	// value (dictionary mode).
	Norm map[string]string
	// Extras holds normalized unrecognized list-mode fields.
	Extras map[string]string
}

// Normalized returns the normalized value of field, looking at recognized
// fields first and extras second.
func (e *Entry) Normalized(field string) string {
	if v, ok := e.Norm[field]; ok {
		return v
	}
	return e.Extras[field]
}

// Index is immutable once built and safe for concurrent readers.
type Index struct {
	Mode    dataset.Mode
	Entries []Entry

	keys   *patricia.Trie
	values *patricia.Trie
}

// Build indexes records for mode, preserving input order.
func Build(records []dataset.Record, mode dataset.Mode) *Index {
	ix := &Index{
		Mode:    mode,
		Entries: make([]Entry, 0, len(records)),
	}
	if mode == dataset.ModeDictionary {
		ix.keys = patricia.NewTrie()
		ix.values = patricia.NewTrie()
	}

	for i, rec := range records {
		var e Entry
		if mode == dataset.ModeDictionary {
			e = dictionaryEntry(i, rec)
			insertPos(ix.keys, e.Norm[dataset.KeyField], i)
			insertPos(ix.values, StripCab(e.Norm[dataset.ValueField]), i)
		} else {
			e = listEntry(i, rec)
		}
		ix.Entries = append(ix.Entries, e)
	}
	return ix
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.Entries)
}

func listEntry(pos int, rec dataset.Record) Entry {
	norm := make(map[string]string, len(Languages)+3)
	norm[FieldGallery] = normalize.String(rec.Get(FieldGallery))
	norm[FieldIndex] = normalize.String(rec.Get(FieldIndex))
	norm[FieldID] = normalize.String(rec.Get(FieldID))
	for _, lang := range Languages {
		norm[lang] = normalize.String(rec.Get(lang))
	}

	extras := make(map[string]string)
	for k, v := range rec {
		if !IsRecognized(k) {
			extras[k] = normalize.String(v)
		}
	}
	return Entry{Pos: pos, Record: rec, Norm: norm, Extras: extras}
}

func dictionaryEntry(pos int, rec dataset.Record) Entry {
	return Entry{
		Pos:    pos,
		Record: rec,
		Norm: map[string]string{
			dataset.KeyField:   normalize.String(rec.Get(dataset.KeyField)),
			dataset.ValueField: normalize.String(rec.Get(dataset.ValueField)),
		},
	}
}

// StripCab removes a single leading "cab-" from a normalized value.
func StripCab(s string) string {
	return strings.TrimPrefix(s, CabPrefix)
}

func insertPos(t *patricia.Trie, key string, pos int) {
	if key == "" {
		return
	}
	p := patricia.Prefix(key)
	if item := t.Get(p); item != nil {
		t.Set(p, append(item.([]int), pos))
		return
	}
	t.Insert(p, []int{pos})
}

// PrefixSide reports which sides of a dictionary entry start with a query.
type PrefixSide struct {
	Key   bool
	Value bool
}

// PrefixMatches returns, for a normalized query, the positions of
// dictionary entries whose key or cab-stripped value starts with it.
func (ix *Index) PrefixMatches(q string) map[int]PrefixSide {
	hits := make(map[int]PrefixSide)
	if ix == nil || ix.keys == nil || q == "" {
		return hits
	}
	prefix := patricia.Prefix(q)
	ix.keys.VisitSubtree(prefix, func(_ patricia.Prefix, item patricia.Item) error {
		for _, pos := range item.([]int) {
			side := hits[pos]
			side.Key = true
			hits[pos] = side
		}
		return nil
	})
	ix.values.VisitSubtree(prefix, func(_ patricia.Prefix, item patricia.Item) error {
		for _, pos := range item.([]int) {
			side := hits[pos]
			side.Value = true
			hits[pos] = side
		}
		return nil
	})
	return hits
}
