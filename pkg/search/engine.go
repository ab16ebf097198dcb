package search

import (
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/index"
	"github.com/rubiojr/armory/pkg/normalize"
)

// MaxResults caps every result list.
const MaxResults = 20

// Dictionary match sides, used as Match.Field.
const (
	SideKey   = "key"
	SideValue = "value"
)

// Match is one field that contained the query. Value is what gets displayed:
// the field's original text in list mode, the entry key in dictionary mode.
type Match struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Result is a record and the fields it matched, in scan order.
type Result struct {
	Record  dataset.Record `json:"record"`
	Matches []Match        `json:"matches"`

	score  int
	offset int
}

// Score returns the priority score used for ranking (list mode).
func (r Result) Score() int {
	return r.score
}

// Engine answers queries over one immutable index.
type Engine struct {
	ix *index.Index
}

func NewEngine(ix *index.Index) *Engine {
	return &Engine{ix: ix}
}

// FromDataset indexes ds and returns an engine for it.
func FromDataset(ds *dataset.Dataset) *Engine {
	return NewEngine(index.Build(ds.Records, ds.Mode))
}

// Mode returns the dataset mode, list for a nil engine.
func (e *Engine) Mode() dataset.Mode {
	if e == nil || e.ix == nil {
		return dataset.ModeList
	}
	return e.ix.Mode
}

// Len returns the number of indexed entries.
func (e *Engine) Len() int {
	if e == nil {
		return 0
	}
	return e.ix.Len()
}

// Search returns the ranked results for query. A query that normalizes to
// whitespace returns nothing without scanning.
func (e *Engine) Search(query string, opts Options) []Result {
	if e == nil || e.ix == nil {
		return nil
	}
	q := normalize.String(query)
	if strings.TrimSpace(q) == "" {
		return nil
	}
	if e.ix.Mode == dataset.ModeDictionary {
		return e.searchDictionary(q)
	}
	return e.searchList(q, opts)
}

func (e *Engine) searchList(q string, opts Options) []Result {
	order := index.ScanOrder()
	var results []Result
	for i := range e.ix.Entries {
		ent := &e.ix.Entries[i]
		var matches []Match
		for _, field := range order {
			if opts.Enabled(field) && strings.Contains(ent.Norm[field], q) {
				matches = append(matches, Match{Field: field, Value: ent.Record.Get(field)})
			}
		}
		if opts.Enabled(index.FieldIndex) && strings.Contains(ent.Norm[index.FieldIndex], q) {
			matches = append(matches, Match{Field: index.FieldIndex, Value: ent.Record.Get(index.FieldIndex)})
		}
		if len(matches) == 0 {
			continue
		}
		r := Result{Record: ent.Record, Matches: matches}
		r.score = priorityScore(matches)
		r.offset = firstOffset(ent, matches, q)
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return less(results[i], results[j])
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

func (e *Engine) searchDictionary(q string) []Result {
	hits := e.ix.PrefixMatches(q)
	positions := make([]int, 0, len(hits))
	for pos := range hits {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	var results []Result
	for _, pos := range positions {
		if len(results) == MaxResults {
			break
		}
		ent := &e.ix.Entries[pos]
		key := ent.Record.Get(dataset.KeyField)
		side := hits[pos]

		var matches []Match
		if side.Key {
			matches = append(matches, Match{Field: SideKey, Value: key})
		}
		if side.Value {
			matches = append(matches, Match{Field: SideValue, Value: key})
		}
		results = append(results, Result{Record: ent.Record, Matches: matches})
	}
	return results
}

func priorityScore(matches []Match) int {
	has := func(field string) bool {
		for _, m := range matches {
			if m.Field == field {
				return true
			}
		}
		return false
	}
	switch {
	case has(index.FieldGallery):
		return 100
	case has(index.FieldJA):
		return 80
	case has(index.FieldENGB):
		return 60
	case has(index.FieldIndex):
		return 40
	}
	return 10
}

// firstOffset returns the smallest position of q in any matched field,
// counted in UTF-16 code units, or -1 when none can be located.
func firstOffset(ent *index.Entry, matches []Match, q string) int {
	best := -1
	for _, m := range matches {
		v := ent.Normalized(m.Field)
		p := strings.Index(v, q)
		if p < 0 {
			continue
		}
		p = utf16Len(v[:p])
		if best < 0 || p < best {
			best = p
		}
	}
	return best
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func less(a, b Result) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.offset != b.offset {
		switch {
		case a.offset < 0:
			return false
		case b.offset < 0:
			return true
		}
		return a.offset < b.offset
	}
	return strings.Compare(a.Record.Get(index.FieldID), b.Record.Get(index.FieldID)) < 0
}
