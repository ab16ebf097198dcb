// Package search runs incremental queries against an indexed dataset.
//
// # Overview
//
// An Engine wraps an immutable index.Index and answers one query at a time
// with at most MaxResults results. The caller passes the enabled fields as an
// Options value on every call; the engine keeps no per-query state and is
// safe for concurrent use.
//
// # List datasets
//
// The normalized query is tested as a substring of each enabled field, in a
// fixed order: gallery, ja, en-gb, the remaining languages, then Index when
// enabled. Every matching field is recorded. Results are ranked by the best
// matched field:
//
//	gallery  100
//	ja        80
//	en-gb     60
//	Index     40
//	other     10
//
// Equal scores are ordered by the earliest position of the query inside any
// matched field, then by record id.
//
// # Dictionary datasets
//
// The normalized query must be a prefix of the entry key, or of the entry
// value once a leading "cab-" is removed. Results keep document order and
// always display the key.
//
// # Parameters
//
// ParseParams turns HTTP style query parameters into Params, which the web,
// API and IPC front-ends share:
//
//	params, err := search.ParseParams(r.URL.Query())
//	if err != nil {
//		// unknown field name
//	}
//	results := engine.Search(params.Query, params.Options(defaults))
package search
