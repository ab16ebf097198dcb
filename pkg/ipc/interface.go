/*
Package ipc serves incremental search to editors and other programs over a
msgpack stream, typically the stdin/stdout of `armory ipc`.

Messages are msgpack maps written back to back without framing. Every
request carries an ID that is echoed in its response:

	{"id": "1", "action": "input", "q": "ライフ"}
	{"id": "1", "tab": "weapons", "q": "ライフ", "rows": [{"label": "ja", "text": "レーザーライフル", "copy": "0141"}]}

Actions:

  - input: record the query and search once the client has been quiet for
    the configured debounce. Only the last input of a burst is answered.
  - search: search immediately.
  - tab: select a tab; the query is cleared and the tab's dataset loaded.
  - fields: replace the enabled fields (and optionally the Index toggle).

When the selected tab's dataset is reloaded the current query is searched
again and answered under the ID of the latest input.
*/
package ipc

// Request actions.
const (
	ActionInput  = "input"
	ActionSearch = "search"
	ActionTab    = "tab"
	ActionFields = "fields"
)

// Request is a client message.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action"`
	Query  string   `msgpack:"q,omitempty"`
	Tab    string   `msgpack:"tab,omitempty"`
	Fields []string `msgpack:"fields,omitempty"`
	Index  *bool    `msgpack:"index,omitempty"`
}

// Row is one result. Fields lists the other matched fields of a list row.
type Row struct {
	Label  string   `msgpack:"label"`
	Text   string   `msgpack:"text"`
	Copy   string   `msgpack:"copy"`
	Fields []string `msgpack:"fields,omitempty"`
}

// Response answers a request, or announces readiness with Status "ready".
type Response struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status,omitempty"`
	Tab     string `msgpack:"tab,omitempty"`
	Query   string `msgpack:"q,omitempty"`
	Rows    []Row  `msgpack:"rows"`
	Message string `msgpack:"message,omitempty"`
	Error   string `msgpack:"error,omitempty"`
}
