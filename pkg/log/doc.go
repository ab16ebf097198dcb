// Package log is a thin wrapper around the standard library logger that
// gives every component of armory a named logger.
//
// Each line carries the level and the logger name:
//
//	INFO [library>] tab weapons: indexed 2048 list entries from list.json
//	WARN [session>] 5f0c…: tab index: failed to load index.json: ...
//
// Debug output is off unless enabled globally (SetGlobalDebug, the --debug
// flag) or per logger (EnableDebugFor, EnableDebugList, ARMORY_DEBUG):
//
//	log.EnableDebugList("watch,live")
//	log.ForService("watch").Debugf("visible")
//	log.ForService("ipc").Debugf("not visible")
//
// Output goes to stderr so the ipc command can own stdout. SetOutput
// redirects every existing and future logger, which tests use to capture
// lines in a buffer.
//
// All functions are safe for concurrent use.
package log
