// Package cli is the interactive front end of SnapLocation.
//
// App owns every service (storage, preferences, map view, capture workflow,
// photo store, history) and exposes them as REPL commands. The REPL goroutine
// is the UI thread: background completions are drained before each prompt.
package cli
