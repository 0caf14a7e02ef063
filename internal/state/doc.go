// Package state stores the snapshot recorded after the last check cycle.
//
// The state file is a JSON object mapping each relative path to a
// two-element array of modification time (fractional seconds) and size:
//
//	{
//	  "notes/todo.md": [1709294400.123456, 512]
//	}
//
// Load never fails. A missing, empty or corrupt file is treated as an empty
// snapshot, which makes the next cycle report every file as added.
package state
