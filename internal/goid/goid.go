// Package goid extracts the current goroutine's id.
//
// Go deliberately does not expose goroutine ids; parsing the header of a
// single-goroutine stack dump ("goroutine <id> [...]") is the established
// workaround. Thread-affinity bookkeeping needs a stable per-goroutine key
// and nothing else, so the id is never used for anything but map lookups
// and diagnostics.
package goid

import (
	"runtime"
	"strconv"
	"strings"
)

// ID returns the current goroutine's id.
func ID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := string(buf[:n])
	s = strings.TrimPrefix(s, "goroutine ")
	if idx := strings.Index(s, " "); idx > 0 {
		s = s[:idx]
	}
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}
