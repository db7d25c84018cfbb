//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// GetRuntime returns the runtime of the calling goroutine, creating it on first use.
func GetRuntime() *Runtime {
	gid := getGID()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r, _ := runtimes.LoadOrStore(gid, NewRuntime())
	return r.(*Runtime)
}

func getGID() int64 {
	return goid.Get()
}
