//go:build wasm

package internal

import "sync"

var once sync.Once
var globalRuntime *Runtime

// GetRuntime returns the process-wide reactive runtime. js/wasm builds are
// single-goroutine in practice, so goroutine-scoping degrades to one global
// instance.
func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime()
	})

	return globalRuntime
}

func getGID() int64 {
	return 0
}
