package util

import (
	"runtime"
)

// HeapStats is a snapshot of the Go heap.
type HeapStats struct {
	AllocBytes uint64
	Objects    uint64
}

// ReadHeap samples the heap. It briefly stops the world, so call it once per
// unit of work rather than in loops.
func ReadHeap() HeapStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return HeapStats{AllocBytes: m.HeapAlloc, Objects: m.HeapObjects}
}

// AllocMB returns the allocated heap in whole MB.
func (h HeapStats) AllocMB() uint64 {
	return h.AllocBytes / 1024 / 1024
}

// Growth returns the bytes allocated since before, or 0 if a collection
// shrank the heap in between.
func (h HeapStats) Growth(before HeapStats) uint64 {
	if h.AllocBytes < before.AllocBytes {
		return 0
	}
	return h.AllocBytes - before.AllocBytes
}
