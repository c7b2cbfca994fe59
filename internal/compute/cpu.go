package compute

import (
	"runtime"
	"sync"
)

// minRowsPerWorker keeps tiny grids on the calling goroutine.
const minRowsPerWorker = 8

type CPUBackend struct {
	workers int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) Rows(rows int, fn func(start, end int)) {
	workers := c.workers
	if rows/minRowsPerWorker < workers {
		workers = rows / minRowsPerWorker
	}
	if workers <= 1 {
		fn(0, rows)
		return
	}

	chunkSize := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// SerialBackend evaluates every row on the calling goroutine.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (SerialBackend) Name() string                           { return "serial" }
func (SerialBackend) Available() bool                        { return true }
func (SerialBackend) Cleanup()                               {}
func (SerialBackend) Rows(rows int, fn func(start, end int)) { fn(0, rows) }
