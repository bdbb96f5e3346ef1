package sim

import (
	"runtime"
	"sync"
)

// parallelRowThreshold is the minimum row count worth fanning out. Below
// this, goroutine overhead beats the win.
const parallelRowThreshold = 64

// rowChunk is a half-open row range for one worker, plus the pass to run.
type rowChunk struct {
	start, end int
	fn         func(start, end int)
}

// rowPool fans full-grid passes (evaporation, compositing) out over row
// ranges using persistent workers. Diffusion never runs here: it performs
// read-modify-write across two cells chosen at runtime and must stay
// single-threaded.
type rowPool struct {
	numWorkers int

	workChan chan rowChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newRowPool(workers int) *rowPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &rowPool{numWorkers: workers}
}

// start launches the persistent workers.
func (p *rowPool) start() {
	if p.running {
		return
	}
	p.workChan = make(chan rowChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *rowPool) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *rowPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// run applies fn over [0, rows) split into per-worker chunks, returning
// once every chunk has completed. Small grids run inline.
func (p *rowPool) run(rows int, fn func(start, end int)) {
	if rows <= 0 {
		return
	}
	if rows < parallelRowThreshold || p.numWorkers <= 1 {
		fn(0, rows)
		return
	}
	if !p.running {
		p.start()
	}

	chunkSize := (rows + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		if start >= end {
			continue
		}
		p.workChan <- rowChunk{start: start, end: end, fn: fn}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
