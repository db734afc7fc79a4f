package sim

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/chemotaxis/components"
	"github.com/pthm-cable/chemotaxis/systems"
)

// agentSnapshot captures one agent's state for parallel processing.
// Each worker mutates only the snapshots in its own chunk.
type agentSnapshot struct {
	Entity ecs.Entity
	Pos    components.Position
	Vel    components.Velocity
	Mot    components.Motility
}

// workChunk represents a range of agents for a worker to process.
type workChunk struct {
	start, end int
}

// parallelState holds resources for parallel motion updates.
type parallelState struct {
	snapshots  []agentSnapshot
	decisions  []systems.Decision
	numWorkers int

	// Per-step inputs, written before chunks are dispatched
	field  systems.FieldSampler
	dt     float64
	params systems.MotionParams

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		snapshots:  make([]agentSnapshot, 0, 256),
		decisions:  make([]systems.Decision, 0, 256),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.computeChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// computeChunk applies the motion rule to snapshots [i0, i1).
func (p *parallelState) computeChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		snap := &p.snapshots[i]
		p.decisions[i] = systems.Advance(&snap.Pos, &snap.Vel, &snap.Mot, p.field, p.dt, p.params)
	}
}

// dispatch splits n snapshots across the workers and waits for completion.
func (p *parallelState) dispatch(n int) {
	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

// stepParallel runs one tick of motion on the worker pool.
// Results match the sequential system exactly: every agent owns its random
// stream and the field is read-only for the whole step.
func (s *Simulation) stepParallel() systems.StepStats {
	p := s.parallel

	// Phase A: build snapshots (single-threaded)
	p.snapshots = p.snapshots[:0]
	query := s.agents.Query()
	for query.Next() {
		pos, vel, mot := query.Get()
		p.snapshots = append(p.snapshots, agentSnapshot{
			Entity: query.Entity(),
			Pos:    *pos,
			Vel:    *vel,
			Mot:    *mot,
		})
	}

	n := len(p.snapshots)
	if n == 0 {
		return systems.StepStats{}
	}
	if cap(p.decisions) < n {
		p.decisions = make([]systems.Decision, n)
	}
	p.decisions = p.decisions[:n]

	// Phase B: compute
	p.field = s.field
	p.dt = s.params.DT
	p.params = s.chemotaxis.Params()
	p.dispatch(n)

	// Phase C: apply (single-threaded, in snapshot order)
	var stats systems.StepStats
	for i := range p.snapshots {
		snap := &p.snapshots[i]
		pos, vel, mot := s.agentMap.Get(snap.Entity)
		*pos = snap.Pos
		*vel = snap.Vel
		*mot = snap.Mot
		stats.Record(p.decisions[i])
	}
	return stats
}
