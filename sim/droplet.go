package sim

// DropletState tags which motion rule drives a droplet this tick.
type DropletState uint8

const (
	// StateFalling drops toward an impact point on the flat topology.
	StateFalling DropletState = iota
	// StateWallSliding creeps down the wall, streaking moisture.
	StateWallSliding
	// StateFloorFlowing drifts along the floor until its life runs out.
	StateFloorFlowing
)

// Droplet is one live particle. The envelope (position, velocity, radius,
// strength, life) is shared across states; Life holds remaining fall height
// in px while falling and remaining seconds on the floor.
type Droplet struct {
	X, Y     float32
	VX, VY   float32
	Radius   float32
	Strength float32
	Life     float32
	State    DropletState

	// deposited marks that the terminal deposit has fired, so retirement
	// does not fire a second one.
	deposited bool
}

// dropletPool is a fixed-capacity arena with a free-list. Acquire and
// release move slot indices between the free stack and the live list, so
// steady-state spawning allocates nothing.
type dropletPool struct {
	slots []Droplet
	free  []int32
	live  []int32
}

func newDropletPool(capacity int) *dropletPool {
	if capacity < 1 {
		capacity = 1
	}
	p := &dropletPool{
		slots: make([]Droplet, capacity),
		free:  make([]int32, capacity),
		live:  make([]int32, 0, capacity),
	}
	for i := range p.free {
		p.free[i] = int32(capacity - 1 - i)
	}
	return p
}

// acquire takes a free slot, zeroes it, and marks it live. Returns nil when
// the arena is exhausted.
func (p *dropletPool) acquire() *Droplet {
	n := len(p.free)
	if n == 0 {
		return nil
	}
	idx := p.free[n-1]
	p.free = p.free[:n-1]
	p.live = append(p.live, idx)
	d := &p.slots[idx]
	*d = Droplet{}
	return d
}

// releaseAt retires the droplet at position i in the live list by
// swap-removal. Safe to call during a backwards or index-held iteration as
// long as the caller does not advance past i afterwards.
func (p *dropletPool) releaseAt(i int) {
	idx := p.live[i]
	last := len(p.live) - 1
	p.live[i] = p.live[last]
	p.live = p.live[:last]
	p.free = append(p.free, idx)
}

// count returns the number of live droplets.
func (p *dropletPool) count() int { return len(p.live) }

// full reports whether the arena has no free slots left.
func (p *dropletPool) full() bool { return len(p.free) == 0 }

// at returns the live droplet at position i in the live list.
func (p *dropletPool) at(i int) *Droplet { return &p.slots[p.live[i]] }
