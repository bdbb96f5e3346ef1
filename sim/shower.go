package sim

import (
	"math"
	"math/rand"

	"seep/config"
)

// Shower owns the droplet particle system. Each step it advances the rain
// intensity ramp, spawns droplets against a fractional accumulator, and
// integrates live droplets through their state machines, depositing
// moisture as they go.
type Shower struct {
	cfg  *config.Config
	rng  *rand.Rand
	pool *dropletPool
	dep  *Depositor

	// Flashes collects impact glows on the flat topology; nil on corner.
	Flashes *FlashSet

	corner  bool
	w, h    float32
	cornerY float32 // wall/floor hand-off line in px

	// Intensity is the rain ramp scalar in [0,1]. It climbs toward 1 while
	// the rain is on and back toward 0 after SetRaining(false).
	Intensity float32

	raining  bool
	spawnAcc float32

	// Lifetime counters for telemetry.
	Spawned uint64
	Retired uint64
	Impacts uint64
}

// NewShower builds the particle system for one surface configuration.
func NewShower(f *Field, dep *Depositor, cfg *config.Config, rng *rand.Rand) *Shower {
	s := &Shower{
		cfg:     cfg,
		rng:     rng,
		pool:    newDropletPool(cfg.Shower.MaxDroplets),
		dep:     dep,
		w:       float32(f.W),
		h:       float32(f.H),
		raining: true,
	}
	if cfg.Surface.Topology == config.TopologyCorner {
		s.corner = true
		s.cornerY = float32(cfg.Surface.CornerLine) * s.h
	} else {
		s.Flashes = NewFlashSet(cfg.Shower.MaxDroplets, float32(cfg.Overlay.FlashLife))
	}
	return s
}

// Step advances the shower by dt seconds.
func (s *Shower) Step(dt float32) {
	s.ramp(dt)
	s.spawn(dt)
	s.integrate(dt)
	if s.Flashes != nil {
		s.Flashes.Update(dt)
	}
}

// Live returns the number of active droplets.
func (s *Shower) Live() int { return s.pool.count() }

// SetRaining switches the shower on or off. The intensity ramps toward the
// new target rather than jumping, so the field response stays smooth.
func (s *Shower) SetRaining(on bool) { s.raining = on }

// Raining reports whether the shower is ramping toward full intensity.
func (s *Shower) Raining() bool { return s.raining }

// EachDroplet calls fn for every live droplet. Used by the overlay pass.
func (s *Shower) EachDroplet(fn func(*Droplet)) {
	for i := 0; i < s.pool.count(); i++ {
		fn(s.pool.at(i))
	}
}

func (s *Shower) ramp(dt float32) {
	var target float32
	if s.raining {
		target = 1
	}
	ramp := float32(s.cfg.Shower.RampSeconds)
	if ramp <= 0 {
		s.Intensity = target
		return
	}
	step := dt / ramp
	if s.Intensity < target {
		s.Intensity += step
		if s.Intensity > target {
			s.Intensity = target
		}
	} else if s.Intensity > target {
		s.Intensity -= step
		if s.Intensity < target {
			s.Intensity = target
		}
	}
}

// spawn carries fractional spawn targets across ticks so the long-run rate
// matches density * intensity regardless of frame timing.
func (s *Shower) spawn(dt float32) {
	s.spawnAcc += float32(s.cfg.Shower.Density) * s.Intensity * dt
	for s.spawnAcc >= 1 {
		if s.pool.full() {
			// At the cap the surplus is shed, so droplets retiring later
			// do not release a burst.
			if s.spawnAcc > 1 {
				s.spawnAcc = 1
			}
			return
		}
		s.spawnOne()
		s.spawnAcc--
	}
}

func (s *Shower) spawnOne() {
	d := s.pool.acquire()
	if d == nil {
		return
	}
	s.Spawned++

	sh := &s.cfg.Shower
	d.Radius = s.uniform(float32(sh.RadiusMin), float32(sh.RadiusMax))
	d.Strength = s.uniform(float32(sh.StrengthMin), float32(sh.StrengthMax))

	if s.corner {
		if s.rng.Float32() < float32(sh.Wall.SpawnWeight) {
			s.startWall(d)
		} else {
			s.startFloor(d)
		}
		return
	}
	s.startFall(d)
}

// startFall places a droplet above a uniformly drawn impact point, so
// impacts cover the surface evenly no matter the fall height.
func (s *Shower) startFall(d *Droplet) {
	f := &s.cfg.Shower.Fall
	margin := float32(s.cfg.Shower.SpawnMargin)

	d.State = StateFalling
	d.Life = s.uniform(float32(f.HeightMin), float32(f.HeightMax))
	d.X = -margin + s.rng.Float32()*(s.w+2*margin)
	d.Y = s.rng.Float32()*s.h - d.Life
	d.VY = s.uniform(float32(f.StartSpeedMin), float32(f.StartSpeedMax))
}

func (s *Shower) startWall(d *Droplet) {
	d.State = StateWallSliding
	d.X = s.rng.Float32() * s.w
	d.Y = s.rng.Float32() * s.cornerY
	d.VY = 0
	d.Life = s.floorLife()
}

func (s *Shower) startFloor(d *Droplet) {
	d.State = StateFloorFlowing
	d.X = s.rng.Float32() * s.w
	d.Y = s.cornerY + s.rng.Float32()*(s.h-s.cornerY)
	d.Life = s.floorLife()
	s.flowVelocity(d)
}

func (s *Shower) integrate(dt float32) {
	for i := s.pool.count() - 1; i >= 0; i-- {
		d := s.pool.at(i)
		var retire bool
		switch d.State {
		case StateFalling:
			retire = s.stepFall(d, dt)
		case StateWallSliding:
			retire = s.stepWall(d, dt)
		case StateFloorFlowing:
			retire = s.stepFloor(d, dt)
		}
		if retire {
			s.pool.releaseAt(i)
			s.Retired++
		}
	}
}

func (s *Shower) stepFall(d *Droplet, dt float32) bool {
	d.VY += float32(s.cfg.Shower.Fall.Gravity) * dt
	step := d.VY * dt
	d.Y += step
	d.X += float32(s.cfg.Shower.WindX) * dt
	d.Life -= step

	margin := float32(s.cfg.Shower.SpawnMargin)
	if d.X < -margin || d.X > s.w+margin || d.Y > s.h+margin {
		return true // drifted out, no deposit
	}
	if d.Life <= 0 {
		s.dep.Deposit(d.X, d.Y, d.Radius, d.Strength*float32(s.cfg.Deposit.TerminalScale))
		if s.Flashes != nil {
			s.Flashes.Spawn(d.X, d.Y, d.Radius*float32(s.cfg.Overlay.FlashRadius), d.Strength)
		}
		s.Impacts++
		return true
	}
	return false
}

func (s *Shower) stepWall(d *Droplet, dt float32) bool {
	w := &s.cfg.Shower.Wall
	d.VY += float32(w.Gravity) * dt
	if limit := float32(w.MaxSlide); d.VY > limit {
		d.VY = limit
	}
	d.Y += d.VY * dt

	// Trailing streak: two small overlapping deposits per tick.
	streak := d.Strength * float32(s.cfg.Deposit.StreakScale)
	gap := float32(w.StreakGap) * d.Radius
	s.dep.Deposit(d.X, d.Y, d.Radius*0.8, streak)
	s.dep.Deposit(d.X, d.Y-gap, d.Radius*0.55, streak)

	if d.Y >= s.cornerY {
		s.handOff(d)
	}
	return false
}

// handOff converts a wall slider into a floor flow at the seam. The one
// terminal deposit fires here; retirement will not fire another.
func (s *Shower) handOff(d *Droplet) {
	w := &s.cfg.Shower.Wall
	d.State = StateFloorFlowing
	d.Y = s.cornerY
	d.Radius *= s.uniform(float32(w.GrowthMin), float32(w.GrowthMax))
	s.flowVelocity(d)
	s.dep.Deposit(d.X, d.Y, d.Radius, d.Strength*float32(s.cfg.Deposit.TerminalScale))
	d.deposited = true
}

func (s *Shower) stepFloor(d *Droplet, dt float32) bool {
	fl := &s.cfg.Shower.Floor
	d.VX *= float32(math.Pow(fl.Drag, float64(dt)*60))
	d.VX += (s.rng.Float32()*2 - 1) * float32(fl.Jitter) * dt
	d.X += d.VX * dt
	d.Y += d.VY * dt
	d.Life -= dt

	s.dep.Deposit(d.X, d.Y, d.Radius*0.9, d.Strength*float32(s.cfg.Deposit.FlowScale))

	if d.Life <= 0 || d.X < 0 || d.X > s.w || d.Y > s.h {
		if !d.deposited {
			s.dep.Deposit(d.X, d.Y, d.Radius*1.2, d.Strength*float32(s.cfg.Deposit.TerminalScale))
			d.deposited = true
		}
		return true
	}
	return false
}

// flowVelocity gives a droplet its floor motion: a sideways flow with a
// random sign and a gentle downward settle.
func (s *Shower) flowVelocity(d *Droplet) {
	fl := &s.cfg.Shower.Floor
	speed := s.uniform(float32(fl.FlowSpeedMin), float32(fl.FlowSpeedMax))
	if s.rng.Float32() < 0.5 {
		speed = -speed
	}
	d.VX = speed
	d.VY = s.uniform(float32(fl.SettleMin), float32(fl.SettleMax))
}

func (s *Shower) floorLife() float32 {
	fl := &s.cfg.Shower.Floor
	return s.uniform(float32(fl.LifeMin), float32(fl.LifeMax))
}

// uniform draws from [lo, hi).
func (s *Shower) uniform(lo, hi float32) float32 {
	return lo + s.rng.Float32()*(hi-lo)
}
