package sim

// ImpactFlash is a short-lived radial glow at a droplet impact point. It is
// drawn additively by the overlay pass and never touches the wetness field.
type ImpactFlash struct {
	X, Y     float32
	Radius   float32
	Strength float32
	Life     float32 // seconds remaining
	MaxLife  float32
}

// FlashSet manages active impact flashes.
type FlashSet struct {
	Flashes    []ImpactFlash
	maxFlashes int
	life       float32
}

// NewFlashSet builds a flash set whose entries live for life seconds.
func NewFlashSet(maxFlashes int, life float32) *FlashSet {
	if maxFlashes < 1 {
		maxFlashes = 1
	}
	return &FlashSet{
		Flashes:    make([]ImpactFlash, 0, maxFlashes),
		maxFlashes: maxFlashes,
		life:       life,
	}
}

// Spawn adds a flash at an impact point. When the set is full the new
// flash is simply dropped; flashes are cosmetic.
func (s *FlashSet) Spawn(x, y, radius, strength float32) {
	if len(s.Flashes) >= s.maxFlashes || s.life <= 0 {
		return
	}
	s.Flashes = append(s.Flashes, ImpactFlash{
		X:        x,
		Y:        y,
		Radius:   radius,
		Strength: strength,
		Life:     s.life,
		MaxLife:  s.life,
	})
}

// Update ages all flashes and compacts out the expired ones.
func (s *FlashSet) Update(dt float32) {
	alive := 0
	for i := range s.Flashes {
		f := &s.Flashes[i]
		f.Life -= dt
		if f.Life <= 0 {
			continue
		}
		s.Flashes[alive] = s.Flashes[i]
		alive++
	}
	s.Flashes = s.Flashes[:alive]
}

// Count returns the number of active flashes.
func (s *FlashSet) Count() int {
	return len(s.Flashes)
}
