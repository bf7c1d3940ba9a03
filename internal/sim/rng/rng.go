// Package rng provides the explicit seeded random stream the simulation
// draws from. Every stochastic decision in the kernel goes through a Stream
// owned by its Session, never through ambient randomness, so a replayed
// action trace can never desynchronize. The mixing constants are stable
// across releases; do not change them without bumping the snapshot version.
package rng

// Stream is a splitmix64 generator with exportable state.
type Stream struct {
	state uint64
}

// New returns a stream seeded with the given value.
func New(seed uint64) *Stream {
	return &Stream{state: seed}
}

// Resume reconstructs a stream from previously exported state.
func Resume(state uint64) *Stream {
	return &Stream{state: state}
}

// State exports the current position of the stream for snapshots.
func (s *Stream) State() uint64 {
	return s.state
}

// Uint64 advances the stream and returns the next value.
func (s *Stream) Uint64() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a uniform value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Uint64()>>11) / float64(uint64(1)<<53)
}

// Intn returns a uniform value in [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	return int(s.Uint64() % uint64(n))
}

// Chance reports true with probability p.
func (s *Stream) Chance(p float64) bool {
	return s.Float64() < p
}

// Derive produces an independent seed from the stream's seed and a label,
// without advancing the stream. Used for worldgen retry seeds.
func Derive(seed uint64, label uint64) uint64 {
	return Mix64(seed ^ label*0x9e3779b97f4a7c15)
}

// Mix64 avalanches a 64-bit value (murmur3 finalizer).
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// Hash2 returns a stable hash for 2D integer coordinates plus seed.
// Large odd constants help decorrelate the axes.
func Hash2(seed uint64, x, y int) uint64 {
	h := seed
	h ^= uint64(uint32(x)) * 0x9e3779b1
	h ^= uint64(uint32(y)) * 0x85ebca6b
	return Mix64(h)
}
