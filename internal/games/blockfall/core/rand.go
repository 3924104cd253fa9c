package core

// Rand is the kernel's seeded generator (version 1: mulberry32).
//
// Each draw advances a 32-bit state by 0x6D2B79F5 and mixes it:
//
//	t += 0x6D2B79F5
//	r  = (t ^ t>>15) * (1 | t)
//	r ^= r + (r ^ r>>7) * (61 | r)
//	out = r ^ r>>14
//
// All arithmetic wraps at 32 bits. Replays and telemetry depend on this
// sequence being bit-identical across implementations; do not change it
// without bumping RandVersion.
type Rand struct {
	state uint32
}

// RandVersion identifies the mixing function above.
const RandVersion = 1

// NewRand returns a generator seeded with seed.
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Uint32 returns the next raw 32-bit output.
func (r *Rand) Uint32() uint32 {
	r.state += 0x6D2B79F5
	t := r.state
	x := (t ^ (t >> 15)) * (1 | t)
	x ^= x + (x^(x>>7))*(61|x)
	return x ^ (x >> 14)
}

// Float64 returns a value in [0,1) with 32 bits of resolution.
func (r *Rand) Float64() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// Intn returns a value in [0,n). It panics if n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("core: Intn called with non-positive n")
	}
	return int(r.Float64() * float64(n))
}

// Bag is a shuffle-without-replacement piece source. Each refill holds
// exactly one of every type in Alphabet, so a type is never absent for
// more than 2*len(Alphabet)-1 consecutive draws.
type Bag struct {
	rng   *Rand
	items []PieceType
}

// NewBag returns an empty bag drawing from rng. The first Next refills it.
func NewBag(rng *Rand) *Bag {
	return &Bag{rng: rng, items: make([]PieceType, 0, len(Alphabet))}
}

// Next pops the next piece from the end of the bag, refilling first if empty.
func (b *Bag) Next() PieceType {
	if len(b.items) == 0 {
		b.refill()
	}
	last := len(b.items) - 1
	p := b.items[last]
	b.items = b.items[:last]
	return p
}

// Len returns the number of pieces left before the next refill.
func (b *Bag) Len() int {
	return len(b.items)
}

// Peek returns the next n pieces without consuming them or advancing the
// shared generator.
func (b *Bag) Peek(n int) []PieceType {
	rngCopy := *b.rng
	clone := &Bag{rng: &rngCopy, items: append([]PieceType(nil), b.items...)}
	out := make([]PieceType, n)
	for i := range out {
		out[i] = clone.Next()
	}
	return out
}

// refill loads the alphabet and applies an in-place Fisher-Yates shuffle.
func (b *Bag) refill() {
	b.items = append(b.items[:0], Alphabet[:]...)
	for i := len(b.items) - 1; i > 0; i-- {
		j := int(b.rng.Float64() * float64(i+1))
		b.items[i], b.items[j] = b.items[j], b.items[i]
	}
}
