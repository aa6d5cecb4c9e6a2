// Package engine provides the randomness sources behind the default
// decision provider: a seeded HMAC-SHA256 stream that makes whole games
// reproducible from a seed pair, a small Mulberry32 PRNG, and crypto/rand.
package engine

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"math/big"
)

// Source yields uniform integers. Intn panics if n <= 0, like math/rand.
type Source interface {
	Intn(n int) int
}

// SeededSource draws integers from a ByteGenerator, one float per draw.
type SeededSource struct {
	seeds Seeds
	nonce uint64
	bg    *ByteGenerator
}

// NewSeededSource starts a stream at cursor 0.
func NewSeededSource(seeds Seeds, nonce uint64) *SeededSource {
	return RestoreSeededSource(seeds, nonce, 0)
}

// RestoreSeededSource resumes a stream at a cursor previously read from Cursor.
func RestoreSeededSource(seeds Seeds, nonce uint64, cursor uint64) *SeededSource {
	return &SeededSource{
		seeds: seeds,
		nonce: nonce,
		bg:    NewByteGenerator(seeds.Server, seeds.Client, nonce, cursor),
	}
}

// Intn returns floor(f * n) for the next stream float f.
func (s *SeededSource) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with non-positive n")
	}
	return scale(s.bg.NextFloat(), n)
}

// Float64 returns the next stream float in [0, 1).
func (s *SeededSource) Float64() float64 {
	return s.bg.NextFloat()
}

// Cursor is the number of stream bytes consumed so far.
func (s *SeededSource) Cursor() uint64 {
	return s.bg.Cursor()
}

// Seeds returns the seed pair the stream was created from.
func (s *SeededSource) Seeds() Seeds {
	return s.seeds
}

// Nonce returns the stream nonce.
func (s *SeededSource) Nonce() uint64 {
	return s.nonce
}

// Mulberry32Source is a fast 32-bit PRNG that can be reimplemented
// identically in JavaScript for scripted rollouts.
// Algorithm: https://gist.github.com/tommyettinger/46a874533244883189143505d203312c
type Mulberry32Source struct {
	state uint32
}

// NewMulberry32Source seeds the generator.
func NewMulberry32Source(seed uint32) *Mulberry32Source {
	return &Mulberry32Source{state: seed}
}

// Next returns the next random uint32.
func (m *Mulberry32Source) Next() uint32 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns a random float64 in [0, 1).
func (m *Mulberry32Source) Float64() float64 {
	return float64(m.Next()) / 4294967296.0
}

func (m *Mulberry32Source) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with non-positive n")
	}
	return scale(m.Float64(), n)
}

// EntropySource draws from crypto/rand. It is not reproducible.
type EntropySource struct{}

// NewEntropySource returns a crypto/rand backed source.
func NewEntropySource() EntropySource {
	return EntropySource{}
}

func (EntropySource) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with non-positive n")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic("engine: read entropy: " + err.Error())
	}
	return int(v.Int64())
}

// HashSeed returns the sha256 hex digest of a seed, safe to log or store.
func HashSeed(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

func scale(f float64, n int) int {
	idx := int(math.Floor(f * float64(n)))
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
