package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math"
)

const roundSize = 32

// Seeds is the server/client seed pair a seeded simulation is derived from.
type Seeds struct {
	Server string `json:"serverSeed"` // ASCII; never hex-decoded
	Client string `json:"clientSeed"`
}

// ByteGenerator streams bytes from HMAC-SHA256(server, "client:nonce:round").
// Each round yields 32 bytes; the cursor counts bytes consumed since round 0.
type ByteGenerator struct {
	serverSeed   string
	clientSeed   string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [roundSize]byte
}

// NewByteGenerator creates a generator positioned at cursor.
func NewByteGenerator(serverSeed, clientSeed string, nonce uint64, cursor uint64) *ByteGenerator {
	bg := &ByteGenerator{
		serverSeed:   serverSeed,
		clientSeed:   clientSeed,
		nonce:        nonce,
		currentRound: cursor / roundSize,
		currentPos:   int(cursor % roundSize),
	}
	bg.generateRound()
	return bg
}

// Next returns the next byte from the stream.
func (bg *ByteGenerator) Next() byte {
	if bg.currentPos >= roundSize {
		bg.currentRound++
		bg.currentPos = 0
		bg.generateRound()
	}

	b := bg.buffer[bg.currentPos]
	bg.currentPos++
	return b
}

// NextFloat consumes exactly 4 bytes and returns a float in [0, 1).
func (bg *ByteGenerator) NextFloat() float64 {
	return bytesToFloat([4]byte{bg.Next(), bg.Next(), bg.Next(), bg.Next()})
}

// Cursor is the number of bytes consumed since round 0.
func (bg *ByteGenerator) Cursor() uint64 {
	return bg.currentRound*roundSize + uint64(bg.currentPos)
}

func (bg *ByteGenerator) generateRound() {
	h := hmac.New(sha256.New, []byte(bg.serverSeed))
	fmt.Fprintf(h, "%s:%d:%d", bg.clientSeed, bg.nonce, bg.currentRound)
	copy(bg.buffer[:], h.Sum(nil))
}

// bytesToFloat computes b0/256 + b1/256^2 + b2/256^3 + b3/256^4.
func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		result += float64(b) / math.Pow(256, float64(i+1))
	}
	return result
}

// Floats generates count floats starting from cursor.
func Floats(serverSeed, clientSeed string, nonce uint64, cursor uint64, count int) []float64 {
	return FloatsInto(nil, serverSeed, clientSeed, nonce, cursor, count)
}

// FloatsInto fills dst with count floats, allocating only when dst is too small.
func FloatsInto(dst []float64, serverSeed, clientSeed string, nonce uint64, cursor uint64, count int) []float64 {
	if len(dst) < count {
		dst = make([]float64, count)
	}

	bg := NewByteGenerator(serverSeed, clientSeed, nonce, cursor)
	for i := 0; i < count; i++ {
		dst[i] = bg.NextFloat()
	}
	return dst[:count]
}
